package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"obras/internal/history"
	"obras/internal/report"
	"obras/internal/services"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printTable(w io.Writer, t report.Table) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, strings.Join(t.Header, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s *services.RunSummary) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "STATUS\tPROJECT\tROWS\tLOCATION / ERROR")
	for _, r := range s.Uploaded {
		fmt.Fprintf(tw, "uploaded\t%s\t%d\t%s\n", projectLabel(r), r.Rows, r.Location)
	}
	for _, r := range s.Skipped {
		fmt.Fprintf(tw, "skipped\t%s\t-\t%v\n", projectLabel(r), r.Err)
	}
	for _, r := range s.Failed {
		fmt.Fprintf(tw, "failed\t%s\t-\t%v\n", projectLabel(r), r.Err)
	}
	return tw.Flush()
}

func printHistory(w io.Writer, runs []history.Run) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tSTARTED\tMODE\tREFERENCE\tSTATUS\tUPLOADED\tSKIPPED\tFAILED\tERROR")
	for _, r := range runs {
		ref := r.ReferenceMonth
		if ref == "" {
			ref = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Mode, ref, r.Status,
			r.Uploaded, r.Skipped, r.Failed, r.Error)
	}
	return tw.Flush()
}

func printOutcomes(w io.Writer, outcomes []history.Outcome) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "RECORDED\tSTATUS\tPROJECT\tROWS\tLOCATION / ERROR")
	for _, o := range outcomes {
		detail := o.Location
		if o.Error != "" {
			detail = o.Error
		}
		label := projectLabel(services.ProjectResult{ProjectID: o.ProjectID, ProjectName: o.ProjectName})
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			o.RecordedAt.Local().Format(time.DateTime), o.Status, label, o.Rows, detail)
	}
	return tw.Flush()
}

func projectLabel(r services.ProjectResult) string {
	switch {
	case r.ProjectName != "":
		return r.ProjectName
	case r.ProjectID != "":
		return r.ProjectID
	default:
		return "(all projects)"
	}
}
