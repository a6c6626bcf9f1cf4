package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"obras/internal/objectstore"
)

const defaultDownloadDir = "downloads"

var errUsage = errors.New("invalid arguments, run with -h for usage")

type tool struct {
	store  objectstore.Store
	folder string
	out    io.Writer
}

func (t *tool) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "check":
		return t.check(ctx)
	case "list":
		return t.list(ctx, arg(rest, 0, ""))
	case "upload":
		if len(rest) < 1 {
			return errUsage
		}
		key := arg(rest, 1, objectstore.JoinKey(t.folder, filepath.Base(rest[0])))
		return t.upload(ctx, rest[0], key)
	case "download":
		if len(rest) < 2 {
			return errUsage
		}
		return t.download(ctx, rest[0], rest[1])
	case "delete":
		if len(rest) < 1 {
			return errUsage
		}
		return t.delete(ctx, rest[0])
	case "download-all":
		return t.downloadAll(ctx, arg(rest, 0, ""), arg(rest, 1, defaultDownloadDir))
	case "selftest":
		return t.selftest(ctx)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func (t *tool) check(ctx context.Context) error {
	if err := t.store.Check(ctx); err != nil {
		return fmt.Errorf("bucket access: %w", err)
	}
	fmt.Fprintln(t.out, "Object store access confirmed")
	return nil
}

func (t *tool) list(ctx context.Context, prefix string) error {
	objects, err := t.store.List(ctx, prefix)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Fprintln(t.out, "No objects found")
		return nil
	}
	tw := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tUPDATED")
	for _, o := range objects {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Key, o.Size, o.Updated.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func (t *tool) upload(ctx context.Context, file, key string) error {
	location, err := objectstore.UploadFile(ctx, t.store, file, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "Uploaded %s to %s\n", file, location)
	return nil
}

func (t *tool) download(ctx context.Context, key, file string) error {
	if err := objectstore.DownloadFile(ctx, t.store, key, file); err != nil {
		return err
	}
	fmt.Fprintf(t.out, "Downloaded %s to %s\n", t.store.Location(key), file)
	return nil
}

func (t *tool) delete(ctx context.Context, key string) error {
	if err := t.store.Delete(ctx, key); err != nil {
		return err
	}
	fmt.Fprintf(t.out, "Deleted %s\n", t.store.Location(key))
	return nil
}

func (t *tool) downloadAll(ctx context.Context, prefix, dir string) error {
	results, err := objectstore.DownloadAll(ctx, t.store, prefix, dir)
	if err != nil {
		return err
	}
	var failed int
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(t.out, "FAILED %s: %v\n", r.Key, r.Error)
			continue
		}
		fmt.Fprintf(t.out, "Downloaded %s to %s\n", r.Key, r.Path)
	}
	fmt.Fprintf(t.out, "Downloaded %d of %d objects into %s\n", len(results)-failed, len(results), dir)
	if failed > 0 {
		return fmt.Errorf("%d downloads failed", failed)
	}
	return nil
}

// selftest round-trips a probe file through the store and removes it.
func (t *tool) selftest(ctx context.Context) error {
	if err := t.check(ctx); err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "report-storage-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	content := []byte(fmt.Sprintf("report-storage selftest %s\n", time.Now().UTC().Format(time.RFC3339)))
	src := filepath.Join(dir, "selftest.txt")
	if err := os.WriteFile(src, content, 0o600); err != nil {
		return err
	}
	key := objectstore.JoinKey(t.folder, fmt.Sprintf("selftest_%d.txt", time.Now().UnixNano()))

	if err := t.upload(ctx, src, key); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := t.list(ctx, key); err != nil {
		return fmt.Errorf("list: %w", err)
	}

	dst := filepath.Join(dir, "selftest.downloaded.txt")
	if err := t.download(ctx, key, dst); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, content) {
		return errors.New("downloaded content differs from upload")
	}

	if err := t.delete(ctx, key); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	fmt.Fprintln(t.out, "Selftest passed")
	return nil
}

func arg(args []string, i int, def string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return def
}
