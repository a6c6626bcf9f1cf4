package amqp

import (
	"encoding/json"
	"time"
)

// ReportPublishedMessage announces that a report CSV was uploaded. Consumers
// fetch the file from Location.
type ReportPublishedMessage struct {
	Location       string    `json:"location"`
	Project        string    `json:"project,omitempty"`
	ProjectID      string    `json:"project_id,omitempty"`
	Mode           string    `json:"mode"`
	ReferenceMonth string    `json:"reference_month,omitempty"`
	Rows           int       `json:"rows"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewReportPublishedMessage creates a message stamped with the current time.
// project is empty for the combined monthly report.
func NewReportPublishedMessage(location, projectID, project, mode, referenceMonth string, rows int) *ReportPublishedMessage {
	return &ReportPublishedMessage{
		Location:       location,
		Project:        project,
		ProjectID:      projectID,
		Mode:           mode,
		ReferenceMonth: referenceMonth,
		Rows:           rows,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportPublishedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
