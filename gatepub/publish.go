// Package gatepub publishes evaluation reports to NATS for downstream
// consumers (dashboards, pipeline gates, audit sinks).
package gatepub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/codegate/engine"
)

// DefaultSubject for evaluation report publishing.
const DefaultSubject = "codegate.reports"

// ReportMessage is the wire format for one published evaluation.
type ReportMessage struct {
	ID          string         `json:"id"`
	Path        string         `json:"path"`
	Profile     string         `json:"profile"`
	Function    string         `json:"function,omitempty"`
	Passed      bool           `json:"passed"`
	Report      *engine.Report `json:"report"`
	PublishedAt time.Time      `json:"published_at"`
}

// PublishReport publishes an evaluation outcome. A nil connection is a
// no-op so callers without a configured NATS URL need no special case.
func PublishReport(nc *nats.Conn, subject, path, profile, function string, report *engine.Report) error {
	if nc == nil {
		return nil // Skip publishing if no NATS connection (graceful degradation)
	}
	if subject == "" {
		subject = DefaultSubject
	}

	msg := ReportMessage{
		ID:          uuid.NewString(),
		Path:        path,
		Profile:     profile,
		Function:    function,
		Passed:      report.PrimaryPassed,
		Report:      report,
		PublishedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal report message: %w", err)
	}
	if err := nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// Connect dials the NATS server, returning nil for an empty URL so the
// result can be handed straight to PublishReport.
func Connect(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url, nats.Name("codegate"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}
