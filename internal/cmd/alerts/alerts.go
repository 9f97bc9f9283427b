// Package alerts provides leveled status lines for the CLI.
package alerts

import (
	"fmt"
	"io"
	"time"

	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
)

// Alert represents a status notification.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// LevelFor maps a finding severity to an alert level.
func LevelFor(s reconcile.Severity) Level {
	switch s {
	case reconcile.SeverityRecord, reconcile.SeverityAnomaly, reconcile.SeverityStructural:
		return LevelError
	case reconcile.SeveritySoft:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// FromResult summarizes a run: one alert per finding, then the overall
// summary line. Details list the finding's parts by title.
func FromResult(result *reconcile.Result) []*Alert {
	out := make([]*Alert, 0, len(result.Findings)+1)
	for _, f := range result.Findings {
		a := New(LevelFor(f.Severity), f.Title)
		for _, p := range f.Parts {
			a.WithDetails(fmt.Sprintf("%s (%d)", p.Title, len(p.Lines)))
		}
		out = append(out, a)
	}

	summary := result.Summary()
	switch {
	case result.HasProblems():
		out = append(out, NewError(summary))
	case len(result.Findings) > 0:
		out = append(out, NewWarning(summary))
	default:
		out = append(out, NewSuccess(summary))
	}
	return out
}

// Writer handles alert output to different formats and destinations.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// WriteAll writes each alert in turn, stopping at the first error.
func WriteAll(w Writer, alerts []*Alert) error {
	for _, a := range alerts {
		if err := w.WriteAlert(a); err != nil {
			return err
		}
	}
	return nil
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// NewWriterTo creates a Writer that writes plain lines to w.
func NewWriterTo(w io.Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		_, err := fmt.Fprintln(w, alert.String())
		return err
	})
}
