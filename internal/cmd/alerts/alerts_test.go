package alerts_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolinasrbc/spotcheck/internal/cmd/alerts"
	"github.com/bolinasrbc/spotcheck/internal/cmd/emoji"
	"github.com/bolinasrbc/spotcheck/internal/cmd/output"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
)

func TestAlertString(t *testing.T) {
	a := alerts.NewError("Applicant problem").WithError(stderrors.New("boom"))
	assert.Equal(t, emoji.Error+" Applicant problem: boom", a.String())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, alerts.LevelError, alerts.LevelFor(reconcile.SeverityStructural))
	assert.Equal(t, alerts.LevelError, alerts.LevelFor(reconcile.SeverityAnomaly))
	assert.Equal(t, alerts.LevelWarning, alerts.LevelFor(reconcile.SeveritySoft))
	assert.Equal(t, alerts.LevelInfo, alerts.LevelFor(reconcile.SeverityNotice))
}

func TestFromResult(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		result := reconcile.NewResultBuilder().WithOK("No applicant problem.").Build()
		got := alerts.FromResult(result)
		require.Len(t, got, 1)
		assert.Equal(t, alerts.LevelSuccess, got[0].Level)
		assert.Equal(t, "All 1 checks passed.", got[0].Message)
	})

	t.Run("problems", func(t *testing.T) {
		result := reconcile.NewResultBuilder().
			WithFinding(reconcile.Finding{
				Check:    reconcile.CheckApplicantMap,
				Section:  reconcile.SectionStatus,
				Severity: reconcile.SeverityStructural,
				Title:    "Applicant problem",
				Parts:    []reconcile.Block{{Title: "Differences", Lines: []string{"a", "b"}}},
			}).
			Build()
		got := alerts.FromResult(result)
		require.Len(t, got, 2)
		assert.Equal(t, alerts.LevelError, got[0].Level)
		assert.Equal(t, []string{"Differences (2)"}, got[0].Details)
		assert.Equal(t, alerts.LevelError, got[1].Level)
	})
}

func TestFormatWriter(t *testing.T) {
	a := alerts.NewWarning("Acceptable Inconsistency").WithDetails("Fee amounts don't match")

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, alerts.NewFormatWriter(&buf, output.FormatText).WriteAlert(a))
		assert.Equal(t, emoji.Warning+" Acceptable Inconsistency\n   Fee amounts don't match\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, alerts.NewFormatWriter(&buf, output.FormatJSON).WriteAlert(a))
		assert.JSONEq(t, `{"level":"warning","message":"Acceptable Inconsistency","details":["Fee amounts don't match"]}`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, alerts.NewFormatWriter(&buf, output.FormatYAML).WriteAlert(a))
		assert.Contains(t, buf.String(), "level: warning\n")
		assert.Contains(t, buf.String(), "message: Acceptable Inconsistency\n")
	})
}

func TestWriteAll(t *testing.T) {
	var buf bytes.Buffer
	err := alerts.WriteAll(alerts.NewWriterTo(&buf), []*alerts.Alert{alerts.NewInfo("one"), alerts.NewSuccess("two")})
	require.NoError(t, err)
	assert.Equal(t, emoji.Info+" one\n"+emoji.Success+" two\n", buf.String())
}
