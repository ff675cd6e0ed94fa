package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestObserveSummary(t *testing.T) {
	r := NewRun()

	s := models.NewSummary("run-1", []models.Account{
		{AccountID: "P", Outcome: models.OutcomeParent},
		{AccountID: "C", Outcome: models.OutcomeChild},
		{AccountID: "D", Outcome: models.OutcomeChild},
		{AccountID: "N"},
	})
	s.GroupsWithParent = 1
	s.GroupsWithoutParent = 2
	s.PatchesSkipped = 3
	r.ObserveSummary(s)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.Records.WithLabelValues("Child")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.Records.WithLabelValues("No Action")))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.Records.WithLabelValues("Delete")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.Groups.WithLabelValues("false")))
	assert.Equal(t, float64(3), testutil.ToFloat64(r.PatchesSkipped))
}

func TestObserveStageAndSideSinks(t *testing.T) {
	r := NewRun()

	r.ObserveStage("resolve", 1500*time.Millisecond)
	r.ObserveSideSink("kafka", 4)
	r.ObserveSideSink("kafka", 1)

	assert.Equal(t, 1.5, testutil.ToFloat64(r.StageDuration.WithLabelValues("resolve")))
	assert.Equal(t, float64(5), testutil.ToFloat64(r.SideSinkEvents.WithLabelValues("kafka")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRun()
	r.ObserveSummary(models.NewSummary("run-1", []models.Account{{AccountID: "A", Outcome: models.OutcomeDelete}}))
	r.MarkSuccess(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "fern.prom")
	require.NoError(t, r.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `fern_resolve_records{outcome="Delete"} 1`)
	assert.Contains(t, out, "fern_run_last_success_timestamp_seconds ")

	// separate runs do not share series
	assert.Equal(t, 0, testutil.CollectAndCount(NewRun().Records))
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := NewRun().WriteTextfile(filepath.Join(t.TempDir(), "missing", "fern.prom"))
	assert.Error(t, err)
}
