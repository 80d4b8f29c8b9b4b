package history

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path, 0)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first, err := store.SaveSnapshot("cell-a", Snapshot{Timestamp: base, Score: 71.5, FileCount: 4, TotalLines: 900})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.RunID)
	assert.Equal(t, SchemaVersion, first.SchemaVersion)
	assert.Equal(t, "cell-a", first.ProjectKey)

	_, err = store.SaveSnapshot("cell-a", Snapshot{Timestamp: base.Add(2 * time.Hour), Score: 75, FileCount: 5, UnusedVarCount: 3})
	require.NoError(t, err)
	_, err = store.SaveSnapshot("cell-b", Snapshot{Timestamp: base, Score: 10})
	require.NoError(t, err)

	all, err := store.LoadSnapshots("cell-a", time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.RunID, all[0].RunID)
	assert.Equal(t, 71.5, all[0].Score)
	assert.Equal(t, 900, all[0].TotalLines)
	assert.Equal(t, 3, all[1].UnusedVarCount)

	recent, err := store.LoadSnapshots("cell-a", base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 75.0, recent[0].Score)
}

func TestStore_OrdersSnapshotsWithinOneSecond(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), 0)
	require.NoError(t, err)
	defer store.Close()

	whole := time.Date(2026, 2, 13, 10, 0, 2, 0, time.UTC)
	// saved out of order; the whole second must still come first
	for _, ts := range []time.Time{whole.Add(100 * time.Millisecond), whole, whole.Add(120 * time.Millisecond)} {
		_, err := store.SaveSnapshot("cell", Snapshot{Timestamp: ts, Score: float64(ts.Nanosecond() / int(time.Millisecond))})
		require.NoError(t, err)
	}

	got, err := store.LoadSnapshots("cell", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Timestamp.Equal(whole))
	assert.Equal(t, []float64{0, 100, 120}, []float64{got[0].Score, got[1].Score, got[2].Score})

	since, err := store.LoadSnapshots("cell", whole.Add(50*time.Millisecond))
	require.NoError(t, err)
	assert.Len(t, since, 2)
}

func TestTimestampLayoutIsFixedWidth(t *testing.T) {
	a := formatTimestamp(time.Date(2026, 1, 1, 0, 0, 2, 0, time.UTC))
	b := formatTimestamp(time.Date(2026, 1, 1, 0, 0, 2, 100_000_000, time.UTC))
	assert.Equal(t, len(a), len(b))
	assert.Less(t, a, b)

	legacy, err := parseTimestamp("2026-01-01T00:00:02.1Z")
	require.NoError(t, err)
	assert.Equal(t, 100_000_000, legacy.Nanosecond())
}

func TestStore_SaveSameRunUpserts(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), time.Second)
	require.NoError(t, err)
	defer store.Close()

	saved, err := store.SaveSnapshot("", Snapshot{Score: 40})
	require.NoError(t, err)
	assert.Equal(t, "default", saved.ProjectKey)

	saved.Score = 60
	_, err = store.SaveSnapshot("", saved)
	require.NoError(t, err)

	got, err := store.LoadSnapshots("default", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 60.0, got[0].Score)
}

func TestStore_RejectsUnknownSchemaVersion(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), 0)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.SaveSnapshot("p", Snapshot{SchemaVersion: SchemaVersion + 1})
	require.Error(t, err)
}

func TestOpen_InvalidPaths(t *testing.T) {
	_, err := Open("  ", 0)
	require.Error(t, err)

	_, err = Open(t.TempDir(), 0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "is a directory"))
}

func TestEnsureSchema_NewerVersionFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	require.NoError(t, err)

	err = EnsureSchema(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestBuildTrendReport(t *testing.T) {
	_, err := BuildTrendReport(nil, time.Hour)
	require.Error(t, err)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		{ProjectKey: "p", Timestamp: base, Score: 60, FileCount: 3, TotalComplexity: 40},
		{ProjectKey: "p", Timestamp: base.Add(time.Hour), Score: 70, FileCount: 4, TotalComplexity: 38, UnusedVarCount: 2},
		{ProjectKey: "p", Timestamp: base.Add(5 * time.Hour), Score: 65, FileCount: 4, TotalComplexity: 45},
	}

	report, err := BuildTrendReport(snaps, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "p", report.ProjectKey)
	assert.Equal(t, 3, report.RunCount)
	assert.Equal(t, base, report.Since)

	p1 := report.Points[1]
	assert.Equal(t, 10.0, p1.DeltaScore)
	assert.Equal(t, 1, p1.DeltaFiles)
	assert.Equal(t, -2, p1.DeltaComplexity)
	assert.Equal(t, 2, p1.DeltaUnusedVars)
	assert.Equal(t, 65.0, p1.AvgScore)

	p2 := report.Points[2]
	assert.Equal(t, -5.0, p2.DeltaScore)
	assert.Equal(t, 65.0, p2.AvgScore, "older runs fall outside the window")
	assert.Equal(t, 2.0, p2.WindowHours)

	flat, err := BuildTrendReport(snaps, 0)
	require.NoError(t, err)
	assert.Equal(t, 70.0, flat.Points[1].AvgScore)
}
