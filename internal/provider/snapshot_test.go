package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotFixture = `host: VBR01
collected_at: 2026-08-30T01:00:00Z
modules:
  - Name: Platform.PowerShell
    Version: "12.1.2"
    Installed: true
license:
  - LicensedTo: Acme Corp
    Edition: Enterprise
    Status: Valid
    ExpirationDate: 2026-10-15T00:00:00Z
jobs:
  - Name: nightly-sql
    Type: Backup
    TargetRepository: main-repo
    ScheduleSummary: "Daily at 22:00"
    LastResult: Success
repositories:
  - Name: main-repo
    Type: Windows
    Path: "D:\\Backups"
    TotalSpace: 1099511627776
    FreeSpace: 219902325555
proxies:
  - Name: proxy-01
    Host: proxy01.local
    MaxTasks: 4
sessions:
  - JobName: nightly-sql
    CreationTime: 2026-08-29T22:00:00Z
    EndTime: 2026-08-29T23:10:00Z
    Result: Success
    State: Stopped
  - JobName: nightly-sql
    CreationTime: 2026-08-20T22:00:00Z
    EndTime: 2026-08-20T23:05:00Z
    Result: Success
    State: Stopped
`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshotFixture), 0644))
	return path
}

func newSnapshotForTest(t *testing.T) *SnapshotProvider {
	t.Helper()
	p, err := NewSnapshotProvider(&types.ProviderConfig{
		Name:         "collector-dump",
		Type:         "snapshot",
		Enabled:      true,
		SnapshotFile: writeSnapshot(t),
	}, logger.NewTest())
	require.NoError(t, err)
	return p
}

func TestSnapshotProvider_fetchAllKinds(t *testing.T) {
	p := newSnapshotForTest(t)
	ctx := context.Background()

	tests := []struct {
		kind     types.EntityKind
		expected int
	}{
		{kind: types.KindModules, expected: 1},
		{kind: types.KindLicense, expected: 1},
		{kind: types.KindJobs, expected: 1},
		{kind: types.KindRepositories, expected: 1},
		{kind: types.KindProxies, expected: 1},
		{kind: types.KindSessions, expected: 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			records, err := p.Fetch(ctx, tt.kind, Filter{})
			require.NoError(t, err)
			assert.Len(t, records, tt.expected)
		})
	}
}

func TestSnapshotProvider_sessionWindowFilter(t *testing.T) {
	p := newSnapshotForTest(t)

	since := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	records, err := p.Fetch(context.Background(), types.KindSessions, Filter{Since: since})
	require.NoError(t, err)

	require.Len(t, records, 1)
	started, ok := recordTime(records[0], "CreationTime")
	require.True(t, ok)
	assert.False(t, started.Before(since))
}

func TestSnapshotProvider_recordValues(t *testing.T) {
	p := newSnapshotForTest(t)

	records, err := p.Fetch(context.Background(), types.KindRepositories, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "main-repo", records[0]["Name"])
	assert.Equal(t, 1099511627776, records[0]["TotalSpace"])
}

func TestSnapshotProvider_hostBanner(t *testing.T) {
	p := newSnapshotForTest(t)
	assert.Equal(t, "VBR01", p.Host())
}

func TestSnapshotProvider_missingFileIsUnavailable(t *testing.T) {
	p, err := NewSnapshotProvider(&types.ProviderConfig{
		Name:         "gone",
		SnapshotFile: filepath.Join(t.TempDir(), "nope.yaml"),
	}, logger.NewTest())
	require.NoError(t, err)

	assert.ErrorIs(t, p.IsHealthy(context.Background()), ErrUnavailable)

	_, err = p.Fetch(context.Background(), types.KindJobs, Filter{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSnapshotProvider_requiresFile(t *testing.T) {
	_, err := NewSnapshotProvider(&types.ProviderConfig{Name: "empty"}, logger.NewTest())
	assert.Error(t, err)
}
