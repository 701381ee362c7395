package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
	"gopkg.in/yaml.v3"
)

// SnapshotProvider reads a YAML snapshot exported by a platform-side
// collector. This is the integration path for platforms whose management
// API is only reachable from their own tooling: a scheduled collector dumps
// the raw entity bags, spyglass normalizes and reports them.
type SnapshotProvider struct {
	name   string
	file   string
	logger *logger.Logger
}

type snapshotDocument struct {
	Host         string           `yaml:"host"`
	CollectedAt  time.Time        `yaml:"collected_at"`
	Modules      []map[string]any `yaml:"modules"`
	License      []map[string]any `yaml:"license"`
	Jobs         []map[string]any `yaml:"jobs"`
	Repositories []map[string]any `yaml:"repositories"`
	Proxies      []map[string]any `yaml:"proxies"`
	Sessions     []map[string]any `yaml:"sessions"`
}

func NewSnapshotProvider(config *types.ProviderConfig, logger *logger.Logger) (*SnapshotProvider, error) {
	if config.SnapshotFile == "" {
		return nil, fmt.Errorf("snapshot provider %s: snapshot_file is required", config.Name)
	}

	return &SnapshotProvider{
		name:   config.Name,
		file:   config.SnapshotFile,
		logger: logger,
	}, nil
}

func (p *SnapshotProvider) GetName() string {
	return p.name
}

func (p *SnapshotProvider) GetType() string {
	return "snapshot"
}

func (p *SnapshotProvider) IsHealthy(ctx context.Context) error {
	if _, err := os.Stat(p.file); err != nil {
		return fmt.Errorf("%w: snapshot file %s: %v", ErrUnavailable, p.file, err)
	}
	return nil
}

func (p *SnapshotProvider) Fetch(ctx context.Context, kind types.EntityKind, filter Filter) ([]types.RawRecord, error) {
	doc, err := p.load()
	if err != nil {
		return nil, wrapFetchErr(err, kind)
	}

	var raw []map[string]any
	switch kind {
	case types.KindModules:
		raw = doc.Modules
	case types.KindLicense:
		raw = doc.License
	case types.KindJobs:
		raw = doc.Jobs
	case types.KindRepositories:
		raw = doc.Repositories
	case types.KindProxies:
		raw = doc.Proxies
	case types.KindSessions:
		raw = doc.Sessions
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	records := make([]types.RawRecord, 0, len(raw))
	for _, entry := range raw {
		record := types.RawRecord(entry)
		if kind == types.KindSessions && !filter.Since.IsZero() {
			if started, ok := recordTime(record, "CreationTime"); ok && started.Before(filter.Since) {
				continue
			}
		}
		records = append(records, record)
	}

	p.logger.Debug("fetch_completed").
		Str("provider", p.name).
		Str("kind", string(kind)).
		Int("records", len(records)).
		Send()

	return records, nil
}

func (p *SnapshotProvider) load() (*snapshotDocument, error) {
	p.logger.Debug("snapshot_loading").
		Str("file", p.file).
		Send()

	data, err := os.ReadFile(p.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: snapshot file %s", ErrUnavailable, p.file)
		}
		return nil, err
	}

	var doc snapshotDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", p.file, err)
	}

	p.logger.Debug("snapshot_loaded").
		Str("file", p.file).
		Str("host", doc.Host).
		Send()

	return &doc, nil
}

// Host returns the host identifier recorded in the snapshot, for the report
// banner.
func (p *SnapshotProvider) Host() string {
	doc, err := p.load()
	if err != nil {
		return ""
	}
	return doc.Host
}

// recordTime reads a timestamp field that may arrive as time.Time (YAML
// timestamp scalar) or as a formatted string (JSON-originated dumps).
func recordTime(record types.RawRecord, key string) (time.Time, bool) {
	value, exists := record[key]
	if !exists || value == nil {
		return time.Time{}, false
	}

	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}
