package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/capt-harlock/spyglass/pkg/types"
)

// Fetch failure taxonomy. Adapters wrap these so the orchestrator can
// downgrade any of them to a recorded section status.
var (
	ErrUnavailable     = errors.New("provider unavailable")
	ErrAuth            = errors.New("provider authentication failed")
	ErrTimeout         = errors.New("provider call timed out")
	ErrUnsupportedKind = errors.New("entity kind not supported by provider")
)

// Filter narrows a fetch. Since only applies to sessions: records started
// before it are not returned.
type Filter struct {
	Since time.Time
}

// Provider yields raw record sets for the report's entity kinds. The core
// never retries a fetch; retry policy belongs to the implementation.
type Provider interface {
	Fetch(ctx context.Context, kind types.EntityKind, filter Filter) ([]types.RawRecord, error)
	GetName() string
	GetType() string
	IsHealthy(ctx context.Context) error
}

// wrapFetchErr maps a context deadline onto ErrTimeout so callers see the
// taxonomy instead of raw context errors.
func wrapFetchErr(err error, kind types.EntityKind) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("fetching %s: %w", kind, ErrTimeout)
	}
	return err
}
