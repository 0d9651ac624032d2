package adapter

import (
	"context"
	"time"

	"github.com/pithecene-io/formstate/log"
	"github.com/pithecene-io/formstate/metrics"
	"github.com/pithecene-io/formstate/submission"
)

// NotifierOptions configures Attach.
type NotifierOptions struct {
	// Logger defaults to a no-op logger.
	Logger *log.Logger
	// Metrics is optional.
	Metrics *metrics.Collector
	// Now defaults to time.Now.
	Now func() time.Time
}

// Attach subscribes a to store so that every dispatch is published.
// Publishing is synchronous with the dispatch; failures are logged and
// counted but never reach the store. The returned function detaches.
func Attach(ctx context.Context, store *submission.Store, a Adapter, opts NotifierOptions) (detach func()) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return store.Subscribe(func(action submission.Action, s submission.State) {
		event := NewEvent(store.ID(), action, s, now())
		if err := a.Publish(ctx, event); err != nil {
			opts.Metrics.IncPublishFailure()
			logger.Warn("adapter publish failed", map[string]any{
				"action":   event.Action,
				"event_id": event.EventID,
				"error":    err.Error(),
			})
			return
		}
		opts.Metrics.IncPublishSuccess()
	})
}
