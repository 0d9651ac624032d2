package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/formstate/adapter"
	redisadapter "github.com/pithecene-io/formstate/adapter/redis"
	"github.com/pithecene-io/formstate/adapter/webhook"
	"github.com/pithecene-io/formstate/cli/config"
	"github.com/pithecene-io/formstate/cli/render"
	"github.com/pithecene-io/formstate/cli/tui"
	"github.com/pithecene-io/formstate/formio"
	"github.com/pithecene-io/formstate/log"
	"github.com/pithecene-io/formstate/metrics"
	"github.com/pithecene-io/formstate/submission"
)

// session is everything one operation command needs: a store wired to
// the form service, an optional adapter and a renderer.
type session struct {
	cfg      *config.Config
	store    *submission.Store
	logger   *log.Logger
	metrics  *metrics.Collector
	renderer *render.Renderer
	closers  []func()
}

// resolveConfig loads formstate.yaml and applies flag overrides.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	path := config.DefaultPath
	required := false
	if c.IsSet("config") {
		path = c.String("config")
		required = true
	}

	cfg, err := config.LoadOptional(path, required)
	if err != nil {
		return nil, err
	}

	if c.IsSet("project-url") {
		cfg.ProjectURL = c.String("project-url")
	}
	if c.IsSet("token") {
		cfg.Token = c.String("token")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = config.Duration{Duration: c.Duration("timeout")}
	}

	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required (--project-url or project_url in %s)", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession builds the session for c. Errors are usage/config errors.
func newSession(ctx context.Context, c *cli.Context) (*session, error) {
	r, err := render.NewRenderer(c)
	if err != nil {
		return nil, err
	}

	cfg, err := resolveConfig(c)
	if err != nil {
		return nil, err
	}

	storeID := submission.NewStoreID()

	var logOut io.Writer = c.App.ErrWriter
	if logOut == nil {
		logOut = os.Stderr
	}
	if c.Bool("tui") && !c.Bool("verbose") {
		logOut = io.Discard
	}
	logger := log.New(log.Meta{StoreID: storeID, ProjectURL: cfg.ProjectURL}, log.Options{
		Output:  logOut,
		Verbose: c.Bool("verbose"),
	})

	adapterName := cfg.Adapter.Type
	if adapterName == "" {
		adapterName = "none"
	}
	collector := metrics.NewCollector(storeID, adapterName)

	clientOpts := formio.Options{
		Token:   cfg.Token,
		Headers: cfg.Headers,
		Timeout: cfg.Timeout.Duration,
	}
	store, err := submission.New(submission.Config{
		ProjectURL: cfg.ProjectURL,
		Client: func(url string) submission.Client {
			return formio.New(url, clientOpts)
		},
		StoreID: storeID,
		Logger:  logger,
		Metrics: collector,
	})
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		metrics:  collector,
		renderer: r,
	}

	if cfg.Adapter.Enabled() {
		a, err := buildAdapter(cfg.Adapter)
		if err != nil {
			return nil, fmt.Errorf("adapter: %w", err)
		}
		detach := adapter.Attach(ctx, store, a, adapter.NotifierOptions{
			Logger:  logger,
			Metrics: collector,
		})
		s.closers = append(s.closers, detach, func() {
			if err := a.Close(); err != nil {
				logger.Warn("adapter close failed", map[string]any{"error": err.Error()})
			}
		})
	}

	return s, nil
}

// buildAdapter creates the configured adapter. Retries default to the
// adapter package default when unset.
func buildAdapter(ac config.AdapterConfig) (adapter.Adapter, error) {
	enc, err := adapter.ParseEncoding(ac.Encoding)
	if err != nil {
		return nil, err
	}

	switch ac.Type {
	case config.AdapterWebhook:
		retries := webhook.DefaultRetries
		if ac.Retries != nil {
			retries = *ac.Retries
		}
		return webhook.New(webhook.Config{
			URL:      ac.URL,
			Headers:  ac.Headers,
			Timeout:  ac.Timeout.Duration,
			Retries:  retries,
			Encoding: enc,
		})
	case config.AdapterRedis:
		retries := redisadapter.DefaultRetries
		if ac.Retries != nil {
			retries = *ac.Retries
		}
		return redisadapter.New(redisadapter.Config{
			URL:      ac.URL,
			Channel:  ac.Channel,
			Timeout:  ac.Timeout.Duration,
			Retries:  retries,
			Encoding: enc,
		})
	default:
		return nil, fmt.Errorf("unknown adapter type %q", ac.Type)
	}
}

// close detaches the adapter, logs the metrics snapshot and flushes the logger.
func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}

	snap := s.metrics.Snapshot()
	s.logger.Debug("store metrics", map[string]any{
		"dispatches":      snap.Dispatches,
		"resets":          snap.Resets,
		"errors_cleared":  snap.ErrorsCleared,
		"failed":          snap.Total(func(o metrics.OpCounts) int64 { return o.Failed }),
		"publish_success": snap.PublishSuccess,
		"publish_failure": snap.PublishFailure,
	})
	_ = s.logger.Sync()
}

// run executes op, in the live view when --tui is set, then renders the
// settled store state. Operation failures exit with exitOperationFailed.
func (s *session) run(ctx context.Context, c *cli.Context, title string, op func(ctx context.Context) error) error {
	var (
		last string
		err  error
	)
	unsubscribe := s.store.Subscribe(func(a submission.Action, _ submission.State) {
		last = string(a.Type())
	})

	start := time.Now()
	if c.Bool("tui") {
		err = tui.Run(ctx, title, s.store, op)
	} else {
		err = op(ctx)
	}
	unsubscribe()

	s.logger.Debug("operation finished", map[string]any{
		"operation":   title,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if rerr := s.renderer.Render(render.NewStateView(s.store.ID(), last, s.store.State())); rerr != nil {
		return rerr
	}

	if err != nil {
		return cli.Exit(err.Error(), exitOperationFailed)
	}
	return nil
}
