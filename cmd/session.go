package cmd

import (
	"context"
	"fmt"
	"strings"

	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/wardwatch/wardwatch/internal/app"
	"github.com/wardwatch/wardwatch/internal/config"
	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/flags"
	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/mode"
	"github.com/wardwatch/wardwatch/internal/nav"
	"github.com/wardwatch/wardwatch/internal/ui/markdown"
)

// sessionOptions carries what runApp resolved from flags and config.
type sessionOptions struct {
	Config     config.Config
	ConfigPath string
	Tab        string // --tab
	Shortcuts  bool
	Debug      bool
	Tracer     trace.Tracer
}

// session owns everything one program run needs. Close releases it in
// reverse order of construction.
type session struct {
	cfg     config.Config
	model   app.Model
	ctrl    *nav.Controller
	env     location.Environment
	closers []func()
}

// newSession loads the dataset, opens the location store, resolves the
// startup view and builds the application model.
func newSession(ctx context.Context, opts sessionOptions) (_ *session, err error) {
	s := &session{cfg: opts.Config}
	defer func() {
		if err != nil {
			s.release()
		}
	}()

	reg, err := s.cfg.Registry()
	if err != nil {
		return nil, err
	}

	provider := data.NewProvider(dataSource(s.cfg),
		data.WithCacheTTL(s.cfg.Cache.TTL),
		data.WithProviderTracer(opts.Tracer),
	)
	s.closers = append(s.closers, provider.Close)
	if err := provider.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	env, closeEnv, err := openLocation(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	s.env = env
	s.closers = append(s.closers, func() {
		if err := closeEnv(); err != nil {
			log.ErrorErr(log.CatLocation, "closing location store failed", err)
		}
	})
	if err := applyStartupTab(env, s.cfg, opts.Tab); err != nil {
		return nil, fmt.Errorf("applying startup view: %w", err)
	}

	s.ctrl = nav.New(reg, env, nav.WithShortcuts(opts.Shortcuts), nav.WithTracer(opts.Tracer))
	s.closers = append(s.closers, s.ctrl.Close)
	param, _ := env.ReadParam(nav.ParamTab)
	if param == "" {
		param = s.cfg.UI.DefaultTab
	}
	s.ctrl.Initialize(param)

	store := filter.NewStore(filter.WithTracer(opts.Tracer))
	s.closers = append(s.closers, store.Close)

	// Tab and pointer zones resolve through the global manager.
	zone.NewGlobal()

	s.model = app.New(app.Options{
		Services: mode.Services{
			Controller: s.ctrl,
			Filters:    store,
			Data:       provider,
			Flags:      flags.New(s.cfg.Flags),
			Markdown:   markdown.New(s.cfg.UI.MarkdownStyle),
			Tracer:     opts.Tracer,
			Config:     &s.cfg,
			ConfigPath: opts.ConfigPath,
		},
		WatchPaths: watchPaths(s.cfg),
		Debug:      opts.Debug,
	})
	return s, nil
}

// Close closes final, the model the program returned, then the stores.
func (s *session) Close(final app.Model) error {
	err := final.Close()
	s.release()
	return err
}

func (s *session) release() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// applyStartupTab decides the view the location opens on and writes it with
// replace, so mount-time reconciliation adopts it. --tab wins, then a pinned
// ui.default_tab, then whatever tab the location already holds.
func applyStartupTab(env location.Environment, c config.Config, flagTab string) error {
	tab := strings.TrimSpace(flagTab)
	if tab == "" && c.UI.Pinned {
		tab = strings.TrimSpace(c.UI.DefaultTab)
	}
	if tab == "" {
		return nil
	}
	return env.WriteParam(nav.ParamTab, tab, location.WriteOptions{Replace: true})
}
