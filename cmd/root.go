package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wardwatch/wardwatch/internal/app"
	"github.com/wardwatch/wardwatch/internal/config"
	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/flags"
	"github.com/wardwatch/wardwatch/internal/infrastructure/sqlite"
	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/tracing"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, so the
	// OSC 11 reply is not read as input.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	cfgUsed   string
	cfg       config.Config
	cfgErr    error
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "wardwatch",
	Short: "A terminal dashboard for ward-level political sentiment",
	Long: `A terminal dashboard over a dataset of social posts tagged with city, ward,
party and emotion. Views are selected with tab, the mouse or alt+1..9, and
the selected view is kept in the location so it survives restarts.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/wardwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log and enable the log viewer (ctrl+x)")
	rootCmd.PersistentFlags().String("location-db", "",
		"location history database (default: ~/.config/wardwatch/location.db)")
	rootCmd.Flags().StringP("data", "d", "",
		"dataset file (YAML or JSON); the built-in sample is used when unset")
	rootCmd.Flags().StringP("tab", "t", "",
		"view to open, overriding the stored location")
	rootCmd.Flags().Bool("no-shortcuts", false,
		"disable alt+digit view shortcuts")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"do not reload the dataset when the file changes")

	_ = viper.BindPFlag("data_path", rootCmd.Flags().Lookup("data"))
	_ = viper.BindPFlag("location.path", rootCmd.PersistentFlags().Lookup("location-db"))
}

func initConfig() {
	cfg, cfgUsed, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads the config file at path, or the default location when
// path is empty, writing a commented default file if none exists yet.
// It returns the parsed config and the file it came from.
func loadConfig(v *viper.Viper, path string) (config.Config, string, error) {
	setDefaults(v)

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return config.Config{}, "", fmt.Errorf("locating home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "wardwatch", "config.yaml")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := config.WriteDefaultConfig(path); err != nil {
				// Continue with defaults and no file to save to.
				log.Warn(log.CatConfig, "running without a config file", "error", err)
				path = ""
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, "", fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, "", fmt.Errorf("parsing config: %w", err)
	}
	c.DataPath = expandHome(c.DataPath)
	for i, p := range c.ExtraDataPaths {
		c.ExtraDataPaths[i] = expandHome(p)
	}
	c.Location.Path = expandHome(c.Location.Path)
	c.Tracing.FilePath = expandHome(c.Tracing.FilePath)
	if c.Tracing.FilePath == "" {
		c.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	return c, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("auto_reload", d.AutoReload)
	v.SetDefault("ui.default_tab", d.UI.DefaultTab)
	v.SetDefault("ui.pinned", d.UI.Pinned)
	v.SetDefault("ui.show_location", d.UI.ShowLocation)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("filters", d.Filters)
	v.SetDefault("location.store", d.Location.Store)
	v.SetDefault("location.path", d.Location.Path)
	v.SetDefault("location.history_limit", d.Location.HistoryLimit)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// initLogging enables the debug log when --debug or WARDWATCH_DEBUG is set.
func initLogging(prefix string) (func(), error) {
	if !debugFlag && os.Getenv("WARDWATCH_DEBUG") == "" {
		log.SetEnabled(false)
		return func() {}, nil
	}
	debugFlag = true
	logPath := os.Getenv("WARDWATCH_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "wardwatch starting", "version", version, "config", cfgUsed, "logPath", logPath)
	return cleanup, nil
}

// dataSource picks the dataset source from the config.
func dataSource(c config.Config) data.Source {
	if c.DataPath == "" {
		return data.EmbeddedSource{}
	}
	if len(c.ExtraDataPaths) == 0 {
		return data.FileSource{Path: c.DataPath}
	}
	srcs := data.MultiSource{data.FileSource{Path: c.DataPath}}
	for _, p := range c.ExtraDataPaths {
		srcs = append(srcs, data.FileSource{Path: p})
	}
	return srcs
}

// watchPaths lists the dataset files to watch for auto-reload.
func watchPaths(c config.Config) []string {
	if c.DataPath == "" {
		return nil
	}
	return append([]string{c.DataPath}, c.ExtraDataPaths...)
}

// openLocation opens the configured location store. The returned closer
// releases the store and any database behind it.
func openLocation(ctx context.Context, c config.Config) (location.Environment, func() error, error) {
	if c.Location.Store == config.StoreMemory {
		env := location.NewMemory("")
		return env, env.Close, nil
	}

	db, err := sqlite.NewDB(c.Location.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening location database: %w", err)
	}
	repo := db.LocationRepository()
	env, err := location.NewPersistent(ctx, repo)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if c.Location.HistoryLimit > 0 {
		if err := repo.Prune(ctx, c.Location.HistoryLimit); err != nil {
			log.Warn(log.CatLocation, "pruning location history failed", "error", err)
		}
	}
	closer := func() error {
		return errors.Join(env.Close(), db.Close())
	}
	return env, closer, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	cleanup, err := initLogging("wardwatch")
	if err != nil {
		return err
	}
	defer cleanup()

	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := styles.ApplyTheme(cfg.Theme.Styles()); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}()
	tracer := tp.Tracer()

	shortcuts := flags.New(cfg.Flags).Enabled(flags.FlagKeyboardShortcuts)
	if off, _ := cmd.Flags().GetBool("no-shortcuts"); off {
		shortcuts = false
	}
	tab, _ := cmd.Flags().GetString("tab")

	sess, err := newSession(ctx, sessionOptions{
		Config:     cfg,
		ConfigPath: cfgUsed,
		Tab:        tab,
		Shortcuts:  shortcuts,
		Debug:      debugFlag,
		Tracer:     tracer,
	})
	if err != nil {
		return err
	}
	model := sess.model
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if fm, ok := final.(app.Model); ok {
		model = fm
	}
	if closeErr := sess.Close(model); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
