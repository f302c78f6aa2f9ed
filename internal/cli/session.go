package cli

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/devgenie/internal/config"
	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/history"
	"github.com/AndreyAkinshin/devgenie/internal/metrics"
	"github.com/AndreyAkinshin/devgenie/internal/output"
	"github.com/AndreyAkinshin/devgenie/internal/project"
	"github.com/AndreyAkinshin/devgenie/internal/runner"
	"github.com/AndreyAkinshin/devgenie/internal/settings"
	"github.com/AndreyAkinshin/devgenie/internal/testparser"
)

// session carries the state shared by the commands of one invocation.
type session struct {
	out    *output.Writer
	logger *slog.Logger
	quiet  bool

	cfg             *config.Config
	timeout         time.Duration
	metricsTextfile string

	settings    *settings.Store
	settingsErr error
	history     *history.Store
	recorder    *metrics.Recorder
}

// before applies the global output and logging flags.
func (s *session) before(c *cli.Context) error {
	s.quiet = c.Bool(QuietFlag.Name)
	s.out.SetQuiet(s.quiet)
	if c.Bool(NoColorFlag.Name) {
		s.out.SetColor(false)
	}

	logger, err := newLogger(c.String(LogLevelFlag.Name), c.String(LogFormatFlag.Name), s.out.Stderr())
	if err != nil {
		return deverrors.Config(err.Error())
	}
	s.logger = logger
	return nil
}

// load reads the configuration and opens the stores it names.
func (s *session) load(c *cli.Context) error {
	path := c.String(ConfigFlag.Name)
	required := path != ""
	if !required {
		found, err := project.FindConfig()
		switch {
		case err == nil:
			path = found
		case errors.Is(err, project.ErrNoConfig):
			path = config.DefaultFileName
		default:
			return deverrors.Wrap(err, "failed to locate configuration")
		}
	}

	cfg, warnings, err := config.LoadOrDefault(path, required)
	for _, w := range warnings {
		s.out.Warning("%s: %s", path, w)
	}
	if err != nil {
		return &deverrors.Error{Kind: deverrors.KindConfig, Message: err.Error(), Cause: err}
	}
	s.cfg = cfg
	s.logger.Debug("configuration loaded", "path", path, "executable", cfg.Toolchain.Executable)

	s.timeout = cfg.Run.TimeoutDuration()
	if c.IsSet(TimeoutFlag.Name) {
		s.timeout = c.Duration(TimeoutFlag.Name)
	}
	s.metricsTextfile = cfg.Metrics.Textfile
	if c.IsSet(MetricsTextfileFlag.Name) {
		s.metricsTextfile = c.String(MetricsTextfileFlag.Name)
	}

	if !cfg.History.Disabled {
		s.history = history.NewStore(cfg.History.Path)
	}
	s.recorder = metrics.NewRecorder()

	store, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		// Only the settings commands need the store; the rest go on without
		// a language preference.
		s.settingsErr = err
		s.logger.Warn("settings unavailable", "path", cfg.Settings.Path, "error", err)
		return nil
	}
	s.settings = store
	s.applyLanguage(store.GetString(settings.KeyLanguage, ""))
	store.Subscribe(func(ch settings.Change) {
		s.logger.Debug("setting changed", "key", ch.Key, "old", ch.Old.String(), "new", ch.New.String(), "deleted", ch.Deleted)
		if ch.Key != settings.KeyLanguage {
			return
		}
		lang, _ := ch.New.AsString()
		if ch.Deleted {
			lang = "en"
		}
		s.applyLanguage(lang)
	})
	return nil
}

func (s *session) applyLanguage(lang string) {
	if err := s.out.SetLanguage(lang); err != nil {
		s.out.Warning("%v", err)
	}
}

// newRunner builds a Runner from the configuration. With stream set the
// toolchain output is mirrored live instead of printed after each run.
func (s *session) newRunner(stream bool) (*runner.Runner, error) {
	tc := s.cfg.Toolchain
	parsers := testparser.NewRegistry()
	parser, ok := parsers.Get(tc.Parser)
	if !ok {
		return nil, deverrors.Configf("unknown test parser %q (available: %s)",
			tc.Parser, strings.Join(parsers.Names(), ", "))
	}
	opts := runner.Options{
		Executable:   tc.Executable,
		BuildCommand: tc.BuildCommand,
		TestCommand:  tc.TestCommand,
		TestLogger:   tc.TestLogger,
		BuildArgs:    tc.BuildArgs,
		TestArgs:     tc.TestArgs,
		WorkDir:      s.cfg.Run.WorkDir,
		Env:          tc.Env,
		Parser:       parser,
		Logger:       s.logger,
		Observer:     s.observer(),
	}
	if stream {
		opts.Stdout = s.out.Stdout()
		opts.Stderr = s.out.Stderr()
	}
	return runner.New(opts), nil
}

// withTimeout bounds one run by the configured timeout.
func (s *session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// flushMetrics writes the metrics textfile when one is configured.
func (s *session) flushMetrics() {
	if s.metricsTextfile == "" {
		return
	}
	if err := s.recorder.WriteTextfile(s.metricsTextfile); err != nil {
		s.out.Warning("%v", err)
		return
	}
	s.logger.Debug("metrics written", "path", s.metricsTextfile)
}
