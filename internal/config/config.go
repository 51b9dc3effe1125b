// Package config provides CLI configuration and application logic for bullet.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/mazrean/bullet/internal/bullet"
	"github.com/mazrean/bullet/internal/pkg/errors"
	"github.com/mazrean/bullet/internal/watch"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI is the root command configuration with subcommands.
type CLI struct {
	LogLevel string `kong:"short='l',help='Log level',enum='debug,info,warn,error',default='info'"`
	Config   string `kong:"short='c',help='Config file (default: bullet.yaml or bullet.toml in the working directory)',type='path'"`
	Suffix   string `kong:"help='Suffix of generated file names'"`
	Prefix   string `kong:"help='Prefix of generated type names'"`
	Jobs     int    `kong:"short='j',help='Number of files generated concurrently'"`

	Generate GenerateCmd      `kong:"cmd,default='withargs',help='Generate object graph code (default)'"`
	Plan     PlanCmd          `kong:"cmd,help='Print the dispatch plans of components as YAML'"`
	Watch    WatchCmd         `kong:"cmd,help='Regenerate when Go files change'"`
	Version  kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`
}

// settings returns the configuration file values overridden by command line flags.
func (c *CLI) settings() (Settings, error) {
	settings := DefaultSettings()

	path := c.Config
	if path == "" {
		if found, ok := Discover("."); ok {
			path = found
		}
	}

	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return Settings{}, err
		}

		slog.Debug("Loaded config file", "path", path)

		if settings, err = settings.Merge(file); err != nil {
			return Settings{}, errors.Wrapf(err, "config file %s", path)
		}
	}

	return settings.Override(c.Suffix, c.Prefix, c.Jobs), nil
}

// GenerateCmd is the default command for generating object graph code.
type GenerateCmd struct {
	Files []string `kong:"arg,help='Go files to process'"`
}

// Run executes the generate command.
func (c *GenerateCmd) Run(ctx context.Context, cli *CLI) error {
	setupLogger(cli.LogLevel)

	if len(c.Files) == 0 {
		return errors.New("no files specified")
	}

	settings, err := cli.settings()
	if err != nil {
		return err
	}

	slog.Info("Generating object graph code", "files", c.Files)

	processor := bullet.NewProcessor(settings.Options())
	return processor.ProcessFiles(ctx, c.Files)
}

// PlanCmd prints the resolved dispatch plans without generating code.
type PlanCmd struct {
	Output string   `kong:"short='o',help='Output file (default: stdout)',type='path'"`
	Files  []string `kong:"arg,help='Go files to process'"`
}

// Run executes the plan command.
func (c *PlanCmd) Run(ctx context.Context, cli *CLI) error {
	setupLogger(cli.LogLevel)

	settings, err := cli.settings()
	if err != nil {
		return err
	}

	processor := bullet.NewProcessor(settings.Options())
	results, err := processor.Resolve(ctx, c.Files)
	if err != nil {
		return err
	}

	reports := make([]*bullet.Report, 0, len(results))
	for _, result := range results {
		reports = append(reports, bullet.NewReport(result))
	}

	if c.Output == "" {
		return bullet.WriteReports(os.Stdout, reports)
	}

	return createFile(c.Output, func(w io.Writer) error {
		return bullet.WriteReports(w, reports)
	})
}

// createFile creates path and writes it with write.
// An error closing the file is returned when write succeeded.
func createFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create file %s", path)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close file %s", path)
		}
	}()

	return write(f)
}

// WatchCmd regenerates object graphs whenever the watched packages change.
type WatchCmd struct {
	Debounce string   `kong:"short='d',help='Quiet period after the last change, such as 500ms'"`
	Files    []string `kong:"arg,help='Go files to process'"`
}

// Run executes the watch command until it is interrupted.
func (c *WatchCmd) Run(ctx context.Context, cli *CLI) error {
	setupLogger(cli.LogLevel)

	settings, err := cli.settings()
	if err != nil {
		return err
	}

	if c.Debounce != "" {
		if settings.Debounce, err = parseDuration(c.Debounce); err != nil {
			return errors.Wrap(err, "debounce")
		}
	}

	processor := bullet.NewProcessor(settings.Options())
	watcher, err := watch.New(c.Files, processor.ProcessFiles,
		watch.WithDebounce(settings.Debounce),
		watch.WithIgnore(processor.IsOutputFile),
	)
	if err != nil {
		return err
	}

	return watcher.Run(ctx)
}

// Run parses the command line and runs the selected command.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kongCtx := kong.Parse(&cli, options(ctx)...)

	return kongCtx.Run(&cli)
}

func options(ctx context.Context) []kong.Option {
	return []kong.Option{
		kong.Name("bullet"),
		kong.Description("A code generator of reflection-free object graphs for Go components"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s) released on %s", version, commit, date),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	}
}

func setupLogger(level string) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
