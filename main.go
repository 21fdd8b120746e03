package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tmxedit/internal/config"
	"tmxedit/internal/logging"
)

const version = "0.3.0"

// cli carries the global flags and the App built from them.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string
	dbPath     string
	noCache    bool
	colorMode  string
	quiet      bool

	app *App
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}
	root := &cobra.Command{
		Use:           "tmxedit",
		Short:         "Inspect and edit TMX translation memories",
		Long:          `tmxedit reads TMX files (local or over HTTP), lists and filters their translation units, edits segments and writes the memory back.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvPath+" or the user config dir)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	pf.StringVar(&c.logFormat, "log-format", "", "log format (console|json)")
	pf.StringVar(&c.dbPath, "db", "", "sqlite database for settings, recent files and the parse cache")
	pf.BoolVar(&c.noCache, "no-cache", false, "do not use the parse cache")
	pf.StringVar(&c.colorMode, "color", "auto", "colorize output (auto|on|off)")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "suppress progress output")

	root.AddCommand(
		newInfoCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newEditCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newStatsCmd(c),
		newRecentCmd(c),
		newSettingsCmd(c),
	)
	return root, c
}

// execute runs one command line and releases what it opened.
func execute(ctx context.Context, args []string, out, errOut io.Writer) (err error) {
	root, c := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	defer func() {
		if c.app != nil {
			if cerr := c.app.Close(); err == nil {
				err = cerr
			}
		}
	}()
	return root.ExecuteContext(ctx)
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Resolve(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if c.dbPath != "" {
		cfg.Storage.Path = c.dbPath
	}
	if c.noCache {
		cfg.Storage.Cache = false
	}
	switch c.colorMode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
	default:
		return fmt.Errorf("--color must be auto, on or off, got %q", c.colorMode)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	log.Debug("config resolved", zap.String("storage", cfg.Storage.Path), zap.Int("page_size", cfg.Editor.PageSize))
	app, err := NewApp(cmd.Context(), cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.app = app
	return nil
}

func (c *cli) openFlags(cmd *cobra.Command) openFlags {
	f := openFlags{quiet: c.quiet}
	fs := cmd.Flags()
	f.format, _ = fs.GetString("format")
	f.locale, _ = fs.GetString("locale")
	f.targetLocale, _ = fs.GetString("target-locale")
	f.source, _ = fs.GetString("source")
	f.target, _ = fs.GetString("target")
	return f
}

// addOpenFlags registers the flags every command that opens a document takes.
func addOpenFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String("format", "", "input format (tmx|csv|paraglidejson|valvevdf); detected from the extension by default")
	fs.String("locale", "", "language of single-locale input files")
	fs.String("target-locale", "", "language of the translation column in CSV input")
	fs.String("source", "", "working source language")
	fs.String("target", "", "working target language")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		stop()
		os.Exit(1)
	}
}
