package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mrhapile/distzip/pkg/archiver"
	"github.com/mrhapile/distzip/pkg/config"
	"github.com/mrhapile/distzip/pkg/report"
)

const (
	exitOK            = 0
	exitFailure       = 1
	exitMissingSource = 2
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type cliFlags struct {
	configPath string
	overrides  config.Config
}

func bindFlags(fs *pflag.FlagSet, f *cliFlags) {
	def := config.Default()
	fs.StringVar(&f.configPath, "config", config.DefaultFile, "Path to an optional YAML config file")
	fs.StringVarP(&f.overrides.Source, "source", "s", def.Source, "Directory whose contents are archived")
	fs.StringVarP(&f.overrides.Output, "output", "o", def.Output, "Zip file to create")
	fs.BoolVar(&f.overrides.CheckSourceFirst, "check-source-first", false, "Keep the previous archive when the source directory is missing")
	fs.BoolVar(&f.overrides.Strict, "strict", false, "Exit with status 2 when the source directory is missing")
	fs.StringVar(&f.overrides.Manifest, "manifest", "", "Write a YAML manifest of the archive to this path (outside the source directory)")
	fs.BoolVarP(&f.overrides.Quiet, "quiet", "q", false, "Do not print a line per added file")
	fs.BoolVarP(&f.overrides.Verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

// applyFlags overlays explicitly set flags on top of the loaded config.
func applyFlags(fs *pflag.FlagSet, f *cliFlags, cfg *config.Config) {
	if fs.Changed("source") {
		cfg.Source = f.overrides.Source
	}
	if fs.Changed("output") {
		cfg.Output = f.overrides.Output
	}
	if fs.Changed("check-source-first") {
		cfg.CheckSourceFirst = f.overrides.CheckSourceFirst
	}
	if fs.Changed("strict") {
		cfg.Strict = f.overrides.Strict
	}
	if fs.Changed("manifest") {
		cfg.Manifest = f.overrides.Manifest
	}
	if fs.Changed("quiet") {
		cfg.Quiet = f.overrides.Quiet
	}
	if fs.Changed("verbose") {
		cfg.Verbose = f.overrides.Verbose
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &cliFlags{}
	cmd := &cobra.Command{
		Use:   "distzip",
		Short: "Zip a build output directory for live updates",
		Long: `distzip archives the contents of a build output directory into a zip file.
Entry names are relative to the directory, so the archive root holds the
directory's contents rather than the directory itself.

With no flags it zips ./dist into ./dist.zip, replacing any previous archive.

Example usage:
  distzip                              # dist -> dist.zip
  distzip -s build -o www.zip          # custom paths
  distzip --check-source-first --strict
  distzip --manifest dist.manifest.yaml`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), f, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	bindFlags(cmd.Flags(), f)
	return cmd
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func run(cfg config.Config, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Verbose)
	console := report.NewConsole(stdout, cfg.Quiet)

	opts := append(cfg.Options(), archiver.WithObserver(console), archiver.WithLogger(logger))
	result, err := archiver.Archive(cfg.Source, cfg.Output, opts...)
	if archiver.IsSoft(err) {
		logger.Warn().Err(err).Msg("nothing archived")
		if cfg.Strict {
			return &exitError{code: exitMissingSource}
		}
		return nil
	}
	if err != nil {
		console.Failure(err)
		return &exitError{code: exitFailure}
	}

	if cfg.Manifest != "" {
		if err := report.WriteManifest(cfg.Manifest, result.Manifest); err != nil {
			console.Failure(err)
			return &exitError{code: exitFailure}
		}
		logger.Debug().Str("manifest", cfg.Manifest).Msg("manifest written")
	}
	return nil
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
