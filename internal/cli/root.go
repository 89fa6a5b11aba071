// Package cli implements the agora command-line interface: an operator
// front end that drives the forum store directly.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/agora/internal/paths"
	"github.com/mesh-intelligence/agora/pkg/forum"
	"github.com/mesh-intelligence/agora/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and per-invocation state shared by all
// subcommands.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string

	cfg    *viper.Viper
	logger zerolog.Logger
	out    io.Writer
	errOut io.Writer
}

// NewRootCmd creates the top-level "agora" command with global flags and
// all subcommands registered. Output goes to out; logs go to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "agora",
		Short: "Agora manages forum channels, threads, and comments",
		Long: `Agora stores users, channels, threads, and comments for a nested
discussion forum. Threads are numbered per channel and comments per thread.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.agora)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")

	root.AddCommand(a.newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newUserCmd())
	root.AddCommand(a.newChannelCmd())
	root.AddCommand(a.newThreadCmd())
	root.AddCommand(a.newCommentCmd())
	root.AddCommand(a.newExportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd(os.Stdout, os.Stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "agora:", err)
	}
	os.Exit(exitCode(err))
}

// setup loads config.yaml and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return systemError{fmt.Errorf("resolve config dir: %w", err)}
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return systemError{err}
	}
	a.cfg = cfg

	level := a.logLevel
	if level == "" {
		level = cfg.GetString(cfgKeyLogLevel)
	}
	logger, err := newLogger(a.errOut, level)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// forumConfig builds the store configuration from flags and config.yaml.
func (a *app) forumConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:    a.cfg.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		DSN:        a.cfg.GetString(cfgKeyDSN),
		MaxRetries: a.cfg.GetInt(cfgKeyMaxRetries),
	}, nil
}

// withForum attaches a store for the duration of fn.
func (a *app) withForum(cmd *cobra.Command, fn func(ctx context.Context, f types.Forum) error) error {
	cfg, err := a.forumConfig()
	if err != nil {
		return systemError{err}
	}

	f, err := forum.Open(cfg, a.logger)
	if err != nil {
		return systemError{fmt.Errorf("attach forum: %w", err)}
	}
	defer f.Detach()

	return fn(cmd.Context(), f)
}

// systemError marks failures of the environment rather than of the request.
type systemError struct {
	error
}

func (e systemError) Unwrap() error {
	return e.error
}

// exitCode maps an error to a process exit code. Storage and environment
// failures exit with exitSysError; everything else is the caller's mistake.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var serr *types.StorageError
	var sys systemError
	if errors.As(err, &serr) || errors.As(err, &sys) {
		return exitSysError
	}
	return exitUserError
}
