// Package cli implements the rdfpose command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore/rdf"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // parse, serialize or store failure
	ExitCommandError = 2 // bad arguments or configuration
)

// ExitError carries the exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func wrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // overrides the configured syntax when set
	Verbose    bool

	config *rdf.Config
}

// NewRootCommand creates the root command for rdfpose.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rdfpose",
		Short: "Build, load and query pose graphs",
		Long: `rdfpose writes synthetic spatial pose graphs, loads RDF files into a
store and extracts the statements reachable from a node.

The store is configured with a YAML file (see --config); without one an
in-memory store and Turtle output are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "store configuration file (YAML)")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "RDF syntax (turtle|ntriples|nquads|jsonld)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewReachableCommand(opts))

	return cmd
}

// load reads the configuration once and applies the flag overrides.
func (o *RootOptions) load() error {
	config := rdf.DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if config, err = rdf.LoadConfig(o.ConfigPath); err != nil {
			return wrapExitError(ExitCommandError, "invalid configuration", err)
		}
	}
	if o.Format != "" {
		config.Format = o.Format
	}
	if o.Verbose {
		config.LogLevel = "debug"
	}
	if err := config.Validate(); err != nil {
		return wrapExitError(ExitCommandError, "invalid configuration", err)
	}
	o.config = config
	return nil
}

// settings returns the loaded configuration. Commands reach it only after
// openStore, which loads the configuration if PersistentPreRunE did not.
func (o *RootOptions) settings() *rdf.Config { return o.config }

// openStore opens the configured store with a text logger on errOut.
func (o *RootOptions) openStore(errOut io.Writer) (*rdf.Store, *slog.Logger, error) {
	if o.config == nil {
		if err := o.load(); err != nil {
			return nil, nil, err
		}
	}
	config := o.config
	level, err := config.Level()
	if err != nil {
		return nil, nil, wrapExitError(ExitCommandError, "invalid configuration", err)
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
	store, err := config.Open(rdf.OptLogger(logger))
	if err != nil {
		return nil, nil, wrapExitError(ExitFailure, "failed to open store", err)
	}
	logger.Debug("store opened",
		"backend", config.Storage.Backend,
		"world", store.World.ID())
	return store, logger, nil
}

// namespaces returns the pose prefixes overlaid with the configured ones.
func (o *RootOptions) namespaces() *rdf.Namespaces {
	ns := PoseNamespaces()
	for prefix, uri := range o.settings().NamespaceTable().Prefixes() {
		ns.Add(prefix, uri)
	}
	return ns
}

func perItem(elapsed time.Duration, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return elapsed / time.Duration(n)
}
