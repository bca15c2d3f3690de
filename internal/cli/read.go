package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore/rdf"
)

// ReadOptions holds flags for the read command.
type ReadOptions struct {
	OutputPrefix string
}

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReadOptions{}

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Load an RDF file and write it back as Turtle and N-Triples",
		Long: `Load file into the configured store. The syntax is taken from --format,
then from the file extension. The loaded model is written to
<prefix>.ttl and <prefix>.nt when --output-prefix is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPrefix, "output-prefix", "o", "", "write <prefix>.ttl and <prefix>.nt")

	return cmd
}

// inputFormat picks the syntax for path: an explicit --format wins over
// the extension, which wins over the configured default.
func inputFormat(rootOpts *RootOptions, path string) string {
	if rootOpts.Format != "" {
		return rootOpts.Format
	}
	if format, ok := rdf.FormatFromPath(path); ok {
		return format
	}
	return rootOpts.settings().Format
}

func loadFile(rootOpts *RootOptions, store *rdf.Store, path string) error {
	err := rdf.ParseRDF(path, rootOpts.settings().BaseURI, store.World, store.Model, inputFormat(rootOpts, path))
	if err != nil {
		code := ExitFailure
		if rdf.Code(err) == rdf.ErrCodeIOError {
			code = ExitCommandError
		}
		return wrapExitError(code, "failed to load "+path, err)
	}
	return nil
}

func runRead(rootOpts *RootOptions, opts *ReadOptions, path string, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	store, logger, err := rootOpts.openStore(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(out, "Loading %s\n", path)
	start := time.Now()
	if err := loadFile(rootOpts, store, path); err != nil {
		return err
	}
	elapsed := time.Since(start)
	size := store.Model.Size()
	fmt.Fprintf(out, "Elapsed %s for model loading: %d statements (%s per statement)\n", elapsed, size, perItem(elapsed, size))

	if opts.OutputPrefix == "" {
		return nil
	}
	ns := rootOpts.namespaces()
	for _, format := range []string{"turtle", "ntriples"} {
		target := opts.OutputPrefix + extension(format)
		fmt.Fprintf(out, "Writing statements to %s\n", target)
		if err := rdf.SerializeRDFToFile(target, store.World, store.Model, ns, format); err != nil {
			return wrapExitError(ExitFailure, "failed to write "+target, err)
		}
	}
	logger.Debug("model rewritten", "prefix", filepath.Base(opts.OutputPrefix))
	return nil
}

func extension(format string) string {
	for _, info := range rdf.Formats() {
		if string(info.Format) == format && len(info.Extensions) > 0 {
			return info.Extensions[0]
		}
	}
	return "." + strings.ToLower(format)
}
