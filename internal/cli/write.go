package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore/rdf"
)

// WriteOptions holds flags for the write command.
type WriteOptions struct {
	Output string
}

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{}

	cmd := &cobra.Command{
		Use:   "write [count]",
		Short: "Build pose graphs and serialize them",
		Long: `Build count synthetic pose graphs (default 1) in the configured store
and serialize the whole model to --output in the configured syntax.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 0 {
					return wrapExitError(ExitCommandError, "count must be a non-negative integer", err)
				}
				count = n
			}
			return runWrite(rootOpts, opts, count, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "pose.ttl", "output file")

	return cmd
}

func runWrite(rootOpts *RootOptions, opts *WriteOptions, count int, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	store, logger, err := rootOpts.openStore(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(out, "Producing %d poses\n", count)
	start := time.Now()
	if err := WritePoses(store.World, store.Model, count); err != nil {
		return wrapExitError(ExitFailure, "failed to build poses", err)
	}
	elapsed := time.Since(start)
	fmt.Fprintf(out, "Elapsed %s for model construction (%s per pose)\n", elapsed, perItem(elapsed, count))

	format := rootOpts.settings().Format
	fmt.Fprintf(out, "Writing poses to %s\n", opts.Output)
	if err := rdf.SerializeRDFToFile(opts.Output, store.World, store.Model, rootOpts.namespaces(), format); err != nil {
		return wrapExitError(ExitFailure, "failed to write "+opts.Output, err)
	}
	logger.Debug("model written", "statements", store.Model.Size(), "format", format)
	return nil
}
