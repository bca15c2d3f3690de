package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore/rdf"
)

// NewReachableCommand creates the reachable command.
func NewReachableCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reachable <file> <node>",
		Short: "Print the statements reachable from a node",
		Long: `Load file and print every statement reachable from node by following
blank-node objects, depth first, in the configured syntax.

node is a URI, a prefixed name such as spatial:Foo, or a blank node
written as _:id.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReachable(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func anchorNode(world *rdf.World, ns *rdf.Namespaces, term string) (*rdf.Node, error) {
	if id, ok := cutBlank(term); ok {
		return rdf.NewBlankNodeWithID(world, id)
	}
	return rdf.NewURINode(world, ns.Expand(term))
}

func cutBlank(term string) (string, bool) {
	if len(term) > 2 && term[:2] == "_:" {
		return term[2:], true
	}
	return "", false
}

func runReachable(rootOpts *RootOptions, path, anchorSpec string, cmd *cobra.Command) error {
	store, logger, err := rootOpts.openStore(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := loadFile(rootOpts, store, path); err != nil {
		return err
	}
	ns := rootOpts.namespaces()
	anchor, err := anchorNode(store.World, ns, anchorSpec)
	if err != nil {
		return wrapExitError(ExitCommandError, fmt.Sprintf("invalid node %q", anchorSpec), err)
	}
	defer anchor.Close()

	stmts, err := rdf.ReachableStatements(store.Model, anchor)
	defer func() {
		for _, st := range stmts {
			st.Close()
		}
	}()
	if err != nil {
		return wrapExitError(ExitFailure, "reachable statements", err)
	}
	logger.Debug("reachable statements", "anchor", anchor.String(), "count", len(stmts))

	stream, err := rdf.NewStreamFromStatements(store.World, stmts)
	if err != nil {
		return wrapExitError(ExitFailure, "reachable statements", err)
	}
	defer stream.Close()

	ser, err := rdf.NewSerializer(store.World, rootOpts.settings().Format, "", "")
	if err != nil {
		return wrapExitError(ExitCommandError, "serializer", err)
	}
	defer ser.Close()
	if !ser.RegisterNamespaces(ns) || !ser.SerializeStream(cmd.OutOrStdout(), nil, stream) {
		return wrapExitError(ExitFailure, "serialize", store.World.LastError())
	}
	return nil
}
