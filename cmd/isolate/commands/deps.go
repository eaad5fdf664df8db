package commands

import (
	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
	"go.trai.ch/isolate/internal/engine/resolver"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Print the internal dependency tree of the target package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			tree, err := c.components.App.Deps(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			root := gtree.NewRoot(tree.Name)
			addChildren(root, tree)
			return gtree.OutputFromRoot(cmd.OutOrStdout(), root)
		},
	}
}

func addChildren(parent *gtree.Node, node *resolver.Node) {
	for _, child := range node.Children {
		label := child.Name
		switch {
		case child.Cycle:
			label += " (cycle)"
		case child.Repeated:
			label += " (see above)"
		}
		addChildren(parent.Add(label), child)
	}
}
