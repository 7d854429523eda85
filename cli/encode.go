package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphclass/graph"
	"graphclass/lp"
)

func (o *options) newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <graph_file>",
		Short: "Print the fact encoding of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadEdgeListFile(args[0], o.maxVertices)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), lp.EncodeGraph(g).String())
			return err
		},
	}
}

func (o *options) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <constraints_file>",
		Short: "Print the constraint program compiled from forbidden patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := lp.LoadPatternsFile(args[0])
			if err != nil {
				return err
			}
			program, err := lp.CompilePatterns(patterns)
			if err != nil {
				return err
			}
			if o.writeConstraints != "" {
				if err := lp.WriteProgram(o.writeConstraints, program); err != nil {
					return err
				}
				o.logger.WithField("path", o.writeConstraints).Info("wrote constraint program")
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), program.String())
			return err
		},
	}
	cmd.Flags().StringVar(&o.writeConstraints, "write-constraints", "", "also write the compiled program to this path")
	return cmd
}
