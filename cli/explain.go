package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"graphclass/graph"
	"graphclass/oracle"
)

func (o *options) newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <graph_file>",
		Short: "List the minimal sets of patterns that exclude a graph",
		Long: `explain runs the membership check on subsets of the pattern list and reports
every minimal subset that already excludes the graph, grouped by the patterns
they share. Patterns are numbered from 0 in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: o.runExplain,
	}
	cmd.Flags().StringVar(&o.constraints, "constraints", "", "JSON or YAML file of forbidden ordered patterns")
	_ = cmd.MarkFlagRequired("constraints")
	o.addSolverFlags(cmd)
	return cmd
}

func (o *options) runExplain(cmd *cobra.Command, args []string) error {
	g, err := graph.ReadEdgeListFile(args[0], o.maxVertices)
	if err != nil {
		return err
	}
	q, err := o.query()
	if err != nil {
		return err
	}
	orc, err := o.newOracle()
	if err != nil {
		return err
	}
	explanations, err := orc.Explain(cmd.Context(), g, q.Patterns)
	if err != nil {
		return err
	}
	return printExplanations(cmd.OutOrStdout(), explanations)
}

func printExplanations(w io.Writer, explanations []oracle.Explanation) error {
	if len(explanations) == 0 {
		_, err := fmt.Fprintln(w, memberMessage)
		return err
	}
	if _, err := fmt.Fprintln(w, nonMemberMessage); err != nil {
		return err
	}
	for i, e := range explanations {
		if _, err := fmt.Fprintf(w, "conflict %d over patterns %v\n", i+1, e.Patterns); err != nil {
			return err
		}
		for _, mus := range e.MUSs {
			if _, err := fmt.Fprintf(w, "  excluded by patterns %v\n", mus); err != nil {
				return err
			}
		}
		for _, mcs := range e.MCSs {
			if _, err := fmt.Fprintf(w, "  dropping patterns %v lifts this conflict\n", mcs); err != nil {
				return err
			}
		}
	}
	return nil
}
