package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"graphclass/graph"
	"graphclass/oracle"
	"graphclass/solver"
)

const (
	memberMessage    = "The graph belongs to the specified class."
	nonMemberMessage = "The graph does not belong to the specified class."
)

func (o *options) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <graph_file>",
		Short: "Check whether a graph belongs to a class",
		Args:  cobra.ExactArgs(1),
		RunE:  o.runCheck,
	}
	o.addClassFlags(cmd)
	o.addSolverFlags(cmd)
	return cmd
}

func (o *options) runCheck(cmd *cobra.Command, args []string) error {
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

	res, err := orc.Check(cmd.Context(), g, q)
	switch {
	case errors.Is(err, oracle.ErrIndeterminate):
		o.logger.WithField("backend", o.backend).Fatal(err)
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrapf(err, "no verdict within the %s timeout", o.timeout)
	case errors.Is(err, context.Canceled):
		return errors.Wrap(err, "check interrupted")
	case err != nil:
		return err
	}

	msg := nonMemberMessage
	if res.Verdict == solver.Satisfiable {
		msg = memberMessage
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}
