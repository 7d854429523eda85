package cli

import (
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"graphclass/graph"
)

type generateOptions struct {
	vertices int
	p        float64
	seed     int64
	cycle    int
	output   string
}

func newGenerateCmd() *cobra.Command {
	o := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random or fixture graph as an edge list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := o.graph()
			if err != nil {
				return err
			}
			if o.output == "" {
				return graph.WriteEdgeList(cmd.OutOrStdout(), g)
			}
			return writeGraphFile(o.output, g)
		},
	}
	cmd.Flags().IntVar(&o.vertices, "vertices", 10, "number of vertices of G(n,p)")
	cmd.Flags().Float64Var(&o.p, "p", 0.5, "edge probability of G(n,p)")
	cmd.Flags().Int64Var(&o.seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&o.cycle, "cycle", 0, "write the cycle on this many vertices instead")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file, stdout when empty")
	return cmd
}

func (o generateOptions) graph() (*graph.Graph, error) {
	if o.cycle > 0 {
		return graph.Cycle(o.cycle), nil
	}
	if o.vertices < 0 {
		return nil, errors.Errorf("negative vertex count %d", o.vertices)
	}
	if o.p < 0 || o.p > 1 {
		return nil, errors.Errorf("edge probability %v outside [0, 1]", o.p)
	}
	return graph.ErdosRenyi(o.vertices, o.p, rand.New(rand.NewSource(o.seed))), nil
}

func writeGraphFile(path string, g *graph.Graph) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating graph file")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return graph.WriteEdgeList(f, g)
}
