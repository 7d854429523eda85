package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"graphclass/server"
)

const shutdownGrace = 5 * time.Second

func (o *options) newServeCmd() *cobra.Command {
	var addr, classDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve membership checks over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orc, err := o.newOracle()
			if err != nil {
				return err
			}
			s := &server.Server{Oracle: orc, ClassDir: classDir, Logger: o.logger, MaxVertices: o.maxVertices}
			srv := &http.Server{Addr: addr, Handler: s.Handler()}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					o.logger.WithError(err).Warn("shutting down")
				}
			}()

			o.logger.WithField("addr", addr).Info("listening")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "serving")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&classDir, "classes-dir", "", "directory of predefined class encodings, looked up as <class>.lp")
	o.addSolverFlags(cmd)
	return cmd
}
