package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/server"
	"github.com/xrsl/careerflow/pkg/style"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API and metrics",
	Long: `Serve workflow state and dashboard views as JSON under /api, Prometheus
metrics under /metrics, and reconcile missing outcomes on the
server.reconcile schedule.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			addr := serveAddr
			if addr == "" {
				addr = a.Config.Server.Addr
			}

			rec, err := server.NewReconciler(a.Config.Server.Reconcile, func(ctx context.Context) int {
				return len(a.Outcomes.CheckAndTrack(ctx))
			})
			if err != nil {
				return err
			}
			rec.Start()
			defer rec.Stop()

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(a).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "%s http://%s\n", style.Success("Serving"), addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			clog.Info("shutting down", "cause", context.Cause(ctx))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
