package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"trade-journal/internal/delivery/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the trade journal HTTP API",
	RunE:  Start,
}

func Start(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		return err
	}
	defer appDep.Close()

	services := appDep.Services()
	httpHandler := http.NewHttpAPIHandler(appDep.echo, appDep.validator, services, appDep.cfg, appDep.log, appDep.registry)
	apiServer := NewHTTPServer(appDep, httpHandler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		appDep.log.Info("Shutting down gracefully...")
		return apiServer.Stop()
	})

	return g.Wait()
}
