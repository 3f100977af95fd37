package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiroyk/cookiecat/api"
	"github.com/shiroyk/cookiecat/js"
	_ "github.com/shiroyk/cookiecat/js/modules" // register the native modules
	"github.com/shiroyk/cookiecat/lib/utils"
	"github.com/spf13/cobra"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the api server of the document cookie",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opt := current.config.API
		opt.Address = utils.ZeroOr(serveAddress, opt.Address)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		jsOpt := current.config.JS
		jsOpt.Jar, jsOpt.Logger = current.doc, current.logger
		scheduler := js.NewScheduler(jsOpt)
		defer scheduler.Close()
		opt.Scheduler = scheduler

		server := api.Server(opt, current.doc)
		errCh := make(chan error, 1)
		go func() {
			current.logger.Info("api server started", "address", opt.Address, "document", current.doc.URL().String())
			if err := server.Start(opt.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		current.logger.Info("api server shutting down")
		return server.Shutdown(shutdown)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "listen address, overrides the config")
	rootCmd.AddCommand(serveCmd)
}
