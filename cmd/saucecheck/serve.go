package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/networkteam/saucecheck/config"
	"github.com/networkteam/saucecheck/demostore"
)

var (
	serveAddrFlag       string
	servePopupFlag      string
	servePopupDelayFlag time.Duration
	serveTaxRateFlag    float64
	serveGlitchFlag     time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local demo store",
	Long: `Serve starts the local replica of the storefront. It serves the same element
ids, classes and URLs as the public site, so suites can run against it with
--base-url http://localhost:8080/.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().StringVar(&servePopupFlag, "popup", string(demostore.PopupNever), "popup mode: never, always or once")
	serveCmd.Flags().DurationVar(&servePopupDelayFlag, "popup-delay", 0, "delay before the popup appears")
	serveCmd.Flags().Float64Var(&serveTaxRateFlag, "tax-rate", demostore.DefaultTaxRate, "tax rate of the checkout overview")
	serveCmd.Flags().DurationVar(&serveGlitchFlag, "glitch-delay", demostore.DefaultGlitchDelay, "login delay of performance_glitch_user")
	serveCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
	serveCmd.Flags().String("log-format", "text", "log format: text or json")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	popupMode, err := demostore.ParsePopupMode(servePopupFlag)
	if err != nil {
		return err
	}

	handler, err := demostore.NewHandler(
		demostore.WithLogger(logger),
		demostore.WithPopupMode(popupMode),
		demostore.WithPopupDelay(servePopupDelayFlag),
		demostore.WithTaxRate(serveTaxRateFlag),
		demostore.WithGlitchDelay(serveGlitchFlag),
	)
	if err != nil {
		return err
	}
	defer handler.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		for req := range handler.Requests().Subscribe(ctx) {
			logger.Info("Request served", slog.Any("request", req))
		}
	}()

	srv := &http.Server{
		Addr:              serveAddrFlag,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Demo store listening", slog.String("url", "http://"+serveAddrFlag+"/"))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("Shutting down demo store")
	return srv.Shutdown(shutdownCtx)
}
