package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/networkteam/saucecheck"
	"github.com/networkteam/saucecheck/config"
	"github.com/networkteam/saucecheck/demostore"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/report"
	"github.com/networkteam/saucecheck/suites"
)

var (
	localFlag      bool
	localPopupFlag string
	progressFlag   bool
)

var runCmd = &cobra.Command{
	Use:   "run [suite...]",
	Short: "Run suites, all of them if none are named",
	Long: `Run executes the named suites, or all suites, and writes a report.

The process exits with status 1 if any step failed or a suite could not start.
With --local the suites run against an in-process replica of the storefront.`,
	RunE: runRun,
}

func init() {
	config.RegisterFlags(runCmd.Flags())
	runCmd.Flags().BoolVar(&localFlag, "local", false, "run against an in-process demo store instead of --base-url")
	runCmd.Flags().StringVar(&localPopupFlag, "local-popup", string(demostore.PopupNever), "popup mode of the local demo store: never, always or once")
	runCmd.Flags().BoolVar(&progressFlag, "progress", true, "print a line per finished step to stderr")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	popupMode, err := demostore.ParsePopupMode(localPopupFlag)
	if err != nil {
		return err
	}

	selected, err := selectSuites(cfg.Credentials(), args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if localFlag {
		baseURL, shutdown, err := startLocalStore(logger, popupMode)
		if err != nil {
			return err
		}
		defer shutdown()
		cfg.BaseURL = baseURL
	}

	instance := saucecheck.NewWithOptions(saucecheck.Options{
		Session:       cfg.SessionOptions(logger),
		StopOnFailure: cfg.StopOnFailure,
		Parallel:      cfg.Parallel,
		ScreenshotDir: cfg.ScreenshotDir,
		Logger:        logger,
	})
	defer instance.Close()

	waitProgress := func() {}
	if progressFlag {
		waitProgress = startProgress(cmd.ErrOrStderr(), instance.Subscribe(ctx))
	}

	results, err := instance.Run(ctx, selected...)
	// Closing delivers the pending events and ends the subscription.
	instance.Close()
	waitProgress()
	if err != nil {
		return err
	}

	if err := writeReport(ctx, cmd.OutOrStdout(), cfg.Report, results); err != nil {
		return err
	}

	if report.Failed(results) {
		return errStepsFailed
	}
	return nil
}

func selectSuites(credentials suites.Credentials, names []string) ([]journey.Suite, error) {
	if len(names) == 0 {
		return suites.All(credentials), nil
	}
	selected := make([]journey.Suite, 0, len(names))
	for _, name := range names {
		suite, ok := suites.ByName(credentials, name)
		if !ok {
			return nil, fmt.Errorf("unknown suite %q, available: %s", name, strings.Join(suites.Names(), ", "))
		}
		selected = append(selected, suite)
	}
	return selected, nil
}

func startLocalStore(logger *slog.Logger, mode demostore.PopupMode) (baseURL string, shutdown func(), err error) {
	handler, err := demostore.NewHandler(
		demostore.WithLogger(logger.With("component", "demostore")),
		demostore.WithPopupMode(mode),
	)
	if err != nil {
		return "", nil, err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		handler.Close()
		return "", nil, fmt.Errorf("listening for local demo store: %w", err)
	}

	srv := &http.Server{Handler: handler}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Local demo store stopped", slog.Any("err", err))
		}
	}()

	baseURL = "http://" + ln.Addr().String() + "/"
	logger.Info("Local demo store started", slog.String("url", baseURL))

	return baseURL, func() {
		_ = srv.Shutdown(context.Background())
		<-stopped
		handler.Close()
	}, nil
}

// startProgress prints events in the background. The returned function blocks
// until the events channel is closed and every line is written.
func startProgress(w io.Writer, events <-chan journey.StepEvent) (wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		printProgress(w, events)
	}()
	return func() { <-done }
}

func printProgress(w io.Writer, events <-chan journey.StepEvent) {
	for event := range events {
		if event.Kind != journey.EventStepFinished || event.Result == nil {
			continue
		}
		line := fmt.Sprintf("%-6s %s #%d %s", event.Result.Status, event.Suite, event.StepID, event.Name)
		if msg := event.Result.Message(); msg != "" {
			line += ": " + msg
		}
		fmt.Fprintln(w, line)
	}
}

func writeReport(ctx context.Context, stdout io.Writer, cfg config.ReportConfig, results []*journey.SuiteResult) error {
	if cfg.Output == "" || cfg.Output == "-" {
		if cfg.Format == report.FormatText {
			return report.Text(stdout, results, report.TextOptions{Color: isTerminal(stdout)})
		}
		return report.Write(ctx, stdout, cfg.Format, results)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := report.Write(ctx, f, cfg.Format, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
