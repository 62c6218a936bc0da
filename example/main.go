package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/stretchr/testify/assert"

	"github.com/networkteam/saucecheck"
	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/collector"
	"github.com/networkteam/saucecheck/demostore"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/report"
	"github.com/networkteam/saucecheck/session"
	"github.com/networkteam/saucecheck/suites"
)

func main() {
	// 1. Set up slog: info to stderr, everything into a log collector for later inspection

	logs := collector.NewLogCollector(1000)
	defer logs.Close()

	logger := slog.New(
		slogmulti.Fanout(
			collector.NewSlogHandler(logs, collector.CollectSlogLogsOptions{
				Level: slog.LevelDebug,
			}),
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		),
	)
	slog.SetDefault(logger)

	// 2. Serve the demo store locally, with the popup after every login

	store, err := demostore.NewHandler(
		demostore.WithLogger(logger),
		demostore.WithPopupMode(demostore.PopupAlways),
	)
	if err != nil {
		logger.Error("Creating demo store", slog.Any("err", err))
		os.Exit(1)
	}
	defer store.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		logger.Error("Listening", slog.Any("err", err))
		os.Exit(1)
	}
	go http.Serve(ln, store)
	baseURL := "http://" + ln.Addr().String() + "/"

	// 3. Run a custom suite next to a built-in one

	instance := saucecheck.NewWithOptions(saucecheck.Options{
		Session: session.Options{BaseURL: baseURL, Headless: true},
		Logger:  logger,
	})
	defer instance.Close()

	ctx := context.Background()
	results, err := instance.Run(ctx, itemDetails(), suites.CartCount(suites.DefaultCredentials()))
	if err != nil {
		logger.Error("Running suites", slog.Any("err", err))
		os.Exit(1)
	}

	if err := report.Text(os.Stdout, results, report.TextOptions{Color: true}); err != nil {
		logger.Error("Writing report", slog.Any("err", err))
	}

	logger.Info("Run finished",
		slog.Int("collectedLogs", len(logs.Entries())),
		slog.Int("storeRequests", len(store.Requests().Requests())),
	)

	if report.Failed(results) {
		os.Exit(1)
	}
}

// itemDetails opens the detail page of the backpack and adds it to the cart from there.
func itemDetails() journey.Suite {
	backpack := session.CSS("#item_4_title_link")
	detailsName := session.Class("inventory_details_name")
	detailsPrice := session.Class("inventory_details_price")

	return journey.Suite{
		Name:        "ItemDetails",
		Description: "Product detail page of the backpack",
		Steps: []journey.Step{
			{ID: 1, Name: "Login", Run: func(t *journey.T, s *session.Session) {
				t.Check(actions.Login(s, actions.StandardUser, actions.Password))
			}},
			{ID: 2, Name: "Open backpack", Run: func(t *journey.T, s *session.Session) {
				t.Check(s.Locate(backpack).Click())
				t.Check(s.Wait().URLContains("inventory-item.html"))

				name, err := actions.Text(s, detailsName)
				t.Check(err)
				assert.Equal(t, "Sauce Labs Backpack", name)

				price, err := actions.Text(s, detailsPrice)
				t.Check(err)
				assert.Equal(t, "$29.99", price)
			}},
			{ID: 3, Name: "Add from details", Run: func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, "sauce-labs-backpack"))
				t.Check(actions.WaitCartBadge(s, "1"))
			}},
			{ID: 4, Name: "Back to products", Run: func(t *journey.T, s *session.Session) {
				t.Check(actions.BackHome(s))
				t.Check(s.Wait().URLContains("inventory.html"))
			}},
			{ID: 5, Name: "Logout", Run: func(t *journey.T, s *session.Session) {
				t.Check(actions.ResetAppState(s))
				t.Check(actions.Logout(s))
			}},
		},
	}
}
