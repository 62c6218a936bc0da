// Package demostore serves a local replica of the Swag Labs storefront.
//
// The replica keeps the element ids, classes, texts and URLs of the public
// storefront so the regression suites can run without network access. State
// lives in memory per login session.
package demostore

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"
	"github.com/samber/lo"

	"github.com/networkteam/saucecheck/collector"
	"github.com/networkteam/saucecheck/internal/utils"
)

// SessionCookie is the name of the cookie holding the login session id.
const SessionCookie = "session-id"

//go:generate go run github.com/a-h/templ/cmd/templ generate

//go:embed static
var staticFS embed.FS

type Handler struct {
	options  handlerOptions
	logger   *slog.Logger
	sessions *SessionManager
	requests *collector.RequestCollector

	// popupShown records users that already saw the popup in PopupOnce mode.
	popupShown   map[string]bool
	popupShownMu sync.Mutex

	mux http.Handler
}

// NewHandler creates the storefront handler. Close must be called to stop the
// session cleanup.
func NewHandler(opts ...HandlerOption) (*Handler, error) {
	options := defaultHandlerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	requests := collector.NewRequestCollectorWithOptions(options.RequestCapacity, collector.RequestOptions{
		SkipPaths: []string{"/static/", "/favicon.ico"},
	})

	h := &Handler{
		options: options,
		logger:  options.Logger.With("component", "demostore"),
		sessions: NewSessionManager(SessionManagerOptions{
			IdleTimeout: options.SessionIdleTimeout,
			Logger:      options.Logger,
		}),
		requests:   requests,
		popupShown: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.getLogin)
	mux.HandleFunc("POST /{$}", h.postLogin)
	mux.HandleFunc("GET /logout", h.logout)
	mux.HandleFunc("GET /inventory.html", h.requireSession(h.getInventory))
	mux.HandleFunc("GET /inventory-item.html", h.requireSession(h.getItem))
	mux.HandleFunc("GET /cart.html", h.requireSession(h.getCart))
	mux.HandleFunc("GET /checkout-step-one.html", h.requireSession(h.getCheckoutInfo))
	mux.HandleFunc("POST /checkout-step-one.html", h.requireSession(h.postCheckoutInfo))
	mux.HandleFunc("GET /checkout-step-two.html", h.requireSession(h.getCheckoutOverview))
	mux.HandleFunc("POST /checkout/finish", h.requireSession(h.finishCheckout))
	mux.HandleFunc("GET /checkout-complete.html", h.requireSession(h.getCheckoutComplete))
	mux.HandleFunc("POST /api/cart/{action}", h.requireSession(h.updateCart))
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static)))

	h.mux = requests.Middleware(mux)

	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Requests returns the collector of served requests.
func (h *Handler) Requests() *collector.RequestCollector {
	return h.requests
}

// Sessions returns the login session manager.
func (h *Handler) Sessions() *SessionManager {
	return h.sessions
}

// Close stops the session cleanup and releases the request collector.
func (h *Handler) Close() {
	h.sessions.Close()
	h.requests.Close()
}

type productView struct {
	Product
	InCart bool
}

type summaryView struct {
	Subtotal string
	Tax      string
	Total    string
}

type pageData struct {
	Title     string
	LoggedIn  bool
	CartCount int
	Error     string

	Popup      bool
	PopupDelay int64

	Username string
	Users    []string

	Sort       SortOrder
	SortOrders []SortOrder
	Products   []productView

	Items   []productView
	Info    CheckoutInfo
	Summary summaryView
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page templ.Component) {
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(page, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		h.logger.Error("Rendering page failed", slog.String("path", r.URL.Path), slog.Any("err", err))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Rendering page failed", http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

func itemURL(id int) templ.SafeURL {
	return templ.URL("/inventory-item.html?id=" + strconv.Itoa(id))
}

func (h *Handler) sessionData(s Session, title string) pageData {
	return pageData{
		Title:     title,
		LoggedIn:  true,
		CartCount: len(s.Cart),
	}
}

// sessionHandlerFunc is a handler for pages that need a login session.
type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, s Session)

// requireSession resolves the session cookie. Pages redirect to the login page
// with a hint, API calls get a 401.
func (h *Handler) requireSession(next sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, ok := h.currentSession(r); ok {
			next(w, r, s)
			return
		}

		if r.Method != http.MethodGet {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, "/?from="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
	}
}

func (h *Handler) currentSession(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return Session{}, false
	}
	sessionID, err := uuid.FromString(cookie.Value)
	if err != nil {
		return Session{}, false
	}
	return h.sessions.Get(sessionID)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request, username, errMsg string) {
	h.render(w, r, loginPage(pageData{
		Username: username,
		Error:    errMsg,
		Users:    []string{StandardUser, LockedOutUser, ProblemUser, PerformanceGlitchUser},
	}))
}

func (h *Handler) getLogin(w http.ResponseWriter, r *http.Request) {
	errMsg := ""
	if from := r.URL.Query().Get("from"); from != "" {
		errMsg = msgLoginRequired(from)
	}
	h.showLogin(w, r, "", errMsg)
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("user-name")
	password := r.PostFormValue("password")

	if errMsg := authenticate(username, password); errMsg != "" {
		h.logger.Info("Login rejected", slog.String("username", username), slog.String("reason", errMsg))
		h.showLogin(w, r, username, errMsg)
		return
	}

	if username == PerformanceGlitchUser && h.options.GlitchDelay > 0 {
		select {
		case <-time.After(h.options.GlitchDelay):
		case <-r.Context().Done():
			return
		}
	}

	s := h.sessions.Create(username, h.shouldShowPopup(username))
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("Login", slog.String("username", username), slog.String("session", s.ID.String()))
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func (h *Handler) shouldShowPopup(username string) bool {
	switch h.options.PopupMode {
	case PopupAlways:
		return true
	case PopupOnce:
		h.popupShownMu.Lock()
		defer h.popupShownMu.Unlock()
		if h.popupShown[username] {
			return false
		}
		h.popupShown[username] = true
		return true
	default:
		return false
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.currentSession(r); ok {
		h.sessions.Delete(s.ID)
		h.logger.Info("Logout", slog.String("username", s.Username))
	}
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request, s Session) {
	showPopup := false
	if s.PopupPending {
		s, _ = h.sessions.Update(s.ID, func(s *Session) { s.PopupPending = false })
		showPopup = true
	}

	sort := ParseSortOrder(r.URL.Query().Get("sort"))
	data := h.sessionData(s, "Products")
	data.Sort = sort
	data.SortOrders = SortOrders
	data.Products = productViews(SortProducts(Catalog(), sort), s)
	data.Popup = showPopup
	data.PopupDelay = h.options.PopupDelay.Milliseconds()

	h.render(w, r, inventoryPage(data))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request, s Session) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
		return
	}
	product, ok := ProductByID(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	view := productView{Product: product, InCart: s.InCart(product.Slug())}
	h.render(w, r, itemPage(h.sessionData(s, ""), view))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request, s Session) {
	data := h.sessionData(s, "Your Cart")
	data.Items = cartItems(s)
	h.render(w, r, cartPage(data))
}

func (h *Handler) getCheckoutInfo(w http.ResponseWriter, r *http.Request, s Session) {
	h.render(w, r, checkoutInfoPage(h.sessionData(s, "Checkout: Your Information")))
}

func (h *Handler) postCheckoutInfo(w http.ResponseWriter, r *http.Request, s Session) {
	info := CheckoutInfo{
		FirstName:  r.PostFormValue("firstName"),
		LastName:   r.PostFormValue("lastName"),
		PostalCode: r.PostFormValue("postalCode"),
	}
	if errMsg := info.validate(); errMsg != "" {
		data := h.sessionData(s, "Checkout: Your Information")
		data.Info = info
		data.Error = errMsg
		h.render(w, r, checkoutInfoPage(data))
		return
	}

	h.sessions.Update(s.ID, func(s *Session) { s.Checkout = &info })
	http.Redirect(w, r, "/checkout-step-two.html", http.StatusSeeOther)
}

func (h *Handler) getCheckoutOverview(w http.ResponseWriter, r *http.Request, s Session) {
	if s.Checkout == nil {
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	}

	items := cartItems(s)
	data := h.sessionData(s, "Checkout: Overview")
	data.Items = items
	data.Summary = summarize(items, h.options.TaxRate)
	h.render(w, r, checkoutOverviewPage(data))
}

func (h *Handler) finishCheckout(w http.ResponseWriter, r *http.Request, s Session) {
	h.sessions.Update(s.ID, func(s *Session) {
		s.Cart = nil
		s.Checkout = nil
	})
	h.logger.Info("Order placed", slog.String("username", s.Username), slog.Int("items", len(s.Cart)))
	http.Redirect(w, r, "/checkout-complete.html", http.StatusSeeOther)
}

func (h *Handler) getCheckoutComplete(w http.ResponseWriter, r *http.Request, s Session) {
	h.render(w, r, checkoutCompletePage(h.sessionData(s, "Checkout: Complete!")))
}

type cartRequest struct {
	Product string `json:"product"`
}

type cartResponse struct {
	Count int      `json:"count"`
	Items []string `json:"items"`
}

var errUnknownProduct = errors.New("unknown product")

func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request, s Session) {
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	var update func(s *Session) error
	switch r.PathValue("action") {
	case "add":
		update = func(s *Session) error {
			if _, ok := ProductBySlug(req.Product); !ok {
				return errUnknownProduct
			}
			if !s.InCart(req.Product) {
				s.Cart = append(s.Cart, req.Product)
			}
			return nil
		}
	case "remove":
		update = func(s *Session) error {
			s.Cart = slices.DeleteFunc(s.Cart, func(slug string) bool { return slug == req.Product })
			return nil
		}
	case "reset":
		update = func(s *Session) error {
			s.Cart = nil
			return nil
		}
	default:
		http.NotFound(w, r)
		return
	}

	var updateErr error
	updated, ok := h.sessions.Update(s.ID, func(s *Session) { updateErr = update(s) })
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}
	if updateErr != nil {
		http.Error(w, updateErr.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cartResponse{
		Count: len(updated.Cart),
		Items: lo.Ternary(updated.Cart == nil, []string{}, updated.Cart),
	}); err != nil {
		h.logger.Warn("Writing cart response failed", slog.Any("err", err))
	}
}

func productViews(products []Product, s Session) []productView {
	return lo.Map(products, func(p Product, _ int) productView {
		return productView{Product: p, InCart: s.InCart(p.Slug())}
	})
}

func cartItems(s Session) []productView {
	return lo.FilterMap(s.Cart, func(slug string, _ int) (productView, bool) {
		p, ok := ProductBySlug(slug)
		return productView{Product: p, InCart: true}, ok
	})
}

func summarize(items []productView, taxRate float64) summaryView {
	subtotal := lo.SumBy(items, func(item productView) float64 { return item.Price })
	tax := math.Round(subtotal*taxRate*100) / 100
	return summaryView{
		Subtotal: utils.FormatPrice(subtotal),
		Tax:      utils.FormatPrice(tax),
		Total:    utils.FormatPrice(subtotal + tax),
	}
}
