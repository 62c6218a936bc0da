package demostore_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/demostore"
)

type storeClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newStore(t *testing.T, opts ...demostore.HandlerOption) (*demostore.Handler, *storeClient) {
	t.Helper()

	opts = append([]demostore.HandlerOption{
		demostore.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	handler, err := demostore.NewHandler(opts...)
	require.NoError(t, err)
	t.Cleanup(handler.Close)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return handler, &storeClient{
		t:      t,
		server: server,
		client: &http.Client{Jar: jar, Timeout: 5 * time.Second},
	}
}

func (c *storeClient) get(path string) (*http.Response, *goquery.Document) {
	c.t.Helper()
	resp, err := c.client.Get(c.server.URL + path)
	require.NoError(c.t, err)
	return resp, c.document(resp)
}

func (c *storeClient) postForm(path string, values url.Values) (*http.Response, *goquery.Document) {
	c.t.Helper()
	resp, err := c.client.PostForm(c.server.URL+path, values)
	require.NoError(c.t, err)
	return resp, c.document(resp)
}

func (c *storeClient) postJSON(path, body string) *http.Response {
	c.t.Helper()
	resp, err := c.client.Post(c.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(c.t, err)
	return resp
}

func (c *storeClient) document(resp *http.Response) *goquery.Document {
	c.t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(c.t, err)
	return doc
}

func (c *storeClient) login(username string) *goquery.Document {
	c.t.Helper()
	_, doc := c.postForm("/", url.Values{"user-name": {username}, "password": {demostore.Password}})
	return doc
}

func TestHandler_LoginPage(t *testing.T) {
	_, c := newStore(t)

	resp, doc := c.get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Swag Labs", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find("#user-name").Length())
	assert.Equal(t, 1, doc.Find("#password").Length())
	assert.Equal(t, 1, doc.Find("#login-button").Length())
	assert.Zero(t, doc.Find("[data-test='error']").Length())
}

func TestHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{name: "empty username", password: "secret_sauce", want: "Epic sadface: Username is required"},
		{name: "empty password", username: "standard_user", want: "Epic sadface: Password is required"},
		{name: "wrong password", username: "standard_user", password: "wrong", want: "Epic sadface: Username and password do not match any user in this service"},
		{name: "unknown user", username: "wrong", password: "wrong", want: "Epic sadface: Username and password do not match any user in this service"},
		{name: "locked out", username: "locked_out_user", password: "secret_sauce", want: "Epic sadface: Sorry, this user has been locked out."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newStore(t)

			resp, doc := c.postForm("/", url.Values{"user-name": {tt.username}, "password": {tt.password}})

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "/", resp.Request.URL.Path)
			assert.Equal(t, tt.want, strings.TrimSpace(doc.Find("[data-test='error']").Text()))
		})
	}
}

func TestHandler_LoginShowsInventory(t *testing.T) {
	_, c := newStore(t)

	doc := c.login(demostore.StandardUser)

	assert.Equal(t, "Products", doc.Find("span.title").Text())
	assert.Equal(t, 6, doc.Find(".inventory_item").Length())
	assert.Equal(t, 1, doc.Find("#react-burger-menu-btn").Length())
	assert.Equal(t, 1, doc.Find("#logout_sidebar_link").Length())
	assert.Equal(t, 1, doc.Find(".bm-menu-wrap[hidden]").Length(), "menu starts closed")
	assert.Equal(t, "Name (A to Z)", doc.Find(".active_option").Text())
	assert.Zero(t, doc.Find(".shopping_cart_badge").Length())
	assert.Equal(t, 1, doc.Find("#add-to-cart-sauce-labs-backpack").Length())
	assert.Equal(t, 1, doc.Find(`[id="add-to-cart-test.allthethings()-t-shirt-(red)"]`).Length())
	assert.Zero(t, doc.Find("#password-change-popup").Length())
}

func TestHandler_InventoryRequiresLogin(t *testing.T) {
	_, c := newStore(t)

	resp, doc := c.get("/inventory.html")

	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t,
		"Epic sadface: You can only access '/inventory.html' when you are logged in.",
		strings.TrimSpace(doc.Find("[data-test='error']").Text()),
	)
}

func TestHandler_InventorySorting(t *testing.T) {
	tests := []struct {
		sort  string
		label string
		first string
		last  string
	}{
		{sort: "az", label: "Name (A to Z)", first: "Sauce Labs Backpack", last: "Test.allTheThings() T-Shirt (Red)"},
		{sort: "za", label: "Name (Z to A)", first: "Test.allTheThings() T-Shirt (Red)", last: "Sauce Labs Backpack"},
		{sort: "lohi", label: "Price (low to high)", first: "Sauce Labs Onesie", last: "Sauce Labs Fleece Jacket"},
		{sort: "hilo", label: "Price (high to low)", first: "Sauce Labs Fleece Jacket", last: "Sauce Labs Onesie"},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			_, c := newStore(t)
			c.login(demostore.StandardUser)

			_, doc := c.get("/inventory.html?sort=" + tt.sort)

			names := doc.Find(".inventory_item_name").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
			require.Len(t, names, 6)
			assert.Equal(t, tt.first, names[0])
			assert.Equal(t, tt.last, names[5])
			assert.Equal(t, tt.label, doc.Find(".active_option").Text())
			assert.Equal(t, tt.sort, doc.Find(".product_sort_container option[selected]").AttrOr("value", ""))
		})
	}
}

func TestHandler_CartAPI(t *testing.T) {
	handler, c := newStore(t)
	c.login(demostore.StandardUser)

	resp := c.postJSON("/api/cart/add", `{"product":"sauce-labs-backpack"}`)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":1,"items":["sauce-labs-backpack"]}`, string(body))

	resp = c.postJSON("/api/cart/add", `{"product":"sauce-labs-bike-light"}`)
	resp.Body.Close()

	_, doc := c.get("/inventory.html")
	assert.Equal(t, "2", doc.Find(".shopping_cart_badge").Text())
	assert.Equal(t, 1, doc.Find("#remove-sauce-labs-backpack").Length())
	assert.Equal(t, 1, doc.Find("#remove-sauce-labs-bike-light").Length())

	resp = c.postJSON("/api/cart/remove", `{"product":"sauce-labs-backpack"}`)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"count":1,"items":["sauce-labs-bike-light"]}`, string(body))

	resp = c.postJSON("/api/cart/add", `{"product":"no-such-product"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.postJSON("/api/cart/reset", `{}`)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"count":0,"items":[]}`, string(body))

	paths := make([]string, 0)
	for _, req := range handler.Requests().Requests() {
		paths = append(paths, req.Method+" "+req.Path)
	}
	assert.Contains(t, paths, "POST /api/cart/reset")
}

func TestHandler_CartAPIRequiresLogin(t *testing.T) {
	_, c := newStore(t)

	resp := c.postJSON("/api/cart/add", `{"product":"sauce-labs-backpack"}`)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_CheckoutFlow(t *testing.T) {
	_, c := newStore(t)
	c.login(demostore.StandardUser)
	c.postJSON("/api/cart/add", `{"product":"sauce-labs-backpack"}`).Body.Close()

	_, doc := c.get("/cart.html")
	assert.Equal(t, "Your Cart", doc.Find("span.title").Text())
	assert.Equal(t, 1, doc.Find(".cart_item").Length())
	assert.Equal(t, 1, doc.Find("#continue-shopping").Length())
	assert.Equal(t, 1, doc.Find("#checkout").Length())

	_, doc = c.get("/checkout-step-two.html")
	assert.Equal(t, 1, doc.Find("#first-name").Length(), "overview without information redirects to the form")

	resp, doc := c.postForm("/checkout-step-one.html", url.Values{"firstName": {"Akash"}})
	assert.Contains(t, resp.Request.URL.Path, "checkout-step-one")
	assert.Equal(t, "Error: Last Name is required", strings.TrimSpace(doc.Find("[data-test='error']").Text()))
	assert.Equal(t, "Akash", doc.Find("#first-name").AttrOr("value", ""))

	resp, doc = c.postForm("/checkout-step-one.html", url.Values{
		"firstName":  {"Akash"},
		"lastName":   {"Gaikar"},
		"postalCode": {"400606"},
	})
	assert.Equal(t, "/checkout-step-two.html", resp.Request.URL.Path)
	assert.Equal(t, 1, doc.Find(".summary_info").Length())
	assert.Equal(t, "Item total: $29.99", doc.Find(".summary_subtotal_label").Text())
	assert.Equal(t, "Tax: $2.40", doc.Find(".summary_tax_label").Text())
	assert.Equal(t, "Total: $32.39", doc.Find(".summary_total_label").Text())

	resp, doc = c.postForm("/checkout/finish", nil)
	assert.Equal(t, "/checkout-complete.html", resp.Request.URL.Path)
	assert.Equal(t, "Thank you for your order!", doc.Find(".complete-header").Text())
	assert.Equal(t, 1, doc.Find("#back-to-products").Length())

	_, doc = c.get("/cart.html")
	assert.Zero(t, doc.Find(".cart_item").Length())
	assert.Zero(t, doc.Find(".shopping_cart_badge").Length())
}

func TestHandler_CheckoutValidation(t *testing.T) {
	_, c := newStore(t)
	c.login(demostore.StandardUser)

	tests := []struct {
		values url.Values
		want   string
	}{
		{values: url.Values{}, want: "Error: First Name is required"},
		{values: url.Values{"firstName": {"A"}}, want: "Error: Last Name is required"},
		{values: url.Values{"firstName": {"A"}, "lastName": {"B"}}, want: "Error: Postal Code is required"},
	}
	for _, tt := range tests {
		_, doc := c.postForm("/checkout-step-one.html", tt.values)
		assert.Equal(t, tt.want, strings.TrimSpace(doc.Find("[data-test='error']").Text()))
	}
}

func TestHandler_Logout(t *testing.T) {
	handler, c := newStore(t)
	c.login(demostore.StandardUser)
	require.Equal(t, 1, handler.Sessions().Len())

	resp, doc := c.get("/logout")

	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, 1, doc.Find("#login-button").Length())
	assert.Zero(t, handler.Sessions().Len())

	resp, _ = c.get("/inventory.html")
	assert.Equal(t, "/", resp.Request.URL.Path)
}

func TestHandler_ItemPage(t *testing.T) {
	_, c := newStore(t)
	c.login(demostore.StandardUser)

	_, doc := c.get("/inventory-item.html?id=4")

	assert.Equal(t, "Sauce Labs Backpack", doc.Find(".inventory_details_name").Text())
	assert.Equal(t, "$29.99", doc.Find(".inventory_details_price").Text())
	assert.Equal(t, 1, doc.Find("#add-to-cart-sauce-labs-backpack").Length())
	assert.Equal(t, 1, doc.Find("#back-to-products").Length())

	resp, _ := c.get("/inventory-item.html?id=99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_PopupModes(t *testing.T) {
	tests := []struct {
		mode  demostore.PopupMode
		shown []bool
	}{
		{mode: demostore.PopupNever, shown: []bool{false, false}},
		{mode: demostore.PopupAlways, shown: []bool{true, true}},
		{mode: demostore.PopupOnce, shown: []bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			_, c := newStore(t, demostore.WithPopupMode(tt.mode))

			for i, want := range tt.shown {
				doc := c.login(demostore.StandardUser)
				assert.Equal(t, want, doc.Find("#password-change-popup").Length() == 1, "login %d", i+1)
				assert.Equal(t, want, doc.Find("#password-change-popup .close-button").Length() == 1, "login %d", i+1)

				_, doc = c.get("/inventory.html")
				assert.Zero(t, doc.Find("#password-change-popup").Length(), "popup only on the first products page")
			}
		})
	}
}

func TestHandler_PopupDelay(t *testing.T) {
	_, c := newStore(t, demostore.WithPopupMode(demostore.PopupAlways), demostore.WithPopupDelay(300*time.Millisecond))

	doc := c.login(demostore.StandardUser)

	popup := doc.Find("#password-change-popup")
	_, hidden := popup.Attr("hidden")
	assert.True(t, hidden)
	assert.Equal(t, "300", popup.AttrOr("data-delay", ""))
}

func TestHandler_StaticAssets(t *testing.T) {
	_, c := newStore(t)

	for _, path := range []string{"/static/app.js", "/static/style.css", "/static/img/product.svg"} {
		resp, err := c.client.Get(c.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestHandler_PagesRenderAsHTML(t *testing.T) {
	_, c := newStore(t)

	resp, doc := c.postForm("/", url.Values{"user-name": {`<b id="injected">x</b>`}, "password": {"wrong"}})

	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, `<b id="injected">x</b>`, doc.Find("#user-name").AttrOr("value", ""))
	assert.Zero(t, doc.Find("#injected").Length(), "username is escaped")
	assert.Equal(t, 1, doc.Find(".error-message-container.error").Length())
}
