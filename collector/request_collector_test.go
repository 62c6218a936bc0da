package collector_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/collector"
)

func TestRequestCollector_Middleware(t *testing.T) {
	requests := collector.NewRequestCollector(10)
	defer requests.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /inventory.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /logout", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	server := httptest.NewServer(requests.Middleware(mux))
	defer server.Close()

	collect := collector.Collect(t, requests.Subscribe)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	for _, path := range []string{"/inventory.html?sort=az", "/logout", "/missing"} {
		resp, err := client.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
	}

	received := collect.Wait(3)
	require.Len(t, received, 3)

	assert.Equal(t, http.MethodGet, received[0].Method)
	assert.Equal(t, "/inventory.html", received[0].Path)
	assert.Equal(t, "sort=az", received[0].Query)
	assert.Equal(t, http.StatusOK, received[0].StatusCode)
	assert.False(t, received[0].ID.IsNil())

	assert.Equal(t, http.StatusSeeOther, received[1].StatusCode)
	assert.Equal(t, "/", received[1].Location)

	assert.Equal(t, http.StatusNotFound, received[2].StatusCode)

	assert.Equal(t, received, requests.Requests())
	assert.Equal(t, received[1:], requests.Tail(2))
}

func TestRequestCollector_SkipPaths(t *testing.T) {
	requests := collector.NewRequestCollectorWithOptions(10, collector.RequestOptions{
		SkipPaths: []string{"/static/"},
	})
	defer requests.Close()

	handler := requests.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, path := range []string{"/static/app.js", "/cart.html"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	recorded := requests.Requests()
	require.Len(t, recorded, 1)
	assert.Equal(t, "/cart.html", recorded[0].Path)
	assert.Equal(t, http.StatusNoContent, recorded[0].StatusCode)
}
