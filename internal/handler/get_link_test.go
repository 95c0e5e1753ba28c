package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLink(t *testing.T) {
	h, _ := newTestHandler(t)
	seeded := shorten(t, h, `{"original_url":"https://go.dev","custom_alias":"godocs"}`)

	t.Run("own link", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetLink(w, newRequest(http.MethodGet, "/api/links/godocs", "",
			map[string]string{"shortCode": "godocs"}))

		res := w.Result()
		require.Equal(t, http.StatusOK, res.StatusCode)
		payload := decodeLinkPayload(t, res)
		assert.Equal(t, seeded.ID, payload.ID)
		assert.Equal(t, "https://go.dev", payload.OriginalURL)
	})

	t.Run("unknown code", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetLink(w, newRequest(http.MethodGet, "/api/links/missing", "",
			map[string]string{"shortCode": "missing"}))

		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("foreign link", func(t *testing.T) {
		r := newRequest(http.MethodGet, "/api/links/godocs", "",
			map[string]string{"shortCode": "godocs"})
		r = r.WithContext(userContext(r.Context(), "9e3b1a3c-64c1-4cf2-81f6-b17a5e8f9f01"))

		w := httptest.NewRecorder()
		h.GetLink(w, r)

		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestListLinks(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("empty", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ListLinks(w, newRequest(http.MethodGet, "/api/links", "", nil))

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		var payload []linkPayload
		require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
		assert.Empty(t, payload)
	})

	shorten(t, h, `{"original_url":"https://go.dev","custom_alias":"first"}`)
	shorten(t, h, `{"original_url":"https://pkg.go.dev","custom_alias":"second"}`)

	t.Run("owner scoped", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ListLinks(w, newRequest(http.MethodGet, "/api/links", "", nil))

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		var payload []linkPayload
		require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
		require.Len(t, payload, 2)

		r := newRequest(http.MethodGet, "/api/links", "", nil)
		r = r.WithContext(userContext(r.Context(), "9e3b1a3c-64c1-4cf2-81f6-b17a5e8f9f01"))
		w = httptest.NewRecorder()
		h.ListLinks(w, r)

		res = w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		payload = nil
		require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
		assert.Empty(t, payload)
	})
}

func TestSearchLink(t *testing.T) {
	h, _ := newTestHandler(t)
	shorten(t, h, `{"original_url":"https://go.dev","custom_alias":"godocs"}`)

	t.Run("found", func(t *testing.T) {
		target := "/api/links/search?original_url=" + url.QueryEscape("https://go.dev")
		w := httptest.NewRecorder()
		h.SearchLink(w, newRequest(http.MethodGet, target, "", nil))

		res := w.Result()
		require.Equal(t, http.StatusOK, res.StatusCode)
		payload := decodeLinkPayload(t, res)
		assert.Equal(t, "godocs", payload.ShortCode)
	})

	t.Run("not found", func(t *testing.T) {
		target := "/api/links/search?original_url=" + url.QueryEscape("https://pkg.go.dev")
		w := httptest.NewRecorder()
		h.SearchLink(w, newRequest(http.MethodGet, target, "", nil))

		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("missing query parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.SearchLink(w, newRequest(http.MethodGet, "/api/links/search", "", nil))

		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}
