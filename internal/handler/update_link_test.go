package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateLink(t *testing.T) {
	params := map[string]string{"shortCode": "godocs"}

	tests := []struct {
		name           string
		body           string
		assertResponse func(t *testing.T, res *http.Response)
	}{
		{
			name: "new original url",
			body: `{"original_url":"https://pkg.go.dev"}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				require.Equal(t, http.StatusOK, res.StatusCode)
				payload := decodeLinkPayload(t, res)
				assert.Equal(t, "https://pkg.go.dev", payload.OriginalURL)
				assert.Equal(t, "godocs", payload.ShortCode)
			},
		},
		{
			name: "new expiration only",
			body: `{"expires_in_days":30}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				require.Equal(t, http.StatusOK, res.StatusCode)
				payload := decodeLinkPayload(t, res)
				assert.Equal(t, "https://go.dev", payload.OriginalURL)
				require.NotNil(t, payload.ExpiresAt)
			},
		},
		{
			name: "empty patch",
			body: `{}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			},
		},
		{
			name: "invalid original url",
			body: `{"original_url":"not a url"}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			},
		},
		{
			name: "non-positive expiration",
			body: `{"expires_in_days":-1}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			shorten(t, h, `{"original_url":"https://go.dev","custom_alias":"godocs"}`)

			w := httptest.NewRecorder()
			h.UpdateLink(w, newRequest(http.MethodPut, "/api/links/godocs", tt.body, params))

			tt.assertResponse(t, w.Result())
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		h, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		h.UpdateLink(w, newRequest(http.MethodPut, "/api/links/missing",
			`{"original_url":"https://pkg.go.dev"}`,
			map[string]string{"shortCode": "missing"}))

		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("foreign link", func(t *testing.T) {
		h, _ := newTestHandler(t)
		shorten(t, h, `{"original_url":"https://go.dev","custom_alias":"godocs"}`)

		r := newRequest(http.MethodPut, "/api/links/godocs",
			`{"original_url":"https://pkg.go.dev"}`, params)
		r = r.WithContext(userContext(r.Context(), "9e3b1a3c-64c1-4cf2-81f6-b17a5e8f9f01"))

		w := httptest.NewRecorder()
		h.UpdateLink(w, r)

		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
