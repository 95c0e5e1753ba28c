package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akarpov/shortly/internal/shortcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortenLink(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		seed           string
		assertResponse func(t *testing.T, res *http.Response)
	}{
		{
			name: "generated code",
			body: `{"original_url":"https://go.dev"}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				require.Equal(t, http.StatusCreated, res.StatusCode)
				assert.Contains(t, res.Header.Get(contentType), applicationJSON)
				payload := decodeLinkPayload(t, res)
				assert.Regexp(t, shortcode.CodeRegexp, payload.ShortCode)
				assert.Equal(t, "https://go.dev", payload.OriginalURL)
				assert.Contains(t, payload.ShortURL, payload.ShortCode)
				assert.Nil(t, payload.ExpiresAt)
				assert.EqualValues(t, 0, payload.AccessCount)
			},
		},
		{
			name: "custom alias with expiration",
			body: `{"original_url":"https://go.dev","custom_alias":"godocs","expires_in_days":7}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				require.Equal(t, http.StatusCreated, res.StatusCode)
				payload := decodeLinkPayload(t, res)
				assert.Equal(t, "godocs", payload.ShortCode)
				require.NotNil(t, payload.ExpiresAt)
			},
		},
		{
			name: "alias already taken",
			seed: `{"original_url":"https://go.dev","custom_alias":"taken"}`,
			body: `{"original_url":"https://pkg.go.dev","custom_alias":"taken"}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusConflict, res.StatusCode)
			},
		},
		{
			name: "alias too short",
			body: `{"original_url":"https://go.dev","custom_alias":"ab"}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			},
		},
		{
			name: "reserved alias",
			body: `{"original_url":"https://go.dev","custom_alias":"api"}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			},
		},
		{
			name: "non-positive expiration",
			body: `{"original_url":"https://go.dev","expires_in_days":0}`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			},
		},
		{
			name: "empty original url",
			body: `{"original_url":""}`,
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
			name: "malformed json",
			body: `{"original_url":`,
			assertResponse: func(t *testing.T, res *http.Response) {
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			if tt.seed != "" {
				shorten(t, h, tt.seed)
			}

			w := httptest.NewRecorder()
			h.ShortenLink(w, newRequest(http.MethodPost, "/api/links/shorten", tt.body, nil))

			tt.assertResponse(t, w.Result())
		})
	}
}

func TestShortenLink_NoIdentity(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ShortenLink(w, anonRequest(http.MethodPost, "/api/links/shorten",
		`{"original_url":"https://go.dev"}`))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// Two users may shorten the same URL independently of each other.
func TestShortenLink_SameURLDifferentUsers(t *testing.T) {
	h, _ := newTestHandler(t)

	first := shorten(t, h, `{"original_url":"https://go.dev"}`)

	r := anonRequest(http.MethodPost, "/api/links/shorten", `{"original_url":"https://go.dev"}`)
	r = r.WithContext(userContext(r.Context(), "9e3b1a3c-64c1-4cf2-81f6-b17a5e8f9f01"))
	w := httptest.NewRecorder()
	h.ShortenLink(w, r)

	res := w.Result()
	require.Equal(t, http.StatusCreated, res.StatusCode)
	second := decodeLinkPayload(t, res)
	assert.NotEqual(t, first.ShortCode, second.ShortCode)
}
