package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdir/internal/config"
	"staffdir/internal/engine"
)

const fetchTestCard = "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Alice Zimmerman\r\nEND:VCARD\r\n"

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HeaderContentType, "text/vcard; charset=utf-8")
		_, _ = io.WriteString(w, fetchTestCard)
	}))
	defer srv.Close()

	f := engine.NewHTTPFetcher()
	body, err := f.Fetch(context.Background(), srv.URL, "", "")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, fetchTestCard, string(data))
}

func TestHTTPFetcher_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "hr" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set(config.HeaderContentType, "text/vcard")
		_, _ = io.WriteString(w, fetchTestCard)
	}))
	defer srv.Close()

	f := engine.NewHTTPFetcher()

	_, err := f.Fetch(context.Background(), srv.URL, "hr", "wrong")
	assert.ErrorContains(t, err, config.ErrFetchStatus)

	body, err := f.Fetch(context.Background(), srv.URL, "hr", "secret")
	require.NoError(t, err)
	_ = body.Close()
}

func TestHTTPFetcher_RejectsForeignContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HeaderContentType, "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<html><body>Please sign in</body></html>")
	}))
	defer srv.Close()

	f := engine.NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), srv.URL, "", "")
	require.Error(t, err)
	assert.ErrorContains(t, err, config.ErrContentType)
}

func TestHTTPFetcher_ToleratesLooseContentTypes(t *testing.T) {
	// HR exports in the wild are often served as text/plain or as a raw
	// download; neither should be treated as a failure.
	for _, ct := range []string{"text/plain", "application/octet-stream", "not a valid header", ""} {
		t.Run(ct, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ct != "" {
					w.Header().Set(config.HeaderContentType, ct)
				}
				_, _ = io.WriteString(w, fetchTestCard)
			}))
			defer srv.Close()

			f := engine.NewHTTPFetcher()
			body, err := f.Fetch(context.Background(), srv.URL, "", "")
			require.NoError(t, err)
			_ = body.Close()
		})
	}
}

func TestHTTPFetcher_RejectsBadScheme(t *testing.T) {
	f := engine.NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), "ftp://example.com/roster.vcf", "", "")
	assert.ErrorContains(t, err, config.ErrProtocol)
}
