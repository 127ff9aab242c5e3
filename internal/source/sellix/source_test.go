package sellix

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_bot/internal/domain"
)

func newTestSource() *Source {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(Config{Timeout: 2 * time.Second}, logger)
}

func TestFetchProducts_Success(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"data":{"products":[
			{"title":"Junk Bundle","uniqid":"abc123","price":12.5,"currency":"cad"},
			{"title":"Plans","uniqid":"def456","price":"3.99","currency":"EUR"}
		]}}`))
	}))
	defer srv.Close()

	products, err := newTestSource().FetchProducts(context.Background(), srv.URL+"/", "secret")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/v1/products", gotPath)
	require.Len(t, products, 2)
	assert.Equal(t, "Junk Bundle", products[0].Title)
	assert.Equal(t, "abc123", products[0].UniqueID)
	assert.Equal(t, "12.5", products[0].Price.String())
	assert.Equal(t, "CAD", products[0].Currency)
	assert.Equal(t, "3.99", products[1].Price.String())
}

func TestFetchProducts_EmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":{"products":[]}}`))
	}))
	defer srv.Close()

	products, err := newTestSource().FetchProducts(context.Background(), srv.URL, "secret")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchProducts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"status":401}`, domain.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"status":403}`, domain.ErrUnauthorized},
		{"server error", http.StatusBadGateway, ``, domain.ErrRemoteUnavailable},
		{"not found", http.StatusNotFound, ``, domain.ErrRemoteUnavailable},
		{"not json", http.StatusOK, `<html>`, domain.ErrMalformedResponse},
		{"missing data", http.StatusOK, `{"status":200}`, domain.ErrMalformedResponse},
		{"missing uniqid", http.StatusOK, `{"data":{"products":[{"title":"x","price":1,"currency":"USD"}]}}`, domain.ErrMalformedResponse},
		{"missing price", http.StatusOK, `{"data":{"products":[{"title":"x","uniqid":"a","currency":"USD"}]}}`, domain.ErrMalformedResponse},
		{"duplicate uniqid", http.StatusOK, `{"data":{"products":[
			{"title":"x","uniqid":"a","price":1,"currency":"USD"},
			{"title":"y","uniqid":"a","price":2,"currency":"USD"}]}}`, domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			products, err := newTestSource().FetchProducts(context.Background(), srv.URL, "secret")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, products)
		})
	}
}

func TestFetchProducts_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestSource().FetchProducts(context.Background(), url, "secret")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.True(t, domain.IsRetryable(err))
}

func TestFetchProducts_InvalidURL(t *testing.T) {
	_, err := newTestSource().FetchProducts(context.Background(), "://bad", "secret")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
