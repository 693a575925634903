package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbeHealth(t *testing.T) {
	client := NewClient(10 * time.Second)

	t.Run("healthy endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		assert.True(t, ProbeHealth(context.Background(), client, srv.URL+"/health"))
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		assert.False(t, ProbeHealth(context.Background(), client, srv.URL))
	})

	t.Run("unreachable host", func(t *testing.T) {
		assert.False(t, ProbeHealth(context.Background(), client, "http://127.0.0.1:1/health"))
	})
}
