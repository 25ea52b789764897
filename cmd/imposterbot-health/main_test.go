package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bloops-games/imposter/internal/server"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := httptest.NewServer(server.HandleHealth(ctx))
	defer srv.Close()

	status, err := check(ctx, srv.Client(), srv.URL)
	if err != nil || status != "ok" {
		t.Fatalf("expected ok got %q, %v", status, err)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	if _, err := check(ctx, failing.Client(), failing.URL); err == nil {
		t.Error("expected an error for a failing server")
	}
}
