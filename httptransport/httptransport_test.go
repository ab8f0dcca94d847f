package httptransport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
	"github.com/kytnacode/go-jrpc-client/httptransport"
)

func TestTransport_RoundTrip(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", got)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}

		var req struct {
			ID json.Number `json:"id"`
		}

		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request is not valid JSON: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + req.ID.String() + `,"result":"pong"}`))
	}))
	defer server.Close()

	tr := httptransport.New(server.URL)

	got, err := jrpcclient.Go[string](tr, "ping", nil).Wait(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got != "pong" {
		t.Errorf(`expected "pong", got %q`, got)
	}
}

func TestTransport_CustomHeader(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("expected Authorization header, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	}))
	defer server.Close()

	tr := httptransport.New(server.URL, httptransport.WithHeader("Authorization", "Bearer token"))

	if _, err := jrpcclient.Go[any](tr, "ping", nil).Wait(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTransport_NonOKStatusIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	tr := httptransport.New(server.URL)

	_, err := jrpcclient.Go[any](tr, "ping", nil).Wait(context.Background())

	var transportErr *jrpcclient.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected a *jrpcclient.TransportError, got %T: %v", err, err)
	}
}

func TestTransport_NonJSONContentTypeIsTransportError(t *testing.T) {
	t.Parallel()

	// A proxy error page served with a 200 must not reach the parser.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html>service temporarily unavailable</html>`))
	}))
	defer server.Close()

	tr := httptransport.New(server.URL)

	_, err := jrpcclient.Go[any](tr, "ping", nil).Wait(context.Background())

	var transportErr *jrpcclient.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected a *jrpcclient.TransportError, got %T: %v", err, err)
	}
}

func TestTransport_JSONContentTypeWithCharsetIsAccepted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"pong"}`))
	}))
	defer server.Close()

	tr := httptransport.New(server.URL)

	got, err := jrpcclient.Go[string](tr, "ping", nil).Wait(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got != "pong" {
		t.Errorf(`expected "pong", got %q`, got)
	}
}

func TestTransport_ConnectionFailureIsTransportError(t *testing.T) {
	t.Parallel()

	// Reserve a port and close it again so nothing is listening.
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	tr := httptransport.New(url)

	_, err := jrpcclient.Go[any](tr, "ping", nil).Wait(context.Background())

	var transportErr *jrpcclient.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected a *jrpcclient.TransportError, got %T: %v", err, err)
	}
}

func TestTransport_IDsAreMonotonic(t *testing.T) {
	t.Parallel()

	tr := httptransport.New("http://127.0.0.1:0")

	seen := make(map[uint64]bool)

	for i := 0; i < 100; i++ {
		id := tr.NextID()
		if seen[id] {
			t.Fatalf("id %d was returned twice", id)
		}

		seen[id] = true
	}
}
