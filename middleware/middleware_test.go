package middleware_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
	"github.com/kytnacode/go-jrpc-client/internal/test"
	"github.com/kytnacode/go-jrpc-client/middleware"
)

func TestLogging_PassesResultsThrough(t *testing.T) {
	t.Parallel()

	tr := middleware.Logging(test.Echo(), zerolog.Nop())

	result, err := jrpcclient.Go[map[string]any](tr, "ping", "Hello").Wait(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := result["method"]; got != "ping" {
		t.Errorf(`expected method "ping", got %v`, got)
	}
}

func TestLogging_DelegatesIDAllocation(t *testing.T) {
	t.Parallel()

	inner := test.Echo() // Always allocates id 1.

	tr := middleware.Logging(inner, zerolog.Nop())

	if got := tr.NextID(); got != 1 {
		t.Errorf("expected inner transport's id 1, got %d", got)
	}
}

func TestRetry_RetriesOnlyTransportErrors(t *testing.T) {
	t.Parallel()

	t.Run("transport error retried until success", func(t *testing.T) {
		t.Parallel()

		failures := 2
		inner := &test.Transport{
			NextIDFunc: func() uint64 { return 1 },
			Respond: func(_ []byte) ([]byte, error) {
				if failures > 0 {
					failures--

					return nil, io.ErrUnexpectedEOF
				}

				return []byte(`{"jsonrpc":"2.0","id":1,"result":"ok"}`), nil
			},
		}

		tr := middleware.Retry(inner, 3, time.Millisecond)

		got, err := jrpcclient.Go[string](tr, "flaky", nil).Wait(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got != "ok" {
			t.Errorf(`expected "ok", got %q`, got)
		}

		if sent := inner.Sent(); len(sent) != 3 {
			t.Errorf("expected 3 attempts, got %d", len(sent))
		}
	})

	t.Run("rpc error not retried", func(t *testing.T) {
		t.Parallel()

		inner := test.RPCError(jrpcclient.InternalError, "boom", "")

		tr := middleware.Retry(inner, 3, time.Millisecond)

		_, err := jrpcclient.Go[any](tr, "boom", nil).Wait(context.Background())

		var rpcErr *jrpcclient.Error
		if !errors.As(err, &rpcErr) {
			t.Fatalf("expected a *jrpcclient.Error, got %T: %v", err, err)
		}

		if sent := inner.Sent(); len(sent) != 1 {
			t.Errorf("expected a single attempt, got %d", len(sent))
		}
	})

	t.Run("budget exhausted yields last failure", func(t *testing.T) {
		t.Parallel()

		cause := io.ErrUnexpectedEOF
		inner := test.Failing(cause)

		tr := middleware.Retry(inner, 2, time.Millisecond)

		_, err := jrpcclient.Go[any](tr, "down", nil).Wait(context.Background())

		if !errors.Is(err, cause) {
			t.Errorf("expected error to wrap %v, got %v", cause, err)
		}

		if sent := inner.Sent(); len(sent) != 3 {
			t.Errorf("expected 3 attempts, got %d", len(sent))
		}
	})
}

func TestRateLimit_AdmitsWithinBudget(t *testing.T) {
	t.Parallel()

	tr := middleware.RateLimit(test.Echo(), rate.NewLimiter(rate.Inf, 1))

	for i := 0; i < 3; i++ {
		if _, err := jrpcclient.Go[any](tr, "ping", nil).Wait(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
}

func TestRateLimit_ThrottlesBursts(t *testing.T) {
	t.Parallel()

	// 1 token, refilled every 20ms: the second call must wait.
	tr := middleware.RateLimit(test.Echo(), rate.NewLimiter(rate.Every(20*time.Millisecond), 1))

	start := time.Now()

	for i := 0; i < 2; i++ {
		if _, err := jrpcclient.Go[any](tr, "ping", nil).Wait(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("expected the second call to be throttled, both finished in %v", elapsed)
	}
}
