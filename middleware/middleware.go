// Package middleware provides decorators for any [jrpcclient.Transport]:
// call logging, transport-level retries and rate limiting.
//
// Decorators wrap Send only; NextID always delegates to the innermost
// transport, ids stay owned by it. Policies like retrying and throttling
// belong here or inside concrete transports, never in the client core.
package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
)

// Logging wraps t so every call is logged with its method, id, size and
// duration once it resolves.
func Logging(t jrpcclient.Transport, log zerolog.Logger) jrpcclient.Transport {
	return &loggingTransport{inner: t, log: log}
}

type loggingTransport struct {
	inner jrpcclient.Transport
	log   zerolog.Logger
}

func (t *loggingTransport) NextID() uint64 { return t.inner.NextID() }

func (t *loggingTransport) Send(data []byte) <-chan jrpcclient.SendResult {
	var env struct {
		Method string       `json:"method"`
		ID     *json.Number `json:"id"`
	}

	// The envelope is ours, decode failures can only mean a caller bypassed
	// the request builder.
	_ = json.Unmarshal(data, &env)

	log := t.log.With().Str("method", env.Method).Logger()
	if env.ID != nil {
		log = log.With().Str("id", env.ID.String()).Logger()
	}

	start := time.Now()
	inner := t.inner.Send(data)

	out := make(chan jrpcclient.SendResult, 1)

	go func() {
		res := <-inner

		event := log.Debug()
		if res.Err != nil {
			event = log.Warn().Err(res.Err)
		}

		event.
			Int("requestBytes", len(data)).
			Int("responseBytes", len(res.Data)).
			Dur("duration", time.Since(start)).
			Msg("call finished")

		out <- res
	}()

	return out
}

// Retry wraps t so sends that resolve with a transport error are retried up
// to maxRetries times with exponential backoff starting at baseDelay.
// JSON-RPC error envelopes are responses, not transport failures, and are
// never retried.
func Retry(t jrpcclient.Transport, maxRetries int, baseDelay time.Duration) jrpcclient.Transport {
	return &retryTransport{inner: t, maxRetries: maxRetries, baseDelay: baseDelay}
}

type retryTransport struct {
	inner      jrpcclient.Transport
	maxRetries int
	baseDelay  time.Duration
}

func (t *retryTransport) NextID() uint64 { return t.inner.NextID() }

func (t *retryTransport) Send(data []byte) <-chan jrpcclient.SendResult {
	out := make(chan jrpcclient.SendResult, 1)

	go func() {
		res := <-t.inner.Send(data)

		for attempt := 0; res.Err != nil && attempt < t.maxRetries; attempt++ {
			time.Sleep(t.baseDelay * (1 << attempt)) // Exponential backoff.

			res = <-t.inner.Send(data)
		}

		out <- res
	}()

	return out
}

// RateLimit wraps t so sends wait for the limiter's admission before
// reaching the inner transport. The wait happens on the send operation's own
// goroutine, Send itself stays non-blocking.
func RateLimit(t jrpcclient.Transport, limiter *rate.Limiter) jrpcclient.Transport {
	return &rateLimitTransport{inner: t, limiter: limiter}
}

type rateLimitTransport struct {
	inner   jrpcclient.Transport
	limiter *rate.Limiter
}

func (t *rateLimitTransport) NextID() uint64 { return t.inner.NextID() }

func (t *rateLimitTransport) Send(data []byte) <-chan jrpcclient.SendResult {
	out := make(chan jrpcclient.SendResult, 1)

	go func() {
		if err := t.limiter.Wait(context.Background()); err != nil {
			out <- jrpcclient.SendResult{Err: err}

			return
		}

		out <- <-t.inner.Send(data)
	}()

	return out
}
