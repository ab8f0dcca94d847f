// Package httptransport provides a [jrpcclient.Transport] that posts each
// request to a JSON-RPC endpoint over HTTP.
//
// Every call is a single POST with its own response body, so no correlation
// beyond the HTTP exchange itself is needed and any number of calls may be
// outstanding at once. Timeouts, proxies and connection pooling are
// configured on the *http.Client, see [WithHTTPClient].
package httptransport

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync/atomic"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
)

const contentType = "application/json"

// Transport is an HTTP POST transport. Create one with [New].
//
// Is safe for concurrent use.
type Transport struct {
	url     string
	client  *http.Client
	headers http.Header
	log     zerolog.Logger

	seq atomic.Uint64
}

// Option configures a [Transport].
type Option func(*Transport)

// WithHTTPClient sets the *http.Client used for requests. Defaults to
// http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.client = c }
}

// WithLogger sets the logger used for request tracing. Defaults to a no-op
// logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) { t.log = log }
}

// WithHeader adds a header to every request, e.g. for authentication.
func WithHeader(key, value string) Option {
	return func(t *Transport) { t.headers.Add(key, value) }
}

// New creates a transport posting to url.
func New(url string, opts ...Option) *Transport {
	t := &Transport{
		url:     url,
		client:  http.DefaultClient,
		headers: make(http.Header),
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	// Tag every log line with this instance, transports are often shared.
	t.log = t.log.With().Str("transport", xid.New().String()).Str("url", url).Logger()

	return t
}

// NextID implements [jrpcclient.Transport]. Ids are allocated from 1.
func (t *Transport) NextID() uint64 {
	return t.seq.Add(1)
}

// Send implements [jrpcclient.Transport]. The POST runs on its own goroutine
// and the returned channel resolves with the response body or the HTTP
// failure.
func (t *Transport) Send(data []byte) <-chan jrpcclient.SendResult {
	ch := make(chan jrpcclient.SendResult, 1)

	go func() {
		body, err := t.post(data)
		if err != nil {
			t.log.Trace().Err(err).Msg("request failed")
		}

		ch <- jrpcclient.SendResult{Data: body, Err: err}
	}()

	return ch
}

func (t *Transport) post(data []byte) ([]byte, error) {
	t.log.Trace().Int("bytes", len(data)).Msg("sending request")

	req, err := http.NewRequest(http.MethodPost, t.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)

	for key, values := range t.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	// A non-JSON body is a proxy error page or similar, not a response
	// envelope worth handing to the parser.
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		media, _, err := mime.ParseMediaType(ct)
		if err != nil || media != contentType {
			return nil, fmt.Errorf("unexpected HTTP content type %q", ct)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTTP response body: %w", err)
	}

	t.log.Trace().Int("bytes", len(body)).Msg("received response")

	return body, nil
}
