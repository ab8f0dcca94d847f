// Command jrpc-call makes ad-hoc JSON-RPC 2.0 calls from the command line:
//
//	jrpc-call --url http://localhost:8080/rpc fizz_buzz '[3]'
//	jrpc-call --config endpoints.yaml --endpoint node eth_blockNumber
//
// Params are given as a JSON value and go through the standard mapping:
// arrays are positional, objects named, a bare scalar becomes a one-element
// array, and omitting the argument sends no params at all.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
	"github.com/kytnacode/go-jrpc-client/httptransport"
	"github.com/kytnacode/go-jrpc-client/wstransport"
)

// Exit codes per error kind, so scripts can tell a remote error from a
// broken endpoint.
const (
	exitSerialize = 2
	exitRPCError  = 3
	exitResponse  = 4
	exitTransport = 5
)

type endpointsFile struct {
	Endpoints map[string]endpoint `yaml:"endpoints"`
}

type endpoint struct {
	URL       string `yaml:"url"`
	WebSocket bool   `yaml:"websocket"`
}

type options struct {
	url        string
	websocket  bool
	configPath string
	endpoint   string
	timeout    time.Duration
	verbose    bool
}

func main() {
	var opts options

	root := &cobra.Command{
		Use:   "jrpc-call METHOD [PARAMS]",
		Short: "Make an ad-hoc JSON-RPC 2.0 call",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return run(cmd.Context(), opts, args)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.url, "url", "u", "", "endpoint URL (http, https, ws or wss)")
	flags.BoolVarP(&opts.websocket, "websocket", "w", false, "use the WebSocket transport")
	flags.StringVarP(&opts.configPath, "config", "c", "", "endpoints YAML file")
	flags.StringVarP(&opts.endpoint, "endpoint", "e", "", "named endpoint from the config file")
	flags.DurationVarP(&opts.timeout, "timeout", "t", 30*time.Second, "overall call timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable transport tracing")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, args []string) error {
	log := newLogger(opts.verbose)

	opts, err := resolveEndpoint(opts)
	if err != nil {
		return err
	}

	method := args[0]

	var params any
	if len(args) == 2 {
		params = rawParams(args[1])
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	t, closeTransport, err := newTransport(ctx, opts, log)
	if err != nil {
		return err
	}
	defer closeTransport()

	result, err := jrpcclient.Go[rawParams](t, method, params).Wait(ctx)
	if err != nil {
		report(log, err)
	}

	fmt.Println(string(result))

	return nil
}

// rawParams passes a user-supplied JSON value through serialization
// untouched in both directions.
type rawParams []byte

func (p rawParams) MarshalJSON() ([]byte, error) { return p, nil }

func (p *rawParams) UnmarshalJSON(data []byte) error {
	*p = append((*p)[:0], data...)

	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.TraceLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// resolveEndpoint fills url and websocket from the config file when a named
// endpoint is requested.
func resolveEndpoint(opts options) (options, error) {
	if opts.endpoint == "" {
		if opts.url == "" {
			return opts, errors.New("either --url or --config with --endpoint is required")
		}

		return opts, nil
	}

	if opts.configPath == "" {
		return opts, errors.New("--endpoint requires --config")
	}

	data, err := os.ReadFile(opts.configPath)
	if err != nil {
		return opts, fmt.Errorf("failed to read config: %w", err)
	}

	var file endpointsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return opts, fmt.Errorf("failed to parse config: %w", err)
	}

	ep, ok := file.Endpoints[opts.endpoint]
	if !ok {
		return opts, fmt.Errorf("endpoint %q not found in %v", opts.endpoint, opts.configPath)
	}

	opts.url = ep.URL
	opts.websocket = ep.WebSocket

	return opts, nil
}

func newTransport(ctx context.Context, opts options, log zerolog.Logger) (jrpcclient.Transport, func(), error) {
	if opts.websocket {
		t, err := wstransport.Dial(ctx, opts.url, wstransport.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}

		return t, func() { _ = t.Close() }, nil
	}

	return httptransport.New(opts.url, httptransport.WithLogger(log)), func() {}, nil
}

// report prints the classified failure and exits with its kind's code.
func report(log zerolog.Logger, err error) {
	var (
		rpcErr       *jrpcclient.Error
		serializeErr *jrpcclient.SerializeError
		responseErr  *jrpcclient.ResponseError
	)

	switch {
	case errors.As(err, &rpcErr):
		log.Error().Int("code", rpcErr.Code).Str("data", string(rpcErr.Data)).Msg(rpcErr.Message)
		os.Exit(exitRPCError)
	case errors.As(err, &serializeErr):
		log.Error().Err(err).Msg("invalid params")
		os.Exit(exitSerialize)
	case errors.As(err, &responseErr):
		log.Error().Err(err).Msg("malformed response")
		os.Exit(exitResponse)
	default:
		log.Error().Err(err).Msg("transport failure")
		os.Exit(exitTransport)
	}
}
