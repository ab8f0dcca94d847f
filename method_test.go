package jrpcclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
	"github.com/kytnacode/go-jrpc-client/internal/test"
)

func TestMethod_CallShouldDispatchOnce(t *testing.T) {
	t.Parallel()

	tr := test.Echo()

	ping := jrpcclient.NewMethod[string, map[string]any]("ping")

	result, err := ping.Call(tr, "Hello").Wait(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := result["method"]; got != "ping" {
		t.Errorf(`expected method "ping", got %v`, got)
	}

	if sent := tr.Sent(); len(sent) != 1 {
		t.Errorf("expected exactly one request per invocation, got %d", len(sent))
	}
}

func TestNoArgs_ShouldOmitParams(t *testing.T) {
	t.Parallel()

	tr := test.Echo()

	version := jrpcclient.NewMethod[jrpcclient.NoArgs, map[string]any]("version")

	result, err := version.Call(tr, jrpcclient.NoArgs{}).Wait(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, ok := result["params"]; ok {
		t.Errorf("expected no params field in the request, got %v", result["params"])
	}
}

func TestNoResult_ShouldAcceptAnyResultValue(t *testing.T) {
	t.Parallel()

	for name, resp := range map[string]string{
		"null result":   `{"jsonrpc":"2.0","id":1,"result":null}`,
		"string result": `{"jsonrpc":"2.0","id":1,"result":"OK"}`,
		"object result": `{"jsonrpc":"2.0","id":1,"result":{"ignored":true}}`,
	} {
		resp := resp

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tr := test.Canned(resp)

			reset := jrpcclient.NewMethod[jrpcclient.NoArgs, jrpcclient.NoResult]("reset")

			if _, err := reset.Call(tr, jrpcclient.NoArgs{}).Wait(context.Background()); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestNoResult_MissingResultShouldStillFail(t *testing.T) {
	t.Parallel()

	tr := test.Canned(`{"jsonrpc":"2.0","id":1}`)

	reset := jrpcclient.NewMethod[jrpcclient.NoArgs, jrpcclient.NoResult]("reset")

	_, err := reset.Call(tr, jrpcclient.NoArgs{}).Wait(context.Background())

	var respErr *jrpcclient.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected a *jrpcclient.ResponseError, got %T: %v", err, err)
	}
}

func TestMethod_ResultShouldBeTyped(t *testing.T) {
	t.Parallel()

	type user struct {
		Name  string `json:"name"`
		Admin bool   `json:"admin"`
	}

	tr := test.Canned(`{"jsonrpc":"2.0","id":1,"result":{"name":"ada","admin":true}}`)

	getUser := jrpcclient.NewMethod[string, user]("get_user")

	got, err := getUser.Call(tr, "ada").Wait(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got.Name != "ada" || !got.Admin {
		t.Errorf(`expected user {ada true}, got %+v`, got)
	}

	// The request must be a positional single-element call.
	var req struct {
		Params *json.RawMessage `json:"params"`
	}

	if err := json.Unmarshal(tr.Sent()[0], &req); err != nil {
		t.Fatalf("request is not valid JSON: %v", err)
	}

	if req.Params == nil || string(*req.Params) != `["ada"]` {
		t.Errorf(`expected params ["ada"], got %v`, req.Params)
	}
}
