package rest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/metrics"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/domain"
)

// Result is the canonical shape every successful call collapses to: the
// payload bytes that matter plus whatever pagination the envelope carried.
// Data stays raw so callers decode into their own types with Decode.
type Result struct {
	Data       json.RawMessage
	Pagination *domain.Pagination
}

// Decode unmarshals a Result's data into T. Empty data yields T's zero
// value, which covers bodyless responses like 204.
func Decode[T any](r Result) (T, error) {
	var v T
	if len(r.Data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(r.Data, &v); err != nil {
		return v, fmt.Errorf("decode result: %w", err)
	}
	return v, nil
}

// envelope is one decoded response body plus the pre-parsed fields the
// normalize rules inspect.
type envelope struct {
	raw    []byte
	fields map[string]json.RawMessage
	data   map[string]json.RawMessage

	success     bool
	boolSuccess bool
}

func newEnvelope(raw []byte, fields map[string]json.RawMessage) envelope {
	e := envelope{raw: raw, fields: fields}
	if s, ok := fields["success"]; ok {
		var b bool
		if json.Unmarshal(s, &b) == nil {
			e.success = b
			e.boolSuccess = true
		}
	}
	if d, ok := fields["data"]; ok && isObject(d) {
		var inner map[string]json.RawMessage
		if json.Unmarshal(d, &inner) == nil {
			e.data = inner
		}
	}
	return e
}

func (e envelope) has(key string) bool {
	_, ok := e.fields[key]
	return ok
}

func (e envelope) dataField(key string) json.RawMessage {
	if e.data == nil {
		return nil
	}
	return e.data[key]
}

// ok reports an explicit boolean success=true; failed an explicit false.
// A success field of any other type matches neither.
func (e envelope) ok() bool     { return e.boolSuccess && e.success }
func (e envelope) failed() bool { return e.boolSuccess && !e.success }

func (e envelope) message() string {
	for _, key := range []string{"message", "error"} {
		if m, ok := e.fields[key]; ok {
			var s string
			if json.Unmarshal(m, &s) == nil && s != "" {
				return s
			}
		}
	}
	return "request failed"
}

type normalizeRule struct {
	name    string
	match   func(e envelope) bool
	extract func(e envelope) (Result, error)
}

// normalizeRules is evaluated in order, first match wins. Specific envelope
// shapes sit above the generic fallbacks, so reordering entries changes
// behavior.
var normalizeRules = []normalizeRule{
	{
		name:  "product-list",
		match: func(e envelope) bool { return e.ok() && isArray(e.dataField("products")) },
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.dataField("products"), Pagination: decodePagination(e.dataField("pagination"))}, nil
		},
	},
	{
		name:  "category-list",
		match: func(e envelope) bool { return !e.has("success") && isArray(e.fields["categories"]) },
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.fields["categories"]}, nil
		},
	},
	{
		name:  "order-list",
		match: func(e envelope) bool { return isArray(e.fields["orders"]) },
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.fields["orders"], Pagination: decodePagination(e.fields["pagination"])}, nil
		},
	},
	{
		name: "auth-payload",
		match: func(e envelope) bool {
			return e.ok() && (e.dataField("user") != nil || e.dataField("token") != nil)
		},
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.fields["data"]}, nil
		},
	},
	{
		name:  "wrapped-object",
		match: func(e envelope) bool { return e.ok() && isObject(e.fields["data"]) },
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.fields["data"]}, nil
		},
	},
	{
		name:  "wrapped-any",
		match: func(e envelope) bool { return e.ok() && e.has("data") },
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.fields["data"]}, nil
		},
	},
	{
		name: "bare-payload",
		match: func(e envelope) bool {
			return !e.has("success") && !e.has("error") && !e.has("message")
		},
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.raw}, nil
		},
	},
	{
		name:  "declared-failure",
		match: func(e envelope) bool { return e.failed() },
		extract: func(e envelope) (Result, error) {
			return Result{}, &Error{Kind: KindNormalization, Message: e.message()}
		},
	},
	{
		name:  "passthrough",
		match: func(e envelope) bool { return true },
		extract: func(e envelope) (Result, error) {
			return Result{Data: e.raw}, nil
		},
	},
}

// Normalize reconciles the envelope shapes the upstream API wraps payloads
// in into one canonical Result. It raises only for a payload declaring
// success=false or a body that cannot be decoded at all.
func Normalize(body []byte) (Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Result{}, nil
	}
	if !json.Valid(trimmed) {
		return Result{}, &Error{Kind: KindTransport, Message: "decode response: invalid JSON"}
	}
	if firstByte(trimmed) != '{' {
		// Bare arrays and scalars are already the payload.
		return Result{Data: trimmed}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Result{}, &Error{Kind: KindTransport, Message: "decode response: " + err.Error(), Err: err}
	}
	e := newEnvelope(trimmed, fields)
	for _, rule := range normalizeRules {
		if rule.match(e) {
			metrics.NormalizeHits.WithLabelValues(rule.name).Inc()
			return rule.extract(e)
		}
	}
	return Result{Data: trimmed}, nil
}

func decodePagination(raw json.RawMessage) *domain.Pagination {
	if len(raw) == 0 {
		return nil
	}
	var p domain.Pagination
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

func isArray(raw json.RawMessage) bool  { return firstByte(raw) == '[' }
func isObject(raw json.RawMessage) bool { return firstByte(raw) == '{' }
