package rest

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestQueryEncode(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"nil values omitted", Query{"a": 1, "b": nil, "c": "x y"}, "a=1&c=x+y"},
		{"empty", Query{}, ""},
		{"nil map", nil, ""},
		{"zero values kept", Query{"page": 0, "active": false, "q": ""}, "active=false&page=0&q="},
		{"escaping", Query{"q": "50% off & more"}, "q=50%25+off+%26+more"},
	}

	for _, tt := range tests {
		if got := tt.query.Encode(); got != tt.want {
			t.Errorf("%s: Encode() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewRequestID(t *testing.T) {
	now := time.UnixMilli(1712345678901)
	id := newRequestID(now)

	pattern := regexp.MustCompile(`^req_(\d+)_([0-9a-z]{9})$`)
	m := pattern.FindStringSubmatch(id)
	if m == nil {
		t.Fatalf("id %q does not match req_<millis>_<base36x9>", id)
	}
	millis, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || millis != 1712345678901 {
		t.Errorf("millis = %s", m[1])
	}

	other := newRequestID(now)
	if other == id {
		t.Errorf("two ids collided: %q", id)
	}
}

func TestValidateRequired(t *testing.T) {
	params := map[string]any{
		"name":     "Hat",
		"price":    0,
		"featured": false,
		"slug":     "",
		"category": nil,
	}

	if err := ValidateRequired(params, "name", "price", "featured"); err != nil {
		t.Errorf("falsy-but-present values must pass: %v", err)
	}

	err := ValidateRequired(params, "name", "slug", "category", "sku")
	if err == nil {
		t.Fatal("expected error")
	}
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != KindValidation {
		t.Errorf("kind = %v, want %v", e.Kind, KindValidation)
	}
	if e.Retryable() {
		t.Error("validation failures must be terminal")
	}
	for _, key := range []string{"slug", "category", "sku"} {
		if !strings.Contains(e.Message, key) {
			t.Errorf("message %q should name %q", e.Message, key)
		}
	}
	if strings.Contains(e.Message, "name") {
		t.Errorf("message %q names a present key", e.Message)
	}
}

func TestSanitizeBody(t *testing.T) {
	in := map[string]any{
		"name":     "Hat",
		"discount": 0,
		"featured": false,
		"notes":    "",
		"parent":   nil,
	}

	out := SanitizeBody(in)
	if _, ok := out["parent"]; ok {
		t.Error("nil-valued key retained")
	}
	if out["discount"] != 0 || out["featured"] != false || out["notes"] != "" {
		t.Errorf("falsy values changed: %+v", out)
	}
	if out["name"] != "Hat" {
		t.Errorf("name = %v", out["name"])
	}
	if _, ok := in["parent"]; !ok {
		t.Error("input map was mutated")
	}

	if SanitizeBody(nil) != nil {
		t.Error("nil body should stay nil")
	}
}
