package rest

import (
	"errors"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status  int
		message string
		expect  Kind
	}{
		{401, "Not authorized, token failed", KindAuth},
		{401, "", KindAuth},
		{403, "token expired", KindAuth},
		{403, "invalid credentials", KindAuth},
		{403, "admins only", KindClient},
		{400, "Product name is required", KindClient},
		{404, "Product not found", KindClient},
		{422, "invalid payload", KindClient},
		{429, "Too many requests", KindServer},
		{500, "Internal Server Error", KindServer},
		{502, "Bad Gateway", KindServer},
		{503, "Service Unavailable", KindServer},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status, tt.message); got != tt.expect {
			t.Errorf("classifyStatus(%d, %q) = %v, want %v", tt.status, tt.message, got, tt.expect)
		}
	}
}

func TestKindRetryable(t *testing.T) {
	tests := []struct {
		kind   Kind
		expect bool
	}{
		{KindTransport, true},
		{KindServer, true},
		{KindClient, false},
		{KindAuth, false},
		{KindValidation, false},
		{KindNormalization, false},
	}

	for _, tt := range tests {
		if got := tt.kind.Retryable(); got != tt.expect {
			t.Errorf("Kind(%q).Retryable() = %v, want %v", tt.kind, got, tt.expect)
		}
	}
}

func TestClassifyForeignError(t *testing.T) {
	if got := Classify(errors.New("connection reset by peer")); got != KindTransport {
		t.Errorf("Classify(foreign) = %v, want %v", got, KindTransport)
	}
	if got := Classify(&Error{Kind: KindAuth}); got != KindAuth {
		t.Errorf("Classify(*Error) = %v, want %v", got, KindAuth)
	}
}

func TestAsError(t *testing.T) {
	base := &Error{Kind: KindClient, Message: "not found", StatusCode: 404}
	if e, ok := AsError(base); !ok || e.StatusCode != 404 {
		t.Fatalf("AsError(base) = %v, %v", e, ok)
	}
	if _, ok := AsError(errors.New("plain")); ok {
		t.Fatal("AsError(plain) should not match")
	}
}
