package rest

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"time"
)

// Query holds query-string parameters. Keys with a nil value are omitted
// entirely rather than encoded as empty.
type Query map[string]any

// Encode renders the query string with keys sorted and values URL-encoded.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	vals := url.Values{}
	for key, value := range q {
		if value == nil {
			continue
		}
		vals.Set(key, fmt.Sprint(value))
	}
	return vals.Encode()
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newRequestID mints the id that ties one logical call's attempts together
// in logs: req_<epoch-millis>_<9 random base36 chars>.
func newRequestID(now time.Time) string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = base36[rand.IntN(len(base36))]
	}
	return fmt.Sprintf("req_%d_%s", now.UnixMilli(), b)
}
