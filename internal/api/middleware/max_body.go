package middleware

import (
	"fmt"
	"net/http"

	"github.com/brightpath-learning/brightpath/internal/api"
)

// MaxBodyBytes rejects oversized bodies. Declared lengths over the limit
// are refused up front; chunked bodies are capped by a MaxBytesReader so
// handlers see a read error instead of an unbounded body.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", limit))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
