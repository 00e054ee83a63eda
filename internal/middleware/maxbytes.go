package middleware

import "net/http"

// DefaultMaxBodyBytes caps request bodies at 1 MiB. Message payloads are a
// few hundred bytes at most, so the cap only exists to bound abuse.
const DefaultMaxBodyBytes = 1 << 20

// MaxBytes wraps the request body in an http.MaxBytesReader so a read past
// the limit fails with 413. Mount it on the routes that accept a body.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
