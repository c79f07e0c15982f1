package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/mhasan/chatwave/internal/config"
)

// Recover converts panics into a JSON 500. Outside production the body
// also carries the stack trace.
func Recover(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()
					log.Printf("ERROR [middleware.Recover] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, stack)

					body := map[string]string{
						"message": fmt.Sprintf("%v", rec),
					}
					if !cfg.IsProduction() {
						body["stack"] = string(stack)
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
