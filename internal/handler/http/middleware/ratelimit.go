package middleware

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/go-chi/httprate"
)

// RateLimit allows maxRequests per client IP within window and answers the rest with 429.
func RateLimit(maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		maxRequests,
		window,
		httprate.WithKeyByIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Too many requests from this IP, please try again later.")
		}),
	)
}
