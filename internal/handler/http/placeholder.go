package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
)

// ComingSoon answers a resource that has no implementation yet. It sits behind authentication
// like the real resources do.
func ComingSoon(resource string) http.HandlerFunc {
	message := resource + " endpoint - coming soon"
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFrom(w, r); !ok {
			return
		}
		response.Success(w, message, []struct{}{})
	}
}
