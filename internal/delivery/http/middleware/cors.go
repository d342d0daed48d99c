package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const corsMaxAge = 86400

// CORS returns a handler that adds CORS headers for allowed origins and answers preflight requests.
// Credentials are allowed so the session cookie reaches the API from the browser.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}
