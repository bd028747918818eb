// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/go-chi/cors"

	"github.com/crt-lab/chatproxy/internal/config"
	"github.com/crt-lab/chatproxy/pkg/logger"
)

// fixedOrigins are always allowed: the survey platform itself plus local
// development hosts.
var fixedOrigins = []string{
	"https://qualtrics.com",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
}

// CORS returns the cross-origin middleware: the fixed allow-list, one
// configurable extra origin, and any origin matching the configured regex.
// Credentials are allowed because the survey embed sends them.
func CORS(extraOrigin, originRegex string, log *logger.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(fixedOrigins)+1)
	for _, o := range fixedOrigins {
		allowed[o] = true
	}
	if extraOrigin != "" {
		allowed[extraOrigin] = true
	}

	re, err := regexp.Compile(originRegex)
	if err != nil {
		log.Warn("invalid origin regex, falling back to default")
		re = regexp.MustCompile(config.DefaultOriginRegex)
	}

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return allowed[origin] || re.MatchString(origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
