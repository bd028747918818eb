package middleware

import (
	"net/http"
	"strings"
)

// AllowIframe rewrites response headers so the front-end can be embedded in
// third-party survey iframes: X-Frame-Options is forced permissive and any
// frame-ancestors directive is stripped from the Content-Security-Policy.
func AllowIframe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&iframeWriter{ResponseWriter: w}, r)
	})
}

type iframeWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *iframeWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		rewriteFrameHeaders(w.Header())
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *iframeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func rewriteFrameHeaders(h http.Header) {
	h.Set("X-Frame-Options", "ALLOWALL")

	csp := h.Get("Content-Security-Policy")
	if csp == "" {
		return
	}
	var kept []string
	for _, directive := range strings.Split(csp, ";") {
		if strings.Contains(strings.ToLower(directive), "frame-ancestors") {
			continue
		}
		kept = append(kept, directive)
	}
	h.Set("Content-Security-Policy", strings.Join(kept, ";"))
}
