package server

import (
	"net/http"

	"github.com/go-chi/cors"
)

const (
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
		// The endpoint handlers answer OPTIONS themselves.
		OptionsPassthrough: true,
	}
	if len(origins) == 0 {
		// An empty list would otherwise mean "allow all".
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return opts
}

// openCORS allows any origin.
func openCORS(next http.Handler) http.Handler {
	return cors.Handler(corsOptions([]string{"*"}))(relayHeaders(next))
}

// allowListCORS echoes Origin only when it is listed. Other origins get no
// Allow-Origin header but the request is still served.
func allowListCORS(origins []string) func(http.Handler) http.Handler {
	withCORS := cors.Handler(corsOptions(origins))
	return func(next http.Handler) http.Handler {
		return withCORS(relayHeaders(next))
	}
}

// relayHeaders advertises the allowed methods and headers on every response,
// not only on preflights.
func relayHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		next.ServeHTTP(w, r)
	})
}
