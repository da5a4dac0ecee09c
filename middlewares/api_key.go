package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/advocatehq/causelist-http-service/common/utils"
	"github.com/rs/zerolog/log"
)

// ApiKey guards a route group with a static backend key carried in the
// X-API-KEY header. An empty configured key disables the check, which
// is the local development default.
func ApiKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-KEY")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				log.Warn().Str("path", r.URL.Path).Msg("Rejected request with invalid API key")
				utils.WriteError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
