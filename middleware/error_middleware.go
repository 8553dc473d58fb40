package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"barhop-server/utils/errors"
)

// RecoveryMiddleware converts panics into a 500 JSON response.
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logrus.WithFields(logrus.Fields{
						"panic": rec,
						"path":  r.URL.Path,
					}).Error("Panic recovered")
					WriteError(w, errors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError is the centralized error responder. Operational errors go out
// as-is; anything else is logged with its details and masked as a 500.
func WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.Wrap(err, "UNKNOWN_ERROR", "Unexpected error", errors.ErrInternal.Status)
	}
	if !apiErr.IsOperational() {
		logrus.WithFields(logrus.Fields{
			"code":    apiErr.Code,
			"details": apiErr.Details,
		}).Error(apiErr.Message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(apiErr)
}
