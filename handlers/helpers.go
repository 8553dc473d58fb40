package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"barhop-server/store"
	"barhop-server/utils/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// listOptions reads limit and skip query parameters, falling back to the
// store defaults when absent.
func listOptions(r *http.Request) (store.ListOptions, *errors.APIError) {
	opts := store.ListOptions{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			return opts, errors.ErrInvalidInput
		}
		opts.Limit = limit
	}
	if raw := r.URL.Query().Get("skip"); raw != "" {
		skip, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || skip < 0 {
			return opts, errors.ErrInvalidInput
		}
		opts.Skip = skip
	}
	return opts, nil
}

func queryFloat(r *http.Request, name string) (float64, bool, *errors.APIError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errors.ErrInvalidInput
	}
	return v, true, nil
}
