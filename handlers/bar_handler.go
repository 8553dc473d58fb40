package handlers

import (
	"net/http"

	"barhop-server/middleware"
	"barhop-server/services"
	"barhop-server/utils/errors"
	"barhop-server/utils/validation"
)

type BarHandler struct {
	bars *services.BarService
}

func NewBarHandler(bars *services.BarService) *BarHandler {
	return &BarHandler{bars: bars}
}

func (h *BarHandler) ListBars(w http.ResponseWriter, r *http.Request) {
	opts, apiErr := listOptions(r)
	if apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	bars, err := h.bars.List(r.Context(), opts)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bars)
}

func (h *BarHandler) CreateBar(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string   `json:"name" validate:"required,min=1,max=128"`
		PlaceID   string   `json:"placeId" validate:"required"`
		Latitude  *float64 `json:"latitude" validate:"required"`
		Longitude *float64 `json:"longitude" validate:"required"`
	}
	if apiErr := validation.DecodeAndValidate(r, &input); apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	bar, err := h.bars.Create(r.Context(), input.Name, input.PlaceID, *input.Latitude, *input.Longitude)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bar)
}

// SearchBars filters by keyword, and additionally by distance when the
// latitude, longitude and maxDistance (km) query parameters are present.
// A partial set of geo parameters is invalid.
func (h *BarHandler) SearchBars(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	lat, hasLat, apiErr := queryFloat(r, "latitude")
	if apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	lon, hasLon, apiErr := queryFloat(r, "longitude")
	if apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	maxDistance, hasDist, apiErr := queryFloat(r, "maxDistance")
	if apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}

	if !hasLat && !hasLon && !hasDist {
		bars, err := h.bars.Search(r.Context(), keyword)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bars)
		return
	}
	if !hasLat || !hasLon || !hasDist {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	bars, err := h.bars.GeoSearch(r.Context(), keyword, lat, lon, maxDistance)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bars)
}

func (h *BarHandler) GetBar(w http.ResponseWriter, r *http.Request) {
	bar, ok := middleware.BarFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, bar)
}

func (h *BarHandler) DeleteBar(w http.ResponseWriter, r *http.Request) {
	bar, ok := middleware.BarFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	deleted, err := h.bars.Delete(r.Context(), bar.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
