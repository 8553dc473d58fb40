package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barhop-server/models"
)

func TestCreateBarEndpoint(t *testing.T) {
	env := newTestEnv(t, "")

	bar := env.createBar(t, "Pub", 40.0, -73.0)
	assert.NotEmpty(t, bar["id"])
	assert.Equal(t, "Pub", bar["name"])
	assert.Equal(t, "place-Pub", bar["placeId"])
}

func TestCreateBarValidation(t *testing.T) {
	env := newTestEnv(t, "")

	// Missing coordinates.
	rec := env.do(t, http.MethodPost, "/bars", "", map[string]any{
		"name":    "Pub",
		"placeId": "p1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Zero is a valid coordinate and must pass.
	rec = env.do(t, http.MethodPost, "/bars", "", map[string]any{
		"name":      "Null Island Bar",
		"placeId":   "p0",
		"latitude":  0.0,
		"longitude": 0.0,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Out-of-range latitude.
	rec = env.do(t, http.MethodPost, "/bars", "", map[string]any{
		"name":      "Pub",
		"placeId":   "p1",
		"latitude":  91.0,
		"longitude": 0.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBarGeoSearchEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	env.createBar(t, "Pub", 40.0, -73.0)
	env.createBar(t, "Wine Cellar", 40.0, -73.0)

	var bars []models.Bar
	rec := env.do(t, http.MethodGet, "/bars/search?keyword=Pub&latitude=40.0&longitude=-73.0&maxDistance=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &bars)
	require.Len(t, bars, 1)
	assert.Equal(t, "Pub", bars[0].Name)

	// Far-away point with a tiny radius returns an empty set, not an error.
	rec = env.do(t, http.MethodGet, "/bars/search?keyword=Pub&latitude=1.35&longitude=103.8&maxDistance=0.001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bars = nil
	decodeBody(t, rec, &bars)
	assert.Empty(t, bars)
}

func TestBarSearchParameterRules(t *testing.T) {
	env := newTestEnv(t, "")
	env.createBar(t, "Pub", 40.0, -73.0)

	// Keyword alone is a plain keyword search.
	var bars []models.Bar
	rec := env.do(t, http.MethodGet, "/bars/search?keyword=pub", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &bars)
	assert.Len(t, bars, 1)

	// Missing keyword is invalid.
	rec = env.do(t, http.MethodGet, "/bars/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A partial set of geo parameters is invalid.
	rec = env.do(t, http.MethodGet, "/bars/search?keyword=pub&latitude=40.0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/bars/search?keyword=pub&latitude=abc&longitude=-73.0&maxDistance=5", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBarListPaginationEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	for _, name := range []string{"A", "B", "C", "D"} {
		env.createBar(t, name, 40.0, -73.0)
	}

	var first, second []models.Bar
	rec := env.do(t, http.MethodGet, "/bars?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &first)
	rec = env.do(t, http.MethodGet, "/bars?limit=2&skip=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &second)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, []string{"A", "B"}, []string{first[0].Name, first[1].Name})
	assert.Equal(t, []string{"C", "D"}, []string{second[0].Name, second[1].Name})

	rec = env.do(t, http.MethodGet, "/bars?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBarEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	bar := env.createBar(t, "Pub", 40.0, -73.0)
	barID := bar["id"].(string)

	// Deletion requires no credentials.
	rec := env.do(t, http.MethodDelete, "/bars/"+barID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted models.Bar
	decodeBody(t, rec, &deleted)
	assert.Equal(t, barID, deleted.ID)

	rec = env.do(t, http.MethodGet, "/bars/"+barID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBarNotFound(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, http.MethodGet, "/bars/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
