package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"barhop-server/models"
	"barhop-server/store"
	"barhop-server/utils/errors"
)

type BarService struct {
	bars  store.BarStore
	users store.UserStore
	log   *logrus.Entry
}

func NewBarService(bars store.BarStore, users store.UserStore) *BarService {
	return &BarService{
		bars:  bars,
		users: users,
		log:   logrus.WithField("component", "bar-service"),
	}
}

func (s *BarService) Create(ctx context.Context, name, placeID string, latitude, longitude float64) (*models.Bar, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, errors.ErrInvalidInput
	}
	bar := &models.Bar{
		ID:        uuid.New().String(),
		Name:      name,
		PlaceID:   placeID,
		Location:  models.NewGeoPoint(longitude, latitude),
		Followers: []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.bars.Insert(ctx, bar); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to create bar", http.StatusInternalServerError)
	}
	s.log.WithFields(logrus.Fields{"bar_id": bar.ID, "name": name}).Info("Bar created")
	return bar, nil
}

func (s *BarService) Get(ctx context.Context, id string) (*models.Bar, error) {
	bar, err := s.bars.Get(ctx, id)
	if err == store.ErrNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to load bar", http.StatusInternalServerError)
	}
	return bar, nil
}

func (s *BarService) List(ctx context.Context, opts store.ListOptions) ([]models.Bar, error) {
	bars, err := s.bars.List(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to list bars", http.StatusInternalServerError)
	}
	return bars, nil
}

func (s *BarService) Search(ctx context.Context, keyword string) ([]models.Bar, error) {
	bars, err := s.bars.Search(ctx, keyword)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to search bars", http.StatusInternalServerError)
	}
	return bars, nil
}

// GeoSearch returns bars matching the keyword within maxDistanceKm of the
// point; both predicates apply. The store answers the radius part, the
// keyword is filtered over its hits.
func (s *BarService) GeoSearch(ctx context.Context, keyword string, latitude, longitude, maxDistanceKm float64) ([]models.Bar, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, errors.ErrInvalidInput
	}
	hits, err := s.bars.GeoSearch(ctx, latitude, longitude, maxDistanceKm)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to search bars", http.StatusInternalServerError)
	}
	keyword = strings.ToLower(keyword)
	bars := []models.Bar{}
	for _, bar := range hits {
		if strings.Contains(strings.ToLower(bar.Name), keyword) {
			bars = append(bars, bar)
		}
	}
	return bars, nil
}

// Delete removes the bar, then drops its id from every user's followingBars.
func (s *BarService) Delete(ctx context.Context, id string) (*models.Bar, error) {
	bar, err := s.bars.Delete(ctx, id)
	if err == store.ErrNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to delete bar", http.StatusInternalServerError)
	}
	if err := s.users.PullFollowingBar(ctx, id); err != nil {
		s.log.WithError(err).WithField("bar_id", id).Error("Failed to clean followingBars back-references")
	}
	s.log.WithField("bar_id", id).Info("Bar deleted")
	return bar, nil
}
