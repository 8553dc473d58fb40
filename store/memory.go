package store

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"barhop-server/models"
)

// MemoryUserStore is the in-process driver: map plus insertion order, guarded
// by a single mutex. Backs STORE_DRIVER=memory and the test suites.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
	order []string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[string]*models.User{}}
}

func (s *MemoryUserStore) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = cloneUser(user)
	s.order = append(s.order, user.ID)
	return nil
}

func (s *MemoryUserStore) Get(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

func (s *MemoryUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.users[id].Username == username {
			return cloneUser(s.users[id]), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) List(_ context.Context, opts ListOptions) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, id := range page(s.order, opts) {
		users = append(users, *cloneUser(s.users[id]))
	}
	return users, nil
}

func (s *MemoryUserStore) Search(_ context.Context, keyword string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keyword = strings.ToLower(keyword)
	users := []models.User{}
	for _, id := range s.order {
		if strings.Contains(strings.ToLower(s.users[id].Username), keyword) {
			users = append(users, *cloneUser(s.users[id]))
		}
	}
	return users, nil
}

func (s *MemoryUserStore) UpdateUsername(_ context.Context, id, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.Username = username
	return cloneUser(user), nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return user, nil
}

func (s *MemoryUserStore) AddFollowing(_ context.Context, id, targetID string) error {
	return s.mutate(id, func(u *models.User) { u.Following = addToSet(u.Following, targetID) })
}

func (s *MemoryUserStore) RemoveFollowing(_ context.Context, id, targetID string) error {
	return s.mutate(id, func(u *models.User) { u.Following = pull(u.Following, targetID) })
}

func (s *MemoryUserStore) AddFollower(_ context.Context, id, followerID string) error {
	return s.mutate(id, func(u *models.User) { u.Followers = addToSet(u.Followers, followerID) })
}

func (s *MemoryUserStore) RemoveFollower(_ context.Context, id, followerID string) error {
	return s.mutate(id, func(u *models.User) { u.Followers = pull(u.Followers, followerID) })
}

func (s *MemoryUserStore) AddFavTeam(_ context.Context, id, teamID string) error {
	return s.mutate(id, func(u *models.User) { u.FavTeams = addToSet(u.FavTeams, teamID) })
}

func (s *MemoryUserStore) RemoveFavTeam(_ context.Context, id, teamID string) error {
	return s.mutate(id, func(u *models.User) { u.FavTeams = pull(u.FavTeams, teamID) })
}

func (s *MemoryUserStore) AddFollowingBar(_ context.Context, id, barID string) error {
	return s.mutate(id, func(u *models.User) { u.FollowingBars = addToSet(u.FollowingBars, barID) })
}

func (s *MemoryUserStore) RemoveFollowingBar(_ context.Context, id, barID string) error {
	return s.mutate(id, func(u *models.User) { u.FollowingBars = pull(u.FollowingBars, barID) })
}

func (s *MemoryUserStore) PullUserRefs(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		u.Following = pull(u.Following, userID)
		u.Followers = pull(u.Followers, userID)
	}
	return nil
}

func (s *MemoryUserStore) PullFollowingBar(_ context.Context, barID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		u.FollowingBars = pull(u.FollowingBars, barID)
	}
	return nil
}

func (s *MemoryUserStore) mutate(id string, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(user)
	return nil
}

// MemoryBarStore mirrors MemoryUserStore for bars; radius queries compute
// haversine distances directly instead of going through Redis.
type MemoryBarStore struct {
	mu    sync.RWMutex
	bars  map[string]*models.Bar
	order []string
}

func NewMemoryBarStore() *MemoryBarStore {
	return &MemoryBarStore{bars: map[string]*models.Bar{}}
}

func (s *MemoryBarStore) Insert(_ context.Context, bar *models.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars[bar.ID] = cloneBar(bar)
	s.order = append(s.order, bar.ID)
	return nil
}

func (s *MemoryBarStore) Get(_ context.Context, id string) (*models.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bar, ok := s.bars[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBar(bar), nil
}

func (s *MemoryBarStore) List(_ context.Context, opts ListOptions) ([]models.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bars := []models.Bar{}
	for _, id := range page(s.order, opts) {
		bars = append(bars, *cloneBar(s.bars[id]))
	}
	return bars, nil
}

func (s *MemoryBarStore) Search(_ context.Context, keyword string) ([]models.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keyword = strings.ToLower(keyword)
	bars := []models.Bar{}
	for _, id := range s.order {
		if strings.Contains(strings.ToLower(s.bars[id].Name), keyword) {
			bars = append(bars, *cloneBar(s.bars[id]))
		}
	}
	return bars, nil
}

func (s *MemoryBarStore) Delete(_ context.Context, id string) (*models.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bar, ok := s.bars[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.bars, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return bar, nil
}

func (s *MemoryBarStore) AddFollower(_ context.Context, id, userID string) error {
	return s.mutate(id, func(b *models.Bar) { b.Followers = addToSet(b.Followers, userID) })
}

func (s *MemoryBarStore) RemoveFollower(_ context.Context, id, userID string) error {
	return s.mutate(id, func(b *models.Bar) { b.Followers = pull(b.Followers, userID) })
}

func (s *MemoryBarStore) PullFollower(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bars {
		b.Followers = pull(b.Followers, userID)
	}
	return nil
}

func (s *MemoryBarStore) GeoSearch(_ context.Context, latitude, longitude, maxDistanceKm float64) ([]models.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type hit struct {
		bar  models.Bar
		dist float64
	}
	hits := []hit{}
	for _, id := range s.order {
		bar := s.bars[id]
		d := haversineKm(latitude, longitude, bar.Location.Latitude(), bar.Location.Longitude())
		if d <= maxDistanceKm {
			hits = append(hits, hit{bar: *cloneBar(bar), dist: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	if len(hits) > geoSearchLimit {
		hits = hits[:geoSearchLimit]
	}
	bars := []models.Bar{}
	for _, h := range hits {
		bars = append(bars, h.bar)
	}
	return bars, nil
}

func (s *MemoryBarStore) mutate(id string, fn func(*models.Bar)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bar, ok := s.bars[id]
	if !ok {
		return ErrNotFound
	}
	fn(bar)
	return nil
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func page(order []string, opts ListOptions) []string {
	skip := opts.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(order)) {
		return nil
	}
	end := skip + opts.limit()
	if end > int64(len(order)) {
		end = int64(len(order))
	}
	return order[skip:end]
}

func addToSet(set []string, id string) []string {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func pull(set []string, id string) []string {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.FavTeams = append([]string{}, u.FavTeams...)
	c.Following = append([]string{}, u.Following...)
	c.Followers = append([]string{}, u.Followers...)
	c.FollowingBars = append([]string{}, u.FollowingBars...)
	return &c
}

func cloneBar(b *models.Bar) *models.Bar {
	c := *b
	c.Followers = append([]string{}, b.Followers...)
	c.Location.Coordinates = append([]float64{}, b.Location.Coordinates...)
	return &c
}
