package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barhop-server/models"
)

func seedUsers(t *testing.T, s *MemoryUserStore, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("user-%d", i)
		err := s.Insert(context.Background(), &models.User{
			ID:       id,
			Username: fmt.Sprintf("user%d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestMemoryUserStoreGet(t *testing.T) {
	s := NewMemoryUserStore()
	ids := seedUsers(t, s, 3)

	user, err := s.Get(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Equal(t, "user1", user.Username)

	_, err = s.Get(context.Background(), "no-such-id")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryUserStoreListPagination(t *testing.T) {
	s := NewMemoryUserStore()
	ids := seedUsers(t, s, 5)

	first, err := s.List(context.Background(), ListOptions{Limit: 2})
	require.NoError(t, err)
	second, err := s.List(context.Background(), ListOptions{Limit: 2, Skip: 2})
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	// Consecutive pages are disjoint and cover the first four documents in
	// insertion order.
	assert.Equal(t, []string{ids[0], ids[1]}, []string{first[0].ID, first[1].ID})
	assert.Equal(t, []string{ids[2], ids[3]}, []string{second[0].ID, second[1].ID})
}

func TestMemoryUserStoreListDefaults(t *testing.T) {
	s := NewMemoryUserStore()
	seedUsers(t, s, 3)

	users, err := s.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 3)

	users, err = s.List(context.Background(), ListOptions{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMemoryUserStoreSearch(t *testing.T) {
	s := NewMemoryUserStore()
	require.NoError(t, s.Insert(context.Background(), &models.User{ID: "a", Username: "BeerLover"}))
	require.NoError(t, s.Insert(context.Background(), &models.User{ID: "b", Username: "wino"}))

	hits, err := s.Search(context.Background(), "beer")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)

	hits, err = s.Search(context.Background(), "nomatch")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryUserStoreSetOpsIdempotent(t *testing.T) {
	s := NewMemoryUserStore()
	seedUsers(t, s, 2)
	ctx := context.Background()

	require.NoError(t, s.AddFollowing(ctx, "user-0", "user-1"))
	require.NoError(t, s.AddFollowing(ctx, "user-0", "user-1"))
	user, err := s.Get(ctx, "user-0")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, user.Following)

	require.NoError(t, s.RemoveFollowing(ctx, "user-0", "user-1"))
	require.NoError(t, s.RemoveFollowing(ctx, "user-0", "user-1"))
	user, err = s.Get(ctx, "user-0")
	require.NoError(t, err)
	assert.Empty(t, user.Following)

	assert.Equal(t, ErrNotFound, s.AddFollowing(ctx, "ghost", "user-1"))
}

func TestMemoryUserStorePullRefs(t *testing.T) {
	s := NewMemoryUserStore()
	seedUsers(t, s, 3)
	ctx := context.Background()

	require.NoError(t, s.AddFollowing(ctx, "user-0", "user-2"))
	require.NoError(t, s.AddFollower(ctx, "user-1", "user-2"))
	require.NoError(t, s.PullUserRefs(ctx, "user-2"))

	u0, _ := s.Get(ctx, "user-0")
	u1, _ := s.Get(ctx, "user-1")
	assert.Empty(t, u0.Following)
	assert.Empty(t, u1.Followers)
}

func TestMemoryBarStoreGeoSearch(t *testing.T) {
	s := NewMemoryBarStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, &models.Bar{
		ID:       "pub",
		Name:     "Pub",
		Location: models.NewGeoPoint(-73.0, 40.0),
	}))
	require.NoError(t, s.Insert(ctx, &models.Bar{
		ID:       "far",
		Name:     "Far Tavern",
		Location: models.NewGeoPoint(103.8, 1.35),
	}))

	bars, err := s.GeoSearch(ctx, 40.0, -73.0, 5)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "pub", bars[0].ID)

	bars, err = s.GeoSearch(ctx, 51.5, -0.12, 0.001)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestMemoryBarStoreGeoSearchOrdersNearestFirst(t *testing.T) {
	s := NewMemoryBarStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, &models.Bar{ID: "near", Location: models.NewGeoPoint(-73.001, 40.0)}))
	require.NoError(t, s.Insert(ctx, &models.Bar{ID: "nearer", Location: models.NewGeoPoint(-73.0001, 40.0)}))

	bars, err := s.GeoSearch(ctx, 40.0, -73.0, 10)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "nearer", bars[0].ID)
	assert.Equal(t, "near", bars[1].ID)
}

func TestMemoryBarStoreDelete(t *testing.T) {
	s := NewMemoryBarStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, &models.Bar{ID: "pub", Name: "Pub"}))

	bar, err := s.Delete(ctx, "pub")
	require.NoError(t, err)
	assert.Equal(t, "Pub", bar.Name)

	_, err = s.Get(ctx, "pub")
	assert.Equal(t, ErrNotFound, err)
	_, err = s.Delete(ctx, "pub")
	assert.Equal(t, ErrNotFound, err)
}

func TestHaversine(t *testing.T) {
	// London to Paris is roughly 344 km.
	d := haversineKm(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344, d, 5)
	assert.InDelta(t, 0, haversineKm(40, -73, 40, -73), 1e-9)
}
