// Package store is the data access layer: per-entity accessors over the
// backing database. Two drivers exist, mongo (backed by MongoDB with a Redis
// geo index for bars) and memory (in-process, used for local runs and tests).
package store

import (
	"context"
	"errors"

	"barhop-server/models"
)

// ErrNotFound is returned whenever no document matches the given id.
var ErrNotFound = errors.New("document not found")

const (
	DefaultListLimit = 50
	geoSearchLimit   = 50
)

// ListOptions paginates list queries. Zero Limit falls back to
// DefaultListLimit; ordering is stable insertion order.
type ListOptions struct {
	Limit int64
	Skip  int64
}

func (o ListOptions) limit() int64 {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, opts ListOptions) ([]models.User, error)
	Search(ctx context.Context, keyword string) ([]models.User, error)
	UpdateUsername(ctx context.Context, id, username string) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)

	// Set-membership updates, all idempotent. ErrNotFound when id matches
	// no document.
	AddFollowing(ctx context.Context, id, targetID string) error
	RemoveFollowing(ctx context.Context, id, targetID string) error
	AddFollower(ctx context.Context, id, followerID string) error
	RemoveFollower(ctx context.Context, id, followerID string) error
	AddFavTeam(ctx context.Context, id, teamID string) error
	RemoveFavTeam(ctx context.Context, id, teamID string) error
	AddFollowingBar(ctx context.Context, id, barID string) error
	RemoveFollowingBar(ctx context.Context, id, barID string) error

	// PullUserRefs removes userID from every user's following and followers
	// arrays. Used for cascade cleanup after an account deletion.
	PullUserRefs(ctx context.Context, userID string) error
	// PullFollowingBar removes barID from every user's followingBars array.
	PullFollowingBar(ctx context.Context, barID string) error
}

type BarStore interface {
	Insert(ctx context.Context, bar *models.Bar) error
	Get(ctx context.Context, id string) (*models.Bar, error)
	List(ctx context.Context, opts ListOptions) ([]models.Bar, error)
	Search(ctx context.Context, keyword string) ([]models.Bar, error)
	Delete(ctx context.Context, id string) (*models.Bar, error)

	AddFollower(ctx context.Context, id, userID string) error
	RemoveFollower(ctx context.Context, id, userID string) error
	// PullFollower removes userID from every bar's followers array.
	PullFollower(ctx context.Context, userID string) error

	// GeoSearch returns bars within maxDistanceKm of the point, nearest
	// first. An empty radius hit set is an empty slice, not an error.
	GeoSearch(ctx context.Context, latitude, longitude, maxDistanceKm float64) ([]models.Bar, error)
}
