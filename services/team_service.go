package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"barhop-server/models"
	"barhop-server/utils/errors"
)

const teamCacheTTL = 24 * time.Hour

// TeamService resolves team ids against the external team lookup API. Teams
// are not owned by this service, so results are only cached, never stored.
type TeamService struct {
	baseURL string
	client  *http.Client
	cache   *redis.Client
	log     *logrus.Entry
}

func NewTeamService(baseURL string, cache *redis.Client) *TeamService {
	return &TeamService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   cache,
		log:     logrus.WithField("component", "team-service"),
	}
}

func (s *TeamService) Lookup(ctx context.Context, id string) (*models.Team, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, "team:"+id).Result(); err == nil {
			var team models.Team
			if err := json.Unmarshal([]byte(data), &team); err == nil {
				return &team, nil
			}
			s.cache.Del(ctx, "team:"+id)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/teams/%s", s.baseURL, id), nil)
	if err != nil {
		return nil, errors.Wrap(err, "TEAM_LOOKUP_ERROR", "Failed to look up team", http.StatusBadGateway)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "TEAM_LOOKUP_ERROR", "Failed to look up team", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError("TEAM_LOOKUP_ERROR", "Failed to look up team", http.StatusBadGateway,
			fmt.Sprintf("lookup service returned %d", resp.StatusCode))
	}

	var team models.Team
	if err := json.NewDecoder(resp.Body).Decode(&team); err != nil {
		return nil, errors.Wrap(err, "TEAM_LOOKUP_ERROR", "Failed to decode team", http.StatusBadGateway)
	}
	if team.ID == "" {
		team.ID = id
	}

	if s.cache != nil {
		if data, err := json.Marshal(team); err == nil {
			s.cache.Set(ctx, "team:"+id, data, teamCacheTTL)
		}
	}
	return &team, nil
}

// Expand resolves a list of fav team ids into full team objects. A failed
// lookup degrades to an id-only entry rather than failing the whole read.
func (s *TeamService) Expand(ctx context.Context, ids []string) []models.Team {
	teams := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		team, err := s.Lookup(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("team_id", id).Warn("Team lookup failed, returning id only")
			teams = append(teams, models.Team{ID: id})
			continue
		}
		teams = append(teams, *team)
	}
	return teams
}
