package models

import "time"

type User struct {
	OID           string    `json:"-" bson:"_id,omitempty"`
	ID            string    `json:"id" bson:"id"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	PasswordHash  string    `json:"-" bson:"password_hash"`
	FavTeams      []string  `json:"favTeams" bson:"fav_teams"`
	Following     []string  `json:"following" bson:"following"`
	Followers     []string  `json:"followers" bson:"followers"`
	FollowingBars []string  `json:"followingBars" bson:"following_bars"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

// UserWithTeams is the detail view of a user: favTeams expanded into full
// team objects. Built per response, never persisted.
type UserWithTeams struct {
	User
	FavTeamDetails []Team `json:"favTeamDetails"`
}

func (u *User) IsFollowing(userID string) bool {
	return contains(u.Following, userID)
}

func (u *User) IsFollowingBar(barID string) bool {
	return contains(u.FollowingBars, barID)
}

func (u *User) HasFavTeam(teamID string) bool {
	return contains(u.FavTeams, teamID)
}

func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
