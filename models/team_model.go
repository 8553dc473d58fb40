package models

// Team is an external reference resolved through the team lookup service.
// Only the id is stored on users; the rest is looked up per response.
type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	League   string `json:"league,omitempty"`
	BadgeURL string `json:"badgeUrl,omitempty"`
}
