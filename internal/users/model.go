package users

import "time"

// User is a persisted identity. Plan is administrative: billing happens
// outside this system, the API only reads it to resolve the caller's tier.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	PictureURL string    `json:"pictureUrl"`
	Plan       string    `json:"plan"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	PlanFree    = "free"
	PlanPremium = "premium"
)
