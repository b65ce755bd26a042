package creations

import "time"

// Creation types mirror the capability that produced the record.
const (
	TypeArticle      = "article"
	TypeBlogTitle    = "blog-title"
	TypeImage        = "image"
	TypeResumeReview = "resume-review"
)

// Creation is one successful AI operation output owned by a user.
type Creation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Publish   bool      `json:"publish"`
	CreatedAt time.Time `json:"createdAt"`
}
