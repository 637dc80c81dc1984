package models

// UserProfile identifies the authenticated user. Opaque beyond the fields
// used for display.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
