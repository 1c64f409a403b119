package domain

import "time"

// NoImagePlaceholder is the literal the web client sends in imageUrl
// when no image was selected. An update must not overwrite a stored
// placeholder with a real path.
const NoImagePlaceholder = "undefined"

// Post is a single blog entry owned by exactly one user.
type Post struct {
	ID       string
	Title    string
	Content  string
	ImageURL string
	// CreatorID is the raw owner reference as stored.
	CreatorID string
	// Creator is set only when the owner was populated inline.
	Creator   *User
	CreatedAt time.Time
	UpdatedAt time.Time
}
