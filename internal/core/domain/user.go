package domain

import "time"

// DefaultStatus is assigned to every newly registered user.
const DefaultStatus = "I am new!"

// User models a registered account. PasswordHash never leaves the API
// boundary.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Status       string
	// PostIDs is the ordered collection of posts owned by this user,
	// kept consistent with Post.CreatorID on create/delete.
	PostIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
