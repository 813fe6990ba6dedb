// Package models contains the persistent entity types for the imgvault
// server. Ownership between entities is expressed by id references only;
// there are no back-pointers from User to its Images.
package models

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// UserSummary is the externally visible projection of a User. The password
// hash is never exposed.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
