package domain

import "time"

type UserID string
type NoteID string

type Timestamp = time.Time

// User is the workspace profile as stored in the user document.
type User struct {
	UID      UserID
	Name     string
	Email    string
	PhotoURL string
}

// Session is the signed-in identity handed to application services.
// It is an explicit value, not ambient global state: whoever constructs a
// controller decides which user it acts for.
type Session struct {
	UserID UserID
}
