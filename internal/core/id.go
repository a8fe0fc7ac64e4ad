package core

import "github.com/google/uuid"

// GenerateID returns a new unique identifier for sessions and entries.
func GenerateID() string {
	return uuid.New().String()
}
