package types

import (
	"strings"
	"time"
)

// Post represents a post fetched from the venue's page
type Post struct {
	Message     string    `json:"message"`
	CreatedTime time.Time `json:"created_time"`
}

// HasText reports whether the post carries any text at all
func (p Post) HasText() bool {
	return strings.TrimSpace(p.Message) != ""
}
