package model

import "time"

// Commit represents a git commit as delivered by the data source.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"` // full message, first line is the subject
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	Repository string    `json:"repository"` // owner/name
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}
