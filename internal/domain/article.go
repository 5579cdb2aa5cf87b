package domain

import "time"

// Article is a knowledge-base entry. Category is free text, not a
// closed enum. AuthorID references the creating user at creation time
// and is not revalidated later.
type Article struct {
	ID          string
	Title       string
	Content     string
	Category    string
	Tags        []string
	AuthorID    string
	CreatedAt   time.Time
	LastUpdated time.Time

	// AuthorName is resolved at read time, "Unknown" when the author
	// record is missing.
	AuthorName string
}
