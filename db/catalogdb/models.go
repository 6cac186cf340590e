package catalogdb

import "time"

// Entry is the part of a document the catalog needs for listing: its identity, title and tags.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

type Filter struct {
	Tag   string
	Title string
}

type Page struct {
	IDs   []string
	Total uint64
}
