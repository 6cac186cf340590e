package engine

import (
	"slices"
	"time"
)

type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is a ranked document together with its fused score.
type Result struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

func (d Document) clone() Document {
	d.Tags = slices.Clone(d.Tags)
	return d
}
