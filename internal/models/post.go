package models

import "time"

// Post is a post owned by the posts subsystem. The graph only reads it.
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"user_id"`
	Content       string    `json:"content"`
	ImageURLs     []string  `json:"image_urls,omitempty"`
	VideoURLs     []string  `json:"video_urls,omitempty"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
