package models

// FeedEntry is a post annotated with its author. Computed per request, never stored.
type FeedEntry struct {
	Post
	Author UserSummary `json:"author"`
}
