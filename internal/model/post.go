package model

// TimestampLayout is the wall-clock format used for export snapshots and log entries.
const TimestampLayout = "2006-01-02 15:04:05"

// Post is a content record as read from post storage.
type Post struct {
	ID               int64  `db:"id"`
	Title            string `db:"title"`
	Content          string `db:"content"`
	Excerpt          string `db:"excerpt"`
	FeaturedImageURL string `db:"featured_image_url"`
}

// PostRecord is the immutable snapshot of a post taken at export time.
type PostRecord struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	Excerpt          string `json:"excerpt"`
	FeaturedImageURL string `json:"featured_image,omitempty"`
	PostID           int64  `json:"post_id"`
	SiteURL          string `json:"site_url"`
	Timestamp        string `json:"timestamp"`
}
