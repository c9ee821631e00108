package exporter

import "github.com/webitel/video-exporter/internal/model"

// WebsiteID is the fixed website identifier the video API expects.
const WebsiteID = 1

// APIPayload is the request body sent to the video generation API.
type APIPayload struct {
	Title   string `json:"title"`
	Script  string `json:"script"`
	Tagline string `json:"tagline"`
	Website int    `json:"website"`
}

func NewPayload(record model.PostRecord) APIPayload {
	return APIPayload{
		Title:   record.Title,
		Script:  StripTags(record.Content),
		Tagline: record.Excerpt,
		Website: WebsiteID,
	}
}
