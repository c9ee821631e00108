package service

import (
	"net/url"
	"strings"

	"github.com/webitel/video-exporter/internal/exporter"
)

// SanitizeEndpoint trims raw and accepts only absolute http(s) URLs with a host.
// An empty input is valid and clears the endpoint.
func SanitizeEndpoint(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	if strings.ContainsAny(raw, " \t\r\n<>\"") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	return u.String(), true
}

// SanitizeText strips markup, drops line breaks and tabs, collapses runs of
// spaces and trims the result.
func SanitizeText(raw string) string {
	return strings.Join(strings.Fields(exporter.StripTags(raw)), " ")
}
