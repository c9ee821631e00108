package model

import "strings"

// Credentials for the video generation API.
type Credentials struct {
	APIEndpoint string `json:"api_endpoint"`
	APIToken    string `json:"api_token"`
}

// Configured reports whether both the endpoint and the token are set.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.APIEndpoint) != "" && strings.TrimSpace(c.APIToken) != ""
}

// MaskedToken hides all but the last four characters of the token.
func (c Credentials) MaskedToken() string {
	if len(c.APIToken) <= 4 {
		return strings.Repeat("*", len(c.APIToken))
	}
	return strings.Repeat("*", len(c.APIToken)-4) + c.APIToken[len(c.APIToken)-4:]
}
