package model

// SettingsView is what the admin UI sees; the token never leaves the service in clear.
type SettingsView struct {
	APIEndpoint string `json:"api_endpoint"`
	APIToken    string `json:"api_token"`
	Configured  bool   `json:"configured"`
}

// SettingsUpdate changes only the fields that are set.
type SettingsUpdate struct {
	APIEndpoint *string `json:"api_endpoint"`
	APIToken    *string `json:"api_token"`
}

func NewSettingsView(c Credentials) *SettingsView {
	return &SettingsView{
		APIEndpoint: c.APIEndpoint,
		APIToken:    c.MaskedToken(),
		Configured:  c.Configured(),
	}
}
