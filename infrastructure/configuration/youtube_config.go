package configuration

import (
	"os"
	"strings"
)

// YouTubeConfig represents the catalog API configuration handed to the client
// and the OAuth2 flow.
type YouTubeConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	APIKey       string
	Scopes       []string
	RegionCode   string
}

// GetYouTubeConfig returns catalog configuration from the JSON config with
// environment variable fallback.
func GetYouTubeConfig() *YouTubeConfig {
	config := &YouTubeConfig{
		ClientID:     getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID", ""),
		ClientSecret: getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", ""),
		RedirectURL:  getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", "http://localhost:5173/auth/callback"),
		APIKey:       getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		RegionCode:   getConfigValue(C.YouTube.RegionCode, "YOUTUBE_REGION_CODE", "US"),
		Scopes:       C.YouTube.Scopes,
	}

	if len(config.Scopes) == 0 {
		config.Scopes = []string{
			"https://www.googleapis.com/auth/youtube.readonly",
			"https://www.googleapis.com/auth/youtube.force-ssl",
		}
	}

	return config
}

// getConfigValue gets value from environment first, then config, then default.
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
