package twitchauth

// Endpoints is the fixed set of provider URLs a Client talks to. Constructed
// once and never mutated at runtime.
type Endpoints struct {
	AuthorizeURL string
	TokenURL     string
	ValidateURL  string
}

// DefaultEndpoints returns the production Twitch identity endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AuthorizeURL: "https://id.twitch.tv/oauth2/authorize",
		TokenURL:     "https://id.twitch.tv/oauth2/token",
		ValidateURL:  "https://id.twitch.tv/oauth2/validate",
	}
}
