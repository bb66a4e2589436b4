package domain

// Avatar is a presenter the user can pick for a new ad.
type Avatar struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Gender     string `json:"gender,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	Premium    bool   `json:"premium"`
}

// Voice is a TTS voice the user can pick for a new ad.
type Voice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Language  string `json:"language,omitempty"`
	Gender    string `json:"gender,omitempty"`
	SampleURL string `json:"sample_url,omitempty"`
}

// AspectRatios supported by the render provider, in the order the create
// form cycles through them.
var AspectRatios = []string{"9x16", "16x9", "1x1"}
