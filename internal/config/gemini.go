package config

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiConfig struct {
	Key       string `yaml:"api-key"`
	ModelName string `yaml:"model"`
}

func (s *GeminiConfig) APIKey() string {
	return s.Key
}

func (s *GeminiConfig) Model() string {
	return s.ModelName
}

// Enabled reports whether /ai can be served.
func (s *GeminiConfig) Enabled() bool {
	return s.Key != ""
}
