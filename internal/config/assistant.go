package config

const (
	defaultAssistantURL     = "https://openrouter.ai/api/v1"
	defaultAssistantModel   = "deepseek/deepseek-chat-v3.1:free"
	defaultAssistantTimeout = 30
)

type AssistantConfig struct {
	Key            string `yaml:"api-key"`
	URL            string `yaml:"base-url"`
	ModelName      string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout-seconds"`
}

func (s *AssistantConfig) ApiKey() string {
	return s.Key
}

func (s *AssistantConfig) BaseURL() string {
	if s.URL == "" {
		return defaultAssistantURL
	}
	return s.URL
}

func (s *AssistantConfig) Model() string {
	if s.ModelName == "" {
		return defaultAssistantModel
	}
	return s.ModelName
}

func (s *AssistantConfig) Timeout() int {
	if s.TimeoutSeconds <= 0 {
		return defaultAssistantTimeout
	}
	return s.TimeoutSeconds
}
