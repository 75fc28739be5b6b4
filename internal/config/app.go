package config

const defaultServiceName = "smartsaver"

type AppConfig struct {
	Name string `yaml:"name"`
}

func (s *AppConfig) ServiceName() string {
	if s.Name == "" {
		return defaultServiceName
	}
	return s.Name
}
