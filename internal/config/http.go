package config

const defaultHTTPAddr = ":8000"

type HTTPConfig struct {
	ListenAddr string   `yaml:"addr"`
	Origins    []string `yaml:"allowed-origins"`
}

func (s *HTTPConfig) Addr() string {
	if s.ListenAddr == "" {
		return defaultHTTPAddr
	}
	return s.ListenAddr
}

func (s *HTTPConfig) AllowedOrigins() []string {
	return s.Origins
}
