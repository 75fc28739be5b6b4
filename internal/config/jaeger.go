package config

type JaegerConfig struct {
	AgentAddr string `yaml:"agent-host-port"`
}

func (s *JaegerConfig) AgentHostPort() string {
	return s.AgentAddr
}

func (s *JaegerConfig) Enabled() bool {
	return s.AgentAddr != ""
}
