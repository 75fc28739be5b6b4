package config

const (
	defaultMarketURL      = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultMarketTimeout  = 10
	defaultMarketLookback = 7
)

type MarketConfig struct {
	ChartURL       string `yaml:"chart-url"`
	TimeoutSeconds int    `yaml:"timeout-seconds"`
	LookbackDays   int    `yaml:"lookback-days"`
	// PullingDelay of zero disables the background quote puller.
	PullingDelay int64 `yaml:"pulling-delay-minutes"`
}

func (s *MarketConfig) BaseURL() string {
	if s.ChartURL == "" {
		return defaultMarketURL
	}
	return s.ChartURL
}

func (s *MarketConfig) Timeout() int {
	if s.TimeoutSeconds <= 0 {
		return defaultMarketTimeout
	}
	return s.TimeoutSeconds
}

func (s *MarketConfig) Lookback() int {
	if s.LookbackDays <= 0 {
		return defaultMarketLookback
	}
	return s.LookbackDays
}

func (s *MarketConfig) PullingDelayMinutes() int64 {
	return s.PullingDelay
}
