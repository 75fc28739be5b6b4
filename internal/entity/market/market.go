package market

const (
	AAPL  = "AAPL"
	GOOGL = "GOOGL"
	MSFT  = "MSFT"
	TSLA  = "TSLA"
	AMZN  = "AMZN"
)

var DefaultTickers = []string{AAPL, GOOGL, MSFT, TSLA, AMZN}

// Quotes maps a ticker to its most recent closing prices, oldest first.
type Quotes map[string][]float64
