package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/logger"
)

const (
	period1Param  = "period1"
	period2Param  = "period2"
	intervalParam = "interval"
	dailyInterval = "1d"
	userAgent     = "Mozilla/5.0 (compatible; smartsaver/1.0)"
	maxBodySize   = 1 << 20
)

type config interface {
	BaseURL() string
	Timeout() int
}

type Client struct {
	baseURL string
	http    *http.Client
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func New(config config) *Client {
	return &Client{
		baseURL: config.BaseURL(),
		http:    &http.Client{Timeout: time.Duration(config.Timeout()) * time.Second},
	}
}

// GetCloses returns daily closing prices of ticker between from and to,
// oldest first. Days without a close are skipped.
func (c *Client) GetCloses(ctx context.Context, ticker string, from, to time.Time) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build chart request")
	}

	req.Header.Set("User-Agent", userAgent)
	q := req.URL.Query()
	q.Add(period1Param, strconv.FormatInt(from.Unix(), 10))
	q.Add(period2Param, strconv.FormatInt(to.Unix(), 10))
	q.Add(intervalParam, dailyInterval)
	req.URL.RawQuery = q.Encode()

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "chart request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "reading chart response")
	}
	logger.Info("new response from chart api", zap.String("ticker", ticker), zap.Int("status", res.StatusCode))

	chart := chartResponse{}
	err = json.Unmarshal(body, &chart)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling response")
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error for %s: %s", ticker, chart.Chart.Error.Description)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart api status %d for %s", res.StatusCode, ticker)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return []float64{}, nil
	}

	closes := make([]float64, 0)
	for _, cl := range chart.Chart.Result[0].Indicators.Quote[0].Close {
		if cl != nil {
			closes = append(closes, *cl)
		}
	}
	return closes, nil
}
