package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	completionsPath = "/chat/completions"
	userRole        = "user"
	maxBodySize     = 1 << 20
)

var ErrEmptyReply = errors.New("completion has no choices")

type config interface {
	ApiKey() string
	BaseURL() string
	Model() string
	Timeout() int
}

type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func New(config config) *Client {
	return &Client{
		apiKey:  config.ApiKey(),
		baseURL: strings.TrimRight(config.BaseURL(), "/"),
		model:   config.Model(),
		http:    &http.Client{Timeout: time.Duration(config.Timeout()) * time.Second},
	}
}

// Complete sends message as a single user turn and returns the first choice.
func (c *Client) Complete(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: userRole, Content: message}},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "completion request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return "", errors.Wrap(err, "reading completion response")
	}

	completion := completionResponse{}
	if err = json.Unmarshal(body, &completion); err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("unmarshalling completion response (status %d)", res.StatusCode))
	}
	if completion.Error != nil {
		return "", fmt.Errorf("completion error (status %d): %s", res.StatusCode, completion.Error.Message)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d", res.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return completion.Choices[0].Message.Content, nil
}
