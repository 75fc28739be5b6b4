package assistant

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/logger"
	"max.ks1230/smartsaver/internal/model/customerr"
)

const serviceName = "assistant"

var errNoKey = errors.New("OpenRouter API key not configured. Set OPENROUTER_API_KEY")

type completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

type config interface {
	ApiKey() string
}

type Service struct {
	client     completer
	configured bool
}

func NewService(client completer, config config) *Service {
	return &Service{
		client:     client,
		configured: config.ApiKey() != "",
	}
}

// Ask forwards message to the completion service. Any failure, including a
// missing key, is a *customerr.ServiceUnavailableError.
func (s *Service) Ask(ctx context.Context, message string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "askAssistant")
	defer span.Finish()

	logger.Info("Ask - start")
	defer logger.Info("Ask - end")

	if !s.configured {
		ext.Error.Set(span, true)
		return "", &customerr.ServiceUnavailableError{Service: serviceName, Err: errNoKey}
	}

	reply, err := s.client.Complete(ctx, message)
	if err != nil {
		ext.Error.Set(span, true)
		logger.Error("assistant call failed", zap.Error(err))
		return "", &customerr.ServiceUnavailableError{
			Service: serviceName,
			Err:     errors.Wrap(err, "error communicating with OpenRouter"),
		}
	}
	return reply, nil
}
