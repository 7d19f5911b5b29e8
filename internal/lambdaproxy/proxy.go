// Package lambdaproxy runs an http.Handler behind an API Gateway HTTP API
// (payload format 2.0) Lambda integration.
package lambdaproxy

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// Handler adapts API Gateway events to an http.Handler. The gateway
// request id becomes the X-Request-Id header unless the caller sent one.
type Handler struct {
	adapter *httpadapter.HandlerAdapterV2
	logger  *slog.Logger
}

func NewHandler(next http.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{adapter: httpadapter.NewV2(next), logger: logger}
}

// Handle serves one event. Only malformed events return an error; handler
// failures are ordinary HTTP responses.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	requestID := event.RequestContext.RequestID

	if event.RequestContext.HTTP.Method == "" {
		err := fmt.Errorf("missing http method")
		h.logger.ErrorContext(ctx, "invalid gateway event", "request_id", requestID, "error", err)
		return events.APIGatewayV2HTTPResponse{}, err
	}

	if requestID != "" && !hasHeader(event.Headers, "X-Request-Id") {
		headers := make(map[string]string, len(event.Headers)+1)
		maps.Copy(headers, event.Headers)
		headers["x-request-id"] = requestID
		event.Headers = headers
	}

	resp, err := h.adapter.ProxyWithContext(ctx, event)
	if err != nil {
		h.logger.ErrorContext(ctx, "invalid gateway event", "request_id", requestID, "error", err)
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return resp, nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
