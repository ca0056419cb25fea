package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Slack posts user feedback to the team's feedback channel webhook.
type Slack struct {
	webhookURL string
	httpc      *http.Client
	logger     *zap.Logger
}

// NewSlack creates a Slack webhook client. An empty webhook URL disables
// posting; PostFeedback then fails with ErrBadAPIResponse.
func NewSlack(webhookURL string, httpc *http.Client, logger *zap.Logger) *Slack {
	return &Slack{webhookURL: webhookURL, httpc: httpc, logger: logger}
}

// PostFeedback sends one feedback message to the webhook.
func (s *Slack) PostFeedback(ctx context.Context, kind, text string) error {
	if s.webhookURL == "" {
		return fmt.Errorf("%w: no feedback webhook configured", ErrBadAPIResponse)
	}

	body, err := json.Marshal(map[string]string{
		"text": fmt.Sprintf("%s: %s", kind, text),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrBadAPIResponse, resp.StatusCode)
	}
	s.logger.Info("feedback posted", zap.String("kind", kind))
	return nil
}
