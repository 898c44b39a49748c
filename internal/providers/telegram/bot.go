package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// BotProvider delivers messages through the Telegram Bot API sendMessage
// endpoint.
type BotProvider struct {
	token   string
	apiBase string
	client  *http.Client
}

func NewBotProvider(token string) *BotProvider {
	return &BotProvider{
		token:   token,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (p *BotProvider) PostMessage(ctx context.Context, chatID string, message string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: message})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", p.apiBase, p.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return fmt.Errorf("telegram: unexpected response (status %d)", resp.StatusCode)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram: send failed (status %d): %s", resp.StatusCode, parsed.Description)
	}
	return nil
}
