package telegram

import "context"

// Provider posts a text message to an owner's chat. Implementations report
// delivery failure as an error and must not panic.
type Provider interface {
	PostMessage(ctx context.Context, chatID string, message string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) PostMessage(ctx context.Context, chatID string, message string) error {
	return nil
}
