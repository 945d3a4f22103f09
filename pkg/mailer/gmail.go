package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/dtnitsch/drive-digest/models"
)

// GmailSender sends as the authenticated user through users.messages.send.
type GmailSender struct {
	svc  *gmail.Service
	from string
}

// NewGmailSender creates the Gmail client. from may be empty, in which case
// Gmail fills in the account address.
func NewGmailSender(ctx context.Context, from string, opts ...option.ClientOption) (*GmailSender, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return &GmailSender{svc: svc, from: from}, nil
}

func (g *GmailSender) Channel() string { return ChannelGmail }

func (g *GmailSender) Send(ctx context.Context, msg models.Message) error {
	raw, err := buildMessage(g.from, msg, time.Now())
	if err != nil {
		return err
	}
	_, err = g.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}
