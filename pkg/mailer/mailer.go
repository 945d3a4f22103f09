// Package mailer delivers a summary by SMTP or through the Gmail API.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/logger"
	"github.com/dtnitsch/drive-digest/pkg/metrics"
)

const (
	ChannelSMTP  = "smtp"
	ChannelGmail = "gmail"
)

var (
	errNoRecipient = errors.New("no recipient address")
	errNoAuth      = errors.New("smtp server does not support AUTH")
)

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, msg models.Message) error
	Channel() string
}

// Deliverer turns a Sender outcome into a DeliveryStatus.
type Deliverer struct {
	sender Sender
	log    *zap.Logger
	rec    *metrics.Recorder
}

func NewDeliverer(sender Sender, l *zap.Logger, rec *metrics.Recorder) *Deliverer {
	return &Deliverer{sender: sender, log: logger.OrNop(l), rec: rec}
}

// Send never returns an error. The status message names the recipient only
// on success.
func (d *Deliverer) Send(ctx context.Context, msg models.Message) models.DeliveryStatus {
	start := time.Now()
	channel := d.sender.Channel()

	err := errNoRecipient
	if strings.TrimSpace(msg.To) != "" {
		err = d.sender.Send(ctx, msg)
	}
	d.rec.CountDelivery(channel, err == nil)

	if err != nil {
		derr := &models.DeliveryError{Channel: channel, Err: err}
		d.log.Error("delivery failed", zap.String("channel", channel), zap.Error(err))
		return models.DeliveryStatus{OK: false, Message: redact(derr.Error(), msg.To)}
	}

	d.log.Info("delivery succeeded",
		zap.String("channel", channel),
		zap.String("to", msg.To),
		zap.Duration("took", time.Since(start)))
	return models.DeliveryStatus{OK: true, Message: fmt.Sprintf("Email sent successfully to %s!", msg.To)}
}

// redact removes the recipient from server replies that echo it back.
func redact(text, to string) string {
	to = strings.TrimSpace(to)
	if to == "" {
		return text
	}
	return strings.ReplaceAll(text, to, "<recipient>")
}
