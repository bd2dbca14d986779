package usecase

import (
	"context"

	"github.com/bashoori/instagram-bot/internal/entity"
	"github.com/bashoori/instagram-bot/internal/infra/integration/instagram"
	"github.com/bashoori/instagram-bot/internal/infra/integration/messenger"
	"github.com/bashoori/instagram-bot/internal/infra/integration/sheets"
	"github.com/bashoori/instagram-bot/internal/infra/mail"
)

// IncomingMessage is one normalized DM event, whichever platform it
// came from.
type IncomingMessage struct {
	Platform entity.Platform
	SenderID string
	Text     string
}

type InstagramService interface {
	SendText(ctx context.Context, input instagram.SendTextInput) error
	SendQuickReplies(ctx context.Context, input instagram.SendQuickRepliesInput) error
}

type MessengerService interface {
	SendText(ctx context.Context, input messenger.SendTextInput) error
	SendQuickReplies(ctx context.Context, input messenger.SendQuickRepliesInput) error
}

type SheetsService interface {
	AppendLead(ctx context.Context, input sheets.AppendLeadInput) error
}

type EmailService interface {
	SendLeadAlert(data mail.LeadAlertData) error
}
