package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/bashoori/instagram-bot/internal/entity"
	"github.com/bashoori/instagram-bot/internal/infra/http/middleware"
	"github.com/bashoori/instagram-bot/internal/infra/integration/instagram"
	"github.com/bashoori/instagram-bot/internal/infra/integration/messenger"
	"github.com/bashoori/instagram-bot/internal/infra/integration/sheets"
	"github.com/bashoori/instagram-bot/internal/infra/mail"
)

const (
	replyWelcome  = "Hi 👋 Welcome to the digital marketing bot!\nPick an option from the menu below:"
	replyAbout    = "📘 About us:\nWe make online business, automation and digital marketing simple.\nLearn how to build your own brand and earn online."
	replyBook     = "📅 To book a session, open this link:\n%s\nOr pick another option from the menu below."
	replyAskName  = "📝 Please enter your name:"
	replyAskEmail = "Thanks, %s! Now please enter your email:"
	replyBadName  = "Please enter your name:"
	replyBadEmail = "That doesn't look like an email address. Please enter your email:"
	replyConfirm  = "✅ Your details have been saved!\n\nPick another option from the menu below:"
	replyFallback = "Sorry, I didn't get that. Please pick one of the menu options 👇"
	menuText      = "Main menu 👇"
)

var menuTitles = []string{"Start 🏁", "About us 📘", "Register 📝", "Book a session 📅"}

// ConversationUseCase advances the two-step registration script and
// hands finished leads to the notifiers. Outbound failures are logged
// and swallowed so the webhook can always ack.
type ConversationUseCase struct {
	Sessions   entity.SessionRepositoryInterface
	Instagram  InstagramService
	Messenger  MessengerService
	Sheets     SheetsService
	Email      EmailService // optional, nil when SMTP is not configured
	BookingURL string
	Log        *zap.SugaredLogger
}

func NewConversationUseCase(
	sessions entity.SessionRepositoryInterface,
	ig InstagramService,
	msgr MessengerService,
	sheetsService SheetsService,
	email EmailService,
	bookingURL string,
	log *zap.SugaredLogger,
) *ConversationUseCase {
	return &ConversationUseCase{
		Sessions:   sessions,
		Instagram:  ig,
		Messenger:  msgr,
		Sheets:     sheetsService,
		Email:      email,
		BookingURL: bookingURL,
		Log:        log,
	}
}

func (uc *ConversationUseCase) HandleMessage(ctx context.Context, msg IncomingMessage) error {
	if msg.SenderID == "" {
		return nil
	}
	if msg.Platform != entity.PlatformInstagram && msg.Platform != entity.PlatformMessenger {
		return ErrUnknownPlatform
	}

	middleware.RecordMessage(string(msg.Platform))

	text := strings.TrimSpace(msg.Text)

	// An active session wins over menu commands, so "register" typed
	// while a name is expected becomes the name.
	if _, ok := uc.Sessions.Find(msg.SenderID); ok {
		uc.advance(ctx, msg, text)
		return nil
	}

	switch normalize(text) {
	case "start", "hi", "hello", "menu":
		uc.sendText(ctx, msg.Platform, msg.SenderID, replyWelcome)
		uc.showMenu(ctx, msg.Platform, msg.SenderID)

	case "about", "about us":
		uc.sendText(ctx, msg.Platform, msg.SenderID, replyAbout)
		uc.showMenu(ctx, msg.Platform, msg.SenderID)

	case "book", "book a session":
		uc.sendText(ctx, msg.Platform, msg.SenderID, fmt.Sprintf(replyBook, uc.BookingURL))
		uc.showMenu(ctx, msg.Platform, msg.SenderID)

	case "register", "sign up", "signup":
		uc.Sessions.GetOrCreate(msg.SenderID, msg.Platform)
		uc.sendText(ctx, msg.Platform, msg.SenderID, replyAskName)

	default:
		uc.sendText(ctx, msg.Platform, msg.SenderID, replyFallback)
		uc.showMenu(ctx, msg.Platform, msg.SenderID)
	}

	return nil
}

func (uc *ConversationUseCase) advance(ctx context.Context, msg IncomingMessage, text string) {
	sess, advanced := uc.Sessions.Advance(msg.SenderID, text)

	if !advanced {
		switch sess.Stage {
		case entity.StageAwaitingName:
			middleware.RecordReprompt()
			uc.sendText(ctx, msg.Platform, msg.SenderID, replyBadName)
		case entity.StageAwaitingEmail:
			middleware.RecordReprompt()
			uc.sendText(ctx, msg.Platform, msg.SenderID, replyBadEmail)
		default:
			// Session expired between Find and Advance.
			uc.sendText(ctx, msg.Platform, msg.SenderID, replyFallback)
			uc.showMenu(ctx, msg.Platform, msg.SenderID)
		}
		return
	}

	switch sess.Stage {
	case entity.StageAwaitingEmail:
		uc.sendText(ctx, msg.Platform, msg.SenderID, fmt.Sprintf(replyAskEmail, sess.Name))

	case entity.StageDone:
		lead := entity.NewLead(sess)
		uc.notify(ctx, lead)
		uc.Sessions.Complete(msg.SenderID)
		middleware.RecordLead(string(msg.Platform))
		uc.Log.Infow("lead captured",
			"lead_id", lead.ID, "platform", lead.Platform, "sender_id", lead.SenderID)

		uc.sendText(ctx, msg.Platform, msg.SenderID, replyConfirm)
		uc.showMenu(ctx, msg.Platform, msg.SenderID)
	}
}

// notify fans the lead out to every configured notifier. Failures are
// never retried or surfaced to the sender.
func (uc *ConversationUseCase) notify(ctx context.Context, lead entity.Lead) {
	err := uc.Sheets.AppendLead(ctx, sheets.AppendLeadInput{
		SenderID: lead.SenderID,
		Name:     lead.Name,
		Email:    lead.Email,
		Platform: string(lead.Platform),
	})
	if err != nil {
		middleware.RecordIntegrationError("sheets")
		uc.Log.Errorw("lead handoff to sheet failed", "lead_id", lead.ID, "err", err)
	}

	if uc.Email != nil {
		err := uc.Email.SendLeadAlert(mail.LeadAlertData{
			Name:     lead.Name,
			Email:    lead.Email,
			Platform: string(lead.Platform),
			SenderID: lead.SenderID,
		})
		if err != nil {
			middleware.RecordIntegrationError("mail")
			uc.Log.Errorw("lead alert email failed", "lead_id", lead.ID, "err", err)
		}
	}
}

func (uc *ConversationUseCase) sendText(ctx context.Context, platform entity.Platform, recipientID, text string) {
	var err error
	switch platform {
	case entity.PlatformInstagram:
		err = uc.Instagram.SendText(ctx, instagram.SendTextInput{RecipientID: recipientID, Text: text})
	case entity.PlatformMessenger:
		err = uc.Messenger.SendText(ctx, messenger.SendTextInput{RecipientID: recipientID, Text: text})
	}
	if err != nil {
		middleware.RecordIntegrationError(string(platform))
		uc.Log.Errorw("send text failed", "platform", platform, "recipient", recipientID, "err", err)
	}
}

func (uc *ConversationUseCase) showMenu(ctx context.Context, platform entity.Platform, recipientID string) {
	var err error
	switch platform {
	case entity.PlatformInstagram:
		err = uc.Instagram.SendQuickReplies(ctx, instagram.SendQuickRepliesInput{
			RecipientID: recipientID, Text: menuText, Titles: menuTitles,
		})
	case entity.PlatformMessenger:
		err = uc.Messenger.SendQuickReplies(ctx, messenger.SendQuickRepliesInput{
			RecipientID: recipientID, Text: menuText, Titles: menuTitles,
		})
	}
	if err != nil {
		middleware.RecordIntegrationError(string(platform))
		uc.Log.Errorw("send menu failed", "platform", platform, "recipient", recipientID, "err", err)
	}
}

// normalize lowercases a command and strips the emoji decorations that
// quick-reply titles carry.
func normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	return strings.TrimFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
