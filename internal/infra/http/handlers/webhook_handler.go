package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bashoori/instagram-bot/internal/entity"
	"github.com/bashoori/instagram-bot/internal/usecase"
)

type ConversationUseCaseInterface interface {
	HandleMessage(ctx context.Context, msg usecase.IncomingMessage) error
}

// WebhookHandler terminates the Meta webhook: the GET verification
// handshake and the POST event feed for both Instagram and Messenger.
type WebhookHandler struct {
	VerifyToken  string
	Conversation ConversationUseCaseInterface
	Log          *zap.SugaredLogger
}

func NewWebhookHandler(verifyToken string, conversation ConversationUseCaseInterface, log *zap.SugaredLogger) *WebhookHandler {
	return &WebhookHandler{
		VerifyToken:  verifyToken,
		Conversation: conversation,
		Log:          log,
	}
}

// HandleVerify answers the subscription handshake: echo hub.challenge
// when the verify token matches, 403 otherwise.
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		h.Log.Infow("webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	h.Log.Warnw("webhook verification failed", "mode", mode)
	http.Error(w, "Verification failed", http.StatusForbidden)
}

// webhookEvent covers both inbound shapes: Instagram delivers
// entry[].changes[].value, Messenger delivers entry[].messaging[].
type webhookEvent struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				From struct {
					ID string `json:"id"`
				} `json:"from"`
				Message struct {
					Text string `json:"text"`
					From struct {
						ID string `json:"id"`
					} `json:"from"`
				} `json:"message"`
			} `json:"value"`
		} `json:"changes"`
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// HandleEvent dispatches every message in the payload to the
// conversation flow. Per Meta webhook convention the response is
// always 200, even for payloads we cannot parse, so the platform does
// not retry.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.Log.Warnw("unparseable webhook payload", "err", err)
		ack(w)
		return
	}

	for _, msg := range h.extract(event) {
		if err := h.Conversation.HandleMessage(r.Context(), msg); err != nil {
			h.Log.Errorw("message handling failed",
				"platform", msg.Platform, "sender_id", msg.SenderID, "err", err)
		}
	}

	ack(w)
}

func (h *WebhookHandler) extract(event webhookEvent) []usecase.IncomingMessage {
	var msgs []usecase.IncomingMessage

	switch event.Object {
	case "instagram":
		for _, entry := range event.Entry {
			for _, change := range entry.Changes {
				senderID := change.Value.Message.From.ID
				if senderID == "" {
					senderID = change.Value.From.ID
				}
				if senderID == "" {
					continue
				}
				msgs = append(msgs, usecase.IncomingMessage{
					Platform: entity.PlatformInstagram,
					SenderID: senderID,
					Text:     change.Value.Message.Text,
				})
			}
		}

	case "page":
		for _, entry := range event.Entry {
			for _, messaging := range entry.Messaging {
				if messaging.Sender.ID == "" {
					continue
				}
				msgs = append(msgs, usecase.IncomingMessage{
					Platform: entity.PlatformMessenger,
					SenderID: messaging.Sender.ID,
					Text:     messaging.Message.Text,
				})
			}
		}

	default:
		h.Log.Warnw("unknown webhook object", "object", event.Object)
	}

	return msgs
}

func ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
