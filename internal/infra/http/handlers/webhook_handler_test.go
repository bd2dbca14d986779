package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/bashoori/instagram-bot/internal/entity"
	"github.com/bashoori/instagram-bot/internal/usecase"
)

// MockConversationUseCase
type MockConversationUseCase struct {
	mock.Mock
}

func (m *MockConversationUseCase) HandleMessage(ctx context.Context, msg usecase.IncomingMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newTestWebhookHandler() (*WebhookHandler, *MockConversationUseCase) {
	mockUC := new(MockConversationUseCase)
	h := NewWebhookHandler("my-verify-token", mockUC, zap.NewNop().Sugar())
	return h, mockUC
}

func TestVerifyHandshake(t *testing.T) {
	h, _ := newTestWebhookHandler()

	t.Run("Valid Token", func(t *testing.T) {
		req := httptest.NewRequest("GET",
			"/webhook?hub.mode=subscribe&hub.verify_token=my-verify-token&hub.challenge=challenge-123", nil)
		w := httptest.NewRecorder()

		h.HandleVerify(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "challenge-123", w.Body.String())
	})

	t.Run("Wrong Token", func(t *testing.T) {
		req := httptest.NewRequest("GET",
			"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-123", nil)
		w := httptest.NewRecorder()

		h.HandleVerify(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Wrong Mode", func(t *testing.T) {
		req := httptest.NewRequest("GET",
			"/webhook?hub.mode=unsubscribe&hub.verify_token=my-verify-token", nil)
		w := httptest.NewRecorder()

		h.HandleVerify(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestInstagramEventDispatch(t *testing.T) {
	h, mockUC := newTestWebhookHandler()

	mockUC.On("HandleMessage", mock.Anything, usecase.IncomingMessage{
		Platform: entity.PlatformInstagram,
		SenderID: "IG_USER_123",
		Text:     "hello",
	}).Return(nil)

	payload := `{
		"object": "instagram",
		"entry": [{
			"id": "1234567890",
			"changes": [{
				"field": "messages",
				"value": {
					"from": {"id": "IG_USER_123"},
					"message": {"text": "hello"}
				}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.HandleEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUC.AssertExpectations(t)
}

func TestMessengerEventDispatch(t *testing.T) {
	h, mockUC := newTestWebhookHandler()

	mockUC.On("HandleMessage", mock.Anything, usecase.IncomingMessage{
		Platform: entity.PlatformMessenger,
		SenderID: "FB_USER_789",
		Text:     "hello",
	}).Return(nil)

	payload := `{
		"object": "page",
		"entry": [{
			"id": "PAGE_123456",
			"messaging": [{
				"sender": {"id": "FB_USER_789"},
				"recipient": {"id": "PAGE_123456"},
				"message": {"mid": "MID.abc123", "text": "hello"}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.HandleEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUC.AssertExpectations(t)
}

func TestUnknownObjectAcked(t *testing.T) {
	h, mockUC := newTestWebhookHandler()

	payload := `{"object": "whatsapp_business_account", "entry": []}`

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.HandleEvent(w, req)

	// Unknown payloads are acked so the platform does not retry.
	assert.Equal(t, http.StatusOK, w.Code)
	mockUC.AssertNotCalled(t, "HandleMessage", mock.Anything, mock.Anything)
}

func TestBadJSONAcked(t *testing.T) {
	h, mockUC := newTestWebhookHandler()

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()

	h.HandleEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUC.AssertNotCalled(t, "HandleMessage", mock.Anything, mock.Anything)
}

func TestEntryWithoutSenderSkipped(t *testing.T) {
	h, mockUC := newTestWebhookHandler()

	payload := `{
		"object": "instagram",
		"entry": [{
			"changes": [{
				"field": "messages",
				"value": {"message": {"text": "orphan"}}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.HandleEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUC.AssertNotCalled(t, "HandleMessage", mock.Anything, mock.Anything)
}

func TestHandlingErrorStillAcks(t *testing.T) {
	h, mockUC := newTestWebhookHandler()

	mockUC.On("HandleMessage", mock.Anything, mock.Anything).
		Return(assert.AnError)

	payload := `{
		"object": "page",
		"entry": [{
			"messaging": [{
				"sender": {"id": "FB_USER_789"},
				"message": {"text": "hello"}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.HandleEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
