package instagram

type SendTextInput struct {
	RecipientID string // IG-scoped user id from the webhook event
	Text        string
}

type SendQuickRepliesInput struct {
	RecipientID string
	Text        string
	Titles      []string // button labels, payload derived from the title
}

type sendMessageRequest struct {
	MessagingProduct string    `json:"messaging_product"`
	Recipient        recipient `json:"recipient"`
	Message          message   `json:"message"`
}

type recipient struct {
	ID string `json:"id"`
}

type message struct {
	Text         string       `json:"text"`
	QuickReplies []quickReply `json:"quick_replies,omitempty"`
}

type quickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

type SendMessageResponse struct {
	MessageID string         `json:"message_id"`
	Error     *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
