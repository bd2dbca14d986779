package sheets

type AppendLeadInput struct {
	SenderID string
	Name     string
	Email    string
	Platform string
}

// appendLeadRequest matches what the Apps Script endpoint expects; the
// ig_id key is the sheet's historical column name for the sender id.
type appendLeadRequest struct {
	IGID     string `json:"ig_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Platform string `json:"platform"`
}
