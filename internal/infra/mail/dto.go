package mail

type LeadAlertData struct {
	Name     string
	Email    string
	Platform string
	SenderID string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
