package Models

// EmailConfig holds the SMTP settings used by the email sender
type EmailConfig struct {
	SMTPServer   string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TLSEnabled   bool
	SkipTLSCheck bool
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
	IsHTML  bool
}
