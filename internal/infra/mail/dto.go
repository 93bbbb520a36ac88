package mail

type WelcomeEmailData struct {
	Name        string
	Email       string
	ProductName string
	LoginURL    string
}

type EmailSender struct {
	From     string
	LoginURL string
	dialer   dialer
}
