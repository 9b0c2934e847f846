package mail

import "context"

// Message is a plain-text email to one recipient.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
}

// Mailer delivers email messages. Implementations are best-effort; callers
// never roll back committed state on delivery failure.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
