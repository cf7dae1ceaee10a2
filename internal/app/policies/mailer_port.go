package policies

import "context"

type Mail struct {
	To      string
	Subject string
	Body    string
}

// MailerPort delivers transactional mail. Callers treat failures as
// non-fatal; delivery is best effort.
type MailerPort interface {
	Send(ctx context.Context, mail Mail) error
}
