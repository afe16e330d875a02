// Package connectors pulls tracker mails from a mailbox into the local
// inbox: raw messages on disk, one emails row each.
package connectors

import (
	"context"

	"salesenq/internal"
)

type MailConnector interface {
	FetchInbox(ctx context.Context, label string, max int) ([]internal.FetchedMailMessage, error)
}

// EmailStore is the part of the database the inbox writes to.
type EmailStore interface {
	UpsertEmail(ctx context.Context, provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error)
}
