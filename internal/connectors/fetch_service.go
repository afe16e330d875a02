package connectors

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"salesenq/internal/logging"
)

type FetchService struct {
	connector MailConnector
	store     *MailStoreService
	log       *logrus.Entry
}

type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(db EmailStore, rawMailDir string, connector MailConnector, log *logrus.Entry) *FetchService {
	return &FetchService{
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
		log:       logging.OrDiscard(log),
	}
}

func (s *FetchService) FetchAndStore(ctx context.Context, label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(ctx, label, max)
	if err != nil {
		return FetchResult{}, errors.Wrap(err, "fetch inbox")
	}

	stored := 0
	for _, msg := range messages {
		row, err := s.store.Store(ctx, msg)
		if err != nil {
			return FetchResult{Fetched: len(messages), Stored: stored}, errors.Wrapf(err, "store message %s", msg.MessageID)
		}
		s.log.WithFields(logrus.Fields{"email": row.ID, "provider": msg.Provider, "subject": msg.Subject}).Debug("stored message")
		stored++
	}

	return FetchResult{Fetched: len(messages), Stored: stored}, nil
}
