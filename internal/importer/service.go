package importer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"salesenq/internal"
	"salesenq/internal/logging"
	"salesenq/internal/people"
)

type RunStore interface {
	InsertImportRun(ctx context.Context, run internal.ImportRun) error
}

// Service is the entry point used by the CLI and the mail listener: it
// resolves the importing user, runs the engine, and logs the run.
type Service struct {
	engine *Engine
	people *people.Resolver
	runs   RunStore
	log    *logrus.Entry
}

func NewService(engine *Engine, persons *people.Resolver, runs RunStore, log *logrus.Entry) *Service {
	return &Service{engine: engine, people: persons, runs: runs, log: logging.OrDiscard(log)}
}

// Import runs src on behalf of userName, who is found or created as an
// admin. The outcome of every run that got past reading the sheet is stored,
// including cancelled ones.
func (s *Service) Import(ctx context.Context, src Source, userName string) (Outcome, error) {
	if strings.TrimSpace(userName) == "" {
		src.Release(s.log)
		return Outcome{}, errors.New("import: importing user name is required")
	}
	user, err := s.people.FindOrCreate(ctx, userName, internal.RoleAdmin)
	if err != nil {
		src.Release(s.log)
		return Outcome{}, errors.Wrap(err, "resolve importing user")
	}

	outcome, runErr := s.engine.Run(ctx, src, Options{ImportedBy: *user})
	if outcome.RunID == "" {
		return outcome, runErr
	}

	blob, err := json.Marshal(outcome)
	if err != nil {
		return outcome, errors.Wrap(err, "encode outcome")
	}
	run := internal.ImportRun{
		ID:         outcome.RunID,
		Source:     src.Name(),
		ImportedBy: &user.ID,
		Total:      outcome.Total,
		Successful: outcome.Successful,
		Failed:     outcome.Failed,
		Skipped:    outcome.Skipped,
		Outcome:    string(blob),
	}
	// A cancelled ctx would also fail the insert; the run log must survive it.
	if err := s.runs.InsertImportRun(context.WithoutCancel(ctx), run); err != nil {
		return outcome, errors.Wrap(err, "store import run")
	}
	return outcome, runErr
}
