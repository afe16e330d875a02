// Package people resolves the free-text sales and R&D names of a tracker row
// to stored persons, creating placeholder accounts for names seen for the
// first time.
package people

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"salesenq/internal"
	"salesenq/internal/logging"
	"salesenq/internal/util"
)

type Store interface {
	FindPersonByName(ctx context.Context, name string) (*internal.Person, error)
	FindPersonByEmail(ctx context.Context, email string) (*internal.Person, error)
	CreatePerson(ctx context.Context, p internal.Person) (internal.Person, error)
}

type Options struct {
	EmailDomain     string
	DefaultPassword string
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

type Resolver struct {
	store Store
	opts  Options
	log   *logrus.Entry
}

func NewResolver(store Store, opts Options, log *logrus.Entry) *Resolver {
	if strings.TrimSpace(opts.EmailDomain) == "" {
		opts.EmailDomain = "example.com"
	}
	if opts.DefaultPassword == "" {
		opts.DefaultPassword = "password123"
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &Resolver{store: store, opts: opts, log: logging.OrDiscard(log)}
}

// FindOrCreate returns the person named name, creating one with role when
// nobody has that exact name. A blank name yields nil and no error. Calls
// must not race: two concurrent calls for a new name both try to create it.
func (r *Resolver) FindOrCreate(ctx context.Context, name string, role internal.Role) (*internal.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	found, err := r.store.FindPersonByName(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "find person %q", name)
	}
	if found != nil {
		return found, nil
	}

	email := r.EmailFor(name)
	// A differently spaced or cased spelling of a known name maps to the same
	// address; reuse that account rather than failing on the unique email.
	if byEmail, err := r.store.FindPersonByEmail(ctx, email); err != nil {
		return nil, errors.Wrapf(err, "find person by email %q", email)
	} else if byEmail != nil {
		return byEmail, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.opts.DefaultPassword), r.opts.HashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash placeholder password")
	}

	created, err := r.store.CreatePerson(ctx, internal.Person{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Department:   DepartmentFor(role),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create person %q", name)
	}
	r.log.WithFields(logrus.Fields{"name": name, "email": email, "role": role}).Info("created person")
	return &created, nil
}

// EmailFor derives the placeholder address: "Ravi  Kumar" becomes
// "ravi.kumar@<domain>".
func (r *Resolver) EmailFor(name string) string {
	return util.DotJoin(name) + "@" + r.opts.EmailDomain
}

func DepartmentFor(role internal.Role) string {
	switch role {
	case internal.RoleRnD:
		return "Research & Development"
	case internal.RoleAdmin:
		return "Administration"
	default:
		return "Sales"
	}
}
