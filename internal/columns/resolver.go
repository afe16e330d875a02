package columns

import (
	"strings"

	"github.com/sirupsen/logrus"

	"salesenq/internal"
	"salesenq/internal/logging"
	"salesenq/internal/util"
)

// Resolver finds the cell that stands for a logical field in a row whose
// headers drift from sheet to sheet. Lookups try, per alias and in order:
// the exact header, a case-insensitive header, then the normalized header
// (see util.NormalizeHeader).
type Resolver struct {
	aliases    Aliases
	normalized map[string][]string
	known      map[string]string
	log        *logrus.Entry
}

func NewResolver(aliases Aliases, log *logrus.Entry) *Resolver {
	r := &Resolver{
		aliases:    aliases.Clone(),
		normalized: map[string][]string{},
		known:      map[string]string{},
		log:        logging.OrDiscard(log),
	}
	for _, field := range r.aliases.Fields() {
		names := r.aliases[field]
		norm := make([]string, len(names))
		for i, name := range names {
			norm[i] = util.NormalizeHeader(name)
			if _, taken := r.known[norm[i]]; !taken && norm[i] != "" {
				r.known[norm[i]] = field
			}
		}
		r.normalized[field] = norm
	}
	return r
}

func (r *Resolver) Fields() []string { return r.aliases.Fields() }

func (r *Resolver) Aliases() Aliases { return r.aliases.Clone() }

// Resolve returns the first usable cell for field. ok is false when no alias
// matches a non-blank cell, which is the common case for optional columns.
func (r *Resolver) Resolve(row internal.Row, field string) (internal.Cell, bool) {
	return r.resolve(row, field, normalizeHeaders(row.Headers()))
}

// ResolveAll resolves every known field of row. Fields without a usable cell
// are absent from the result.
func (r *Resolver) ResolveAll(row internal.Row) Resolved {
	normHeaders := normalizeHeaders(row.Headers())
	out := Resolved{}
	for field := range r.aliases {
		if cell, ok := r.resolve(row, field, normHeaders); ok {
			out[field] = cell
		}
	}
	return out
}

func (r *Resolver) resolve(row internal.Row, field string, normHeaders []string) (internal.Cell, bool) {
	names := r.aliases[field]
	if len(names) == 0 {
		return internal.Cell{}, false
	}

	for _, name := range names {
		if cell, ok := row.Get(name); ok && !cell.IsBlank() {
			return cell, true
		}
	}

	headers := row.Headers()
	for _, name := range names {
		for _, h := range headers {
			if !strings.EqualFold(h, name) {
				continue
			}
			if cell, _ := row.Get(h); !cell.IsBlank() {
				return cell, true
			}
		}
	}

	for i, name := range names {
		target := r.normalized[field][i]
		if target == "" {
			continue
		}
		for j, h := range headers {
			if normHeaders[j] != target {
				continue
			}
			if cell, _ := row.Get(h); !cell.IsBlank() {
				r.log.WithFields(logrus.Fields{"field": field, "alias": name, "column": h}).Debug("fuzzy matched column")
				return cell, true
			}
		}
	}

	return internal.Cell{}, false
}

// FieldFor reports which logical field a header belongs to under any of the
// matching tiers.
func (r *Resolver) FieldFor(header string) (string, bool) {
	field, ok := r.known[util.NormalizeHeader(header)]
	return field, ok
}

// Unmapped lists the headers that no alias of any field matches.
func (r *Resolver) Unmapped(headers []string) []string {
	out := []string{}
	for _, h := range headers {
		if strings.HasPrefix(h, internal.EmptyHeaderPrefix) {
			continue
		}
		if _, ok := r.FieldFor(h); !ok {
			out = append(out, h)
		}
	}
	return out
}

func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = util.NormalizeHeader(h)
	}
	return out
}

// Resolved is the per-row field set produced by ResolveAll.
type Resolved map[string]internal.Cell

func (r Resolved) Get(field string) internal.Cell { return r[field] }

func (r Resolved) Has(field string) bool {
	_, ok := r[field]
	return ok
}
