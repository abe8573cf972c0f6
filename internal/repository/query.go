package repository

import "strings"

// clause pairs one SQL fragment with the values bound to its placeholders.
// Fragments and bind values are never grown as two independent lists; a
// clause is appended whole or not at all, which makes a divergence between
// the statement text and its arguments impossible by construction.
type clause struct {
	expr string
	args []any
}

// Filter accumulates WHERE predicates for a scoped listing query. The
// first predicate is the mandatory ownership scope; optional predicates
// are appended in caller order with And. A LIMIT is carried as its own
// placeholder/value pair so it can never detach from its bind value.
type Filter struct {
	preds []clause
	limit *int64
	err   error
}

// Scope starts a filter with its mandatory predicate, normally the
// provider ownership check (e.g. "a.provider_id = ?").
func Scope(expr string, args ...any) *Filter {
	f := &Filter{}
	return f.And(expr, args...)
}

// And appends one predicate. The expression's placeholder count must match
// the number of values supplied; a mismatch poisons the filter and
// surfaces as ErrQueryBuild when the query is built.
func (f *Filter) And(expr string, args ...any) *Filter {
	if strings.Count(expr, "?") != len(args) {
		f.err = ErrQueryBuild
		return f
	}
	f.preds = append(f.preds, clause{expr: expr, args: args})
	return f
}

// Limit caps the row count. Negative values are rejected at the parsing
// layer; they are refused here as well so the invariant holds regardless
// of caller.
func (f *Filter) Limit(n int64) *Filter {
	if n < 0 {
		return f
	}
	f.limit = &n
	return f
}

// Build renders the complete statement: base query, WHERE with all
// predicates joined by AND, the fixed per-resource ORDER BY, and LIMIT if
// set. Before returning it re-counts placeholders against bind values and
// fails with ErrQueryBuild on any mismatch, so a malformed statement can
// never reach the database.
func (f *Filter) Build(base, orderBy string) (string, []any, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	if len(f.preds) == 0 {
		return "", nil, ErrQueryBuild
	}

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(" WHERE ")
	args := make([]any, 0, len(f.preds)+1)
	for i, p := range f.preds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(p.expr)
		args = append(args, p.args...)
	}
	if orderBy != "" {
		sb.WriteString(" ")
		sb.WriteString(orderBy)
	}
	if f.limit != nil {
		sb.WriteString(" LIMIT ?")
		args = append(args, *f.limit)
	}

	query := sb.String()
	if err := lockstep(query, args); err != nil {
		return "", nil, err
	}
	return query, args, nil
}

// Patch accumulates SET assignments for a sparse update. Each recognized
// field in the request payload becomes exactly one column/value pair.
type Patch struct {
	sets []clause
}

// Set appends "column = ?" bound to value.
func (p *Patch) Set(column string, value any) *Patch {
	p.sets = append(p.sets, clause{expr: column + " = ?", args: []any{value}})
	return p
}

// Empty reports whether no assignments have been added.
func (p *Patch) Empty() bool { return len(p.sets) == 0 }

// Build renders the SET list and its bind values in assignment order.
func (p *Patch) Build() (string, []any) {
	exprs := make([]string, 0, len(p.sets))
	args := make([]any, 0, len(p.sets))
	for _, s := range p.sets {
		exprs = append(exprs, s.expr)
		args = append(args, s.args...)
	}
	return strings.Join(exprs, ", "), args
}

// lockstep verifies that a finished statement carries exactly one bind
// value per placeholder.
func lockstep(query string, args []any) error {
	if strings.Count(query, "?") != len(args) {
		return ErrQueryBuild
	}
	return nil
}
