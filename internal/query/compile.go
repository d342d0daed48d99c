package query

import (
	"strings"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"blogapi/internal/domain"
)

// Compiled is a ready-to-run SELECT statement.
type Compiled struct {
	SQL  string
	Args []any
	// Rejected lists the filter and order tokens that were dropped.
	Rejected []string
}

// Compile builds a SELECT over schema from params.
// Every accepted filter condition is OR-combined. Tokens that do not parse are
// dropped and reported in Rejected; they never fail the query.
func Compile(schema Schema, params domain.QueryParams) Compiled {
	sel := sql.Dialect(dialect.Postgres).
		Select(schema.Columns()...).
		From(sql.Table(schema.Table))

	preds, rejected := schema.predicates(params.Filter)
	if len(preds) == 1 {
		sel.Where(preds[0])
	} else if len(preds) > 1 {
		sel.Where(sql.Or(preds...))
	}

	order, badOrder := schema.order(params.Order)
	rejected = append(rejected, badOrder...)
	if len(order) > 0 {
		sel.OrderBy(order...)
	}

	sel.Limit(params.Limit())
	if off := params.Offset(); off > 0 {
		sel.Offset(off)
	}

	q, args := sel.Query()
	return Compiled{SQL: q, Args: args, Rejected: rejected}
}

// Rejected returns the tokens of params that Compile would drop.
func (s Schema) Rejected(params domain.QueryParams) []string {
	_, rejected := s.predicates(params.Filter)
	_, badOrder := s.order(params.Order)
	return append(rejected, badOrder...)
}

func (s Schema) predicates(f domain.Filters) ([]*sql.Predicate, []string) {
	var (
		preds    []*sql.Predicate
		rejected []string
	)
	add := func(tokens []string, build func(string) (*sql.Predicate, bool)) {
		for _, tok := range tokens {
			p, ok := build(tok)
			if !ok {
				rejected = append(rejected, tok)
				continue
			}
			preds = append(preds, p)
		}
	}
	add(f.EQ, s.compare(sql.EQ))
	add(f.GE, s.compare(sql.GTE))
	add(f.LE, s.compare(sql.LTE))
	add(f.Like, s.like)
	add(f.Between, s.between)
	return preds, rejected
}

func (s Schema) compare(op func(string, any) *sql.Predicate) func(string) (*sql.Predicate, bool) {
	return func(tok string) (*sql.Predicate, bool) {
		t, ok := s.Parse(tok)
		if !ok {
			return nil, false
		}
		return op(t.Field.Column, t.Value), true
	}
}

func (s Schema) like(tok string) (*sql.Predicate, bool) {
	t, ok := s.Parse(tok)
	if !ok || t.Field.Kind != Text {
		return nil, false
	}
	if strings.ContainsAny(t.Raw, "%_") {
		return sql.Like(t.Field.Column, t.Raw), true
	}
	return sql.Contains(t.Field.Column, t.Raw), true
}

func (s Schema) between(tok string) (*sql.Predicate, bool) {
	name, raw, ok := strings.Cut(tok, "=")
	if !ok {
		return nil, false
	}
	lo, hi, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, false
	}
	from, ok := s.Parse(name + "=" + lo)
	if !ok {
		return nil, false
	}
	to, ok := s.Parse(name + "=" + hi)
	if !ok {
		return nil, false
	}
	return sql.And(sql.GTE(from.Field.Column, from.Value), sql.LTE(to.Field.Column, to.Value)), true
}

func (s Schema) order(tokens []string) ([]string, []string) {
	var (
		order    []string
		rejected []string
	)
	for _, tok := range tokens {
		name, desc := strings.CutPrefix(strings.TrimSpace(tok), "-")
		f, ok := s.Lookup(name)
		if !ok || name == "" {
			rejected = append(rejected, tok)
			continue
		}
		if desc {
			order = append(order, sql.Desc(f.Column))
		} else {
			order = append(order, sql.Asc(f.Column))
		}
	}
	return order, rejected
}
