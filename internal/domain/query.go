package domain

import "strconv"

// DefaultStep is the page size applied when filters are supplied without an explicit step.
const DefaultStep = 10

// Filters holds raw "field=value" tokens grouped by comparison operator.
// Every token, in every bucket, is an alternative: the compiled conditions are OR-combined.
type Filters struct {
	EQ      []string `json:"eq,omitempty"`
	GE      []string `json:"ge,omitempty"`
	LE      []string `json:"le,omitempty"`
	Like    []string `json:"like,omitempty"`
	Between []string `json:"between,omitempty"`
}

// IsEmpty reports whether no filter token was supplied in any bucket.
func (f Filters) IsEmpty() bool {
	return len(f.EQ) == 0 && len(f.GE) == 0 && len(f.LE) == 0 && len(f.Like) == 0 && len(f.Between) == 0
}

// QueryParams holds the caller supplied filter, sort and pagination constraints for list queries.
// Start and Step are nil when the caller did not supply them.
type QueryParams struct {
	Filter Filters
	Order  []string
	Start  *int
	Step   *int
}

// NewEQFilter returns QueryParams selecting rows equal to any of the given tokens.
func NewEQFilter(tokens ...string) QueryParams {
	return QueryParams{Filter: Filters{EQ: tokens}}
}

// Limit returns the row limit for the query.
// An explicit Step wins. Otherwise an empty filter yields 0 so an implicit
// "give me everything" never dumps the table, and any filter yields DefaultStep.
func (p QueryParams) Limit() int {
	if p.Step != nil {
		return *p.Step
	}
	if p.Filter.IsEmpty() {
		return 0
	}
	return DefaultStep
}

// Offset returns the row offset for the query (0 when Start was not supplied).
func (p QueryParams) Offset() int {
	if p.Start == nil {
		return 0
	}
	return *p.Start
}

// WithStep returns a copy of p with an explicit step.
func (p QueryParams) WithStep(step int) QueryParams {
	p.Step = &step
	return p
}

// NewIDFilter returns QueryParams selecting rows whose id equals any of ids.
// The step is set to len(ids) so that every match is returned.
func NewIDFilter(ids ...int64) QueryParams {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = "id=" + strconv.FormatInt(id, 10)
	}
	return NewEQFilter(tokens...).WithStep(len(ids))
}

// NewLookupFilter selects a single id with room for a second row, so a
// duplicated id reaches the caller instead of being cut off by the limit.
func NewLookupFilter(id int64) QueryParams {
	return NewIDFilter(id).WithStep(2)
}
