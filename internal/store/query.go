package store

// Op selects how a predicate matches a document field.
type Op int

const (
	// OpContains is a case-insensitive substring match. When the path points
	// at an array or object, the match runs over the serialized subtree, so
	// nested values anywhere under the path can satisfy it.
	OpContains Op = iota
	// OpEquals is an exact match on the field's text value.
	OpEquals
	// OpIn matches when the field's text value equals any listed value.
	OpIn
	// OpElemContains matches when any element of the array at the path has
	// an Elem subfield whose text contains the value. An empty Elem matches
	// against the element itself, for arrays of scalars.
	OpElemContains
)

// Predicate matches one field of a stored document.
type Predicate struct {
	Path   []string // JSON path into the document
	Elem   []string // ElemContains: path within each array element
	Op     Op
	Value  string   // Contains / Equals / ElemContains
	Values []string // In
}

// Clause is a disjunction of predicates: it holds when any predicate holds.
type Clause []Predicate

// Query is a conjunction of clauses. An empty query matches everything.
type Query []Clause

// Contains builds a case-insensitive substring predicate at path.
func Contains(value string, path ...string) Predicate {
	return Predicate{Path: path, Op: OpContains, Value: value}
}

// Equals builds an exact-match predicate at path.
func Equals(value string, path ...string) Predicate {
	return Predicate{Path: path, Op: OpEquals, Value: value}
}

// ElemContains builds a per-element substring predicate over the array at
// path, matching the elem subfield of each element.
func ElemContains(value string, path []string, elem ...string) Predicate {
	return Predicate{Path: path, Elem: elem, Op: OpElemContains, Value: value}
}

// In builds a membership predicate at path.
func In(values []string, path ...string) Predicate {
	return Predicate{Path: path, Op: OpIn, Values: values}
}

// AnyOf groups predicates into a single OR clause.
func AnyOf(preds ...Predicate) Clause {
	return Clause(preds)
}

// And appends a clause and returns the extended query.
func (q Query) And(c Clause) Query {
	if len(c) == 0 {
		return q
	}
	return append(q, c)
}
