package access

// FilterKind distinguishes the three resolved scopes a listing,
// statistics or digest query can run under.
type FilterKind int

const (
	// FilterUnrestricted applies no ID restriction; the query layer
	// still applies the global-visibility predicate (owner IS NULL)
	// for anonymous callers.
	FilterUnrestricted FilterKind = iota

	// FilterExplicit restricts the query to CompanyIDs.
	FilterExplicit

	// FilterEmptyResult means the user deliberately has nothing to
	// see. Callers must short-circuit before issuing any query; it is
	// not the same as an explicit empty ID set.
	FilterEmptyResult
)

type FilterSet struct {
	Kind       FilterKind
	CompanyIDs []int64
}

func Unrestricted() FilterSet {
	return FilterSet{Kind: FilterUnrestricted}
}

func Explicit(companyIDs []int64) FilterSet {
	return FilterSet{Kind: FilterExplicit, CompanyIDs: companyIDs}
}

func EmptyResult() FilterSet {
	return FilterSet{Kind: FilterEmptyResult}
}
