package model

// Kind identifies one of the file resource variants. All kinds share the same
// CRUD contract and differ only in how content is validated and shaped on read.
type Kind string

const (
	KindRaw  Kind = "raw"
	KindJSON Kind = "json"
	KindCSV  Kind = "csv"
)

// Kinds lists every supported kind in route registration order.
var Kinds = []Kind{KindRaw, KindJSON, KindCSV}

// Route returns the URL path segment the kind is served under.
// The raw kind keeps its historical "hello" route.
func (k Kind) Route() string {
	if k == KindRaw {
		return "hello"
	}
	return string(k)
}
