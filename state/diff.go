package state

type DiscrepancyKind string

const (
	// MissingInAuthoritative: a node published in the observed store has no
	// database in the authoritative view.
	MissingInAuthoritative DiscrepancyKind = "missing-in-authoritative"
	// MissingInObserved: a node known to the authoritative view has no
	// record in the observed store.
	MissingInObserved    DiscrepancyKind = "missing-in-observed"
	AdjacencySetMismatch DiscrepancyKind = "adjacency-set-mismatch"
	PrefixSetMismatch    DiscrepancyKind = "prefix-set-mismatch"
)

// ConsistencyDiscrepancy is one structural difference between two
// independently maintained views of the link-state database.
type ConsistencyDiscrepancy struct {
	Kind  DiscrepancyKind `json:"kind"`
	Node  NodeId          `json:"node"`
	Delta string          `json:"delta,omitempty"`
}
