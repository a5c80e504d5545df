package state

import (
	"errors"
	"fmt"
	"net/netip"
)

var (
	// ErrUnreachableService indicates the routing service could not be
	// queried within the configured timeout. Fatal, never retried here.
	ErrUnreachableService = errors.New("routing service unreachable")

	// ErrUnresolvableDestination indicates the trace destination is neither
	// a parseable address nor a node with a discoverable loopback.
	ErrUnresolvableDestination = errors.New("destination cannot be resolved")
)

// DuplicatePrefixError reports two equally specific routes for the same
// destination in one node's route table. This is a data-integrity fault
// attributable to Node, not a lookup miss.
type DuplicatePrefixError struct {
	Node   NodeId
	Prefix netip.Prefix
}

func (e *DuplicatePrefixError) Error() string {
	return fmt.Sprintf("duplicate prefix %s in route table of %s", e.Prefix, e.Node)
}
