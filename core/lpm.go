package core

import (
	"net/netip"

	"github.com/encodeous/weft/state"
)

// BestMatch finds the most specific route for dst in a node's route table.
// Two routes tied at the winning prefix length are a data-integrity fault
// of the node owning the table and surface as *state.DuplicatePrefixError;
// the same destination cannot have two equally specific, distinct nexthop
// sets in one authoritative table. A nil entry with a nil error means no
// route matches at all.
func BestMatch(db state.RouteDatabase, dst netip.Addr) (*state.RouteEntry, error) {
	best := -1
	dup := false
	var lpm *state.RouteEntry
	for i := range db.Routes {
		route := &db.Routes[i]
		if !route.Prefix.Contains(dst) {
			continue
		}
		switch {
		case route.Prefix.Bits() > best:
			best = route.Prefix.Bits()
			lpm = route
			dup = false
		case route.Prefix.Bits() == best:
			dup = true
		}
	}
	if dup {
		return nil, &state.DuplicatePrefixError{Node: db.Node, Prefix: lpm.Prefix}
	}
	return lpm, nil
}
