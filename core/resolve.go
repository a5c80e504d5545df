package core

import (
	"cmp"
	"net/netip"
	"slices"

	"github.com/encodeous/weft/state"
	"github.com/gaissmai/bart"
)

type ifaceKey struct {
	node    state.NodeId
	ifName  string
	nextHop netip.Addr
}

// InterfaceResolver maps a forwarding decision (node, egress interface,
// nexthop address) back to the neighbour node it reaches, using the
// adjacencies advertised by every node in the snapshot.
type InterfaceResolver struct {
	neigh map[ifaceKey]state.NodeId
}

func ResolveInterfaces(adjDbs map[state.NodeId]state.AdjacencyDatabase) *InterfaceResolver {
	r := &InterfaceResolver{neigh: make(map[ifaceKey]state.NodeId)}
	for node, db := range adjDbs {
		for _, adj := range db.Adjacencies {
			if adj.NextHopV4.IsValid() {
				r.neigh[ifaceKey{node, adj.IfName, adj.NextHopV4}] = adj.Neighbour
			}
			if adj.NextHopV6.IsValid() {
				r.neigh[ifaceKey{node, adj.IfName, adj.NextHopV6}] = adj.Neighbour
			}
		}
	}
	return r
}

// Neighbour resolves one hop. A miss is not an error: it means the snapshot
// holds no adjacency explaining the nexthop, and path expansion stops there.
func (r *InterfaceResolver) Neighbour(node state.NodeId, ifName string, nextHop netip.Addr) (state.NodeId, bool) {
	n, ok := r.neigh[ifaceKey{node, ifName, nextHop}]
	return n, ok
}

// PrefixResolver answers address questions over the per-node prefix
// databases: which address identifies a node, and how specifically a node
// advertises towards a destination.
type PrefixResolver struct {
	dbs   map[state.NodeId]state.PrefixDatabase
	tries map[state.NodeId]*bart.Table[netip.Prefix]
}

func ResolvePrefixes(prefixDbs map[state.NodeId]state.PrefixDatabase) *PrefixResolver {
	r := &PrefixResolver{
		dbs:   prefixDbs,
		tries: make(map[state.NodeId]*bart.Table[netip.Prefix]),
	}
	for node, db := range prefixDbs {
		t := &bart.Table[netip.Prefix]{}
		for _, e := range db.Entries {
			pfx := e.Prefix.Masked()
			t.Insert(pfx, pfx)
		}
		r.tries[node] = t
	}
	return r
}

// LoopbackAddr returns the address a node is reachable at. Loopback entries
// win; failing those, an allocator entry is used through allocatorAddr. Not
// finding one is a normal outcome, not an error.
func (r *PrefixResolver) LoopbackAddr(node state.NodeId) (netip.Addr, bool) {
	db, ok := r.dbs[node]
	if !ok {
		return netip.Addr{}, false
	}
	var allocator netip.Addr
	for _, e := range db.Entries {
		switch e.Type {
		case state.PrefixLoopback:
			return e.Prefix.Addr(), true
		case state.PrefixAllocator:
			if !allocator.IsValid() {
				allocator = allocatorAddr(e.Prefix)
			}
		}
	}
	return allocator, allocator.IsValid()
}

// allocatorAddr derives a reachable address from an allocator prefix. A
// single-address prefix is the address itself. Anything shorter is assumed
// to carry zero host bits, with the subnet's second address assigned to the
// owning node. That convention holds for the allocator as deployed, but it
// is a heuristic, not a general last-usable-address computation.
func allocatorAddr(pfx netip.Prefix) netip.Addr {
	if pfx.IsSingleIP() {
		return pfx.Addr()
	}
	return pfx.Masked().Addr().Next()
}

// AdvertisedPrefixes returns every prefix a node advertises, regardless of
// type, in stable order.
func (r *PrefixResolver) AdvertisedPrefixes(node state.NodeId) []netip.Prefix {
	db, ok := r.dbs[node]
	if !ok {
		return nil
	}
	prefixes := make([]netip.Prefix, 0, len(db.Entries))
	for _, e := range db.Entries {
		prefixes = append(prefixes, e.Prefix)
	}
	slices.SortFunc(prefixes, func(a, b netip.Prefix) int {
		return cmp.Compare(a.String(), b.String()) // lexical is fine for stability
	})
	return prefixes
}

// LongestAdvertisedLen returns the length of the most specific prefix node
// advertises containing dst, or zero when none does. This is the tracer's
// stopping threshold.
func (r *PrefixResolver) LongestAdvertisedLen(node state.NodeId, dst netip.Addr) int {
	t, ok := r.tries[node]
	if !ok {
		return 0
	}
	pfx, ok := t.Lookup(dst)
	if !ok {
		return 0
	}
	return pfx.Bits()
}
