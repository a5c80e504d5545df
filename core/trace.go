package core

import (
	"fmt"
	"maps"
	"net/netip"
	"slices"

	"github.com/encodeous/weft/state"
)

type TraceOptions struct {
	// MaxHops bounds the exploration depth; zero means DefaultMaxHops.
	MaxHops int
	// LiveCheck cross-checks every hop against the live forwarding table of
	// the node taking the decision.
	LiveCheck bool
}

// PathTracer simulates, hop by hop, the forwarding decisions the network
// would take towards one destination. Every equal-cost nexthop opens its
// own branch, so a trace yields a list of candidate paths. The simulation
// runs entirely over one Snapshot; nothing observed mid-trace can change
// the outcome.
type PathTracer struct {
	env      *state.Env
	snap     *Snapshot
	ifaces   *InterfaceResolver
	prefixes *PrefixResolver
	opts     TraceOptions
	dst      netip.Addr
}

// NewPathTracer pulls a fresh snapshot and prepares the resolvers over it.
func NewPathTracer(env *state.Env, client state.RoutingClient, opts TraceOptions) (*PathTracer, error) {
	if opts.MaxHops <= 0 {
		opts.MaxHops = state.DefaultMaxHops
	}
	snap, err := FetchSnapshot(env, client, state.ScopeAll())
	if err != nil {
		return nil, err
	}
	return &PathTracer{
		env:      env,
		snap:     snap,
		ifaces:   ResolveInterfaces(snap.AdjDbs),
		prefixes: ResolvePrefixes(snap.PrefixDbs),
		opts:     opts,
	}, nil
}

// Trace returns every candidate path from src towards dst. dst may be a
// literal address or a node name, resolved through the node's loopback.
func (t *PathTracer) Trace(src state.NodeId, dst string) ([]state.TracedPath, error) {
	addr, err := netip.ParseAddr(dst)
	if err != nil {
		loopback, ok := t.prefixes.LoopbackAddr(state.NodeId(dst))
		if !ok {
			return nil, fmt.Errorf("%w: %q is neither an address nor a node with a discoverable loopback", state.ErrUnresolvableDestination, dst)
		}
		addr = loopback
	}
	t.dst = addr
	t.env.Log.Debug("tracing", "src", src, "dst", addr)
	return t.walk(src, nil, 1, map[state.NodeId]struct{}{src: {}}, true)
}

// walk expands the search one node at a time. Each recursive branch owns
// its own copy of path and visited, so no backtracking by mutation happens
// and sibling branches can never alias each other's state.
func (t *PathTracer) walk(cur state.NodeId, path []state.PathHop, hop int, visited map[state.NodeId]struct{}, liveOk bool) ([]state.TracedPath, error) {
	if hop > t.opts.MaxHops {
		return nil, nil
	}

	threshold := t.prefixes.LongestAdvertisedLen(cur, t.dst)
	rdb, err := t.snap.RouteDatabase(cur)
	if err != nil {
		return nil, err
	}
	lpm, err := BestMatch(rdb, t.dst)
	if err != nil {
		return nil, err
	}
	if lpm == nil || lpm.Prefix.Bits() < threshold {
		// cur itself advertises something at least as specific as anything
		// its route table knows; the search sinks here
		if hop != 1 {
			return []state.TracedPath{{Hops: slices.Clone(path), LiveForwardingConsistent: liveOk}}, nil
		}
		return nil, nil
	}

	var live []state.ForwardingNexthop
	if t.opts.LiveCheck {
		live = t.liveNexthops(cur, lpm.Prefix)
	}

	paths := make([]state.TracedPath, 0)
	for _, rp := range ecmpPaths(lpm.Paths) {
		if rp.NextHop.Is6() != t.dst.Is6() {
			continue
		}
		next, ok := t.ifaces.Neighbour(cur, rp.IfName, rp.NextHop)
		if !ok {
			// dangling nexthop, the known topology simply ends here
			continue
		}
		if _, seen := visited[next]; seen {
			// a true forwarding loop is not a valid path; abandon the branch
			return paths, nil
		}
		matches := nexthopProgrammed(live, rp)
		nextPath := append(slices.Clone(path), state.PathHop{
			Hop:                   hop,
			Node:                  next,
			IfName:                rp.IfName,
			Metric:                rp.Metric,
			NextHop:               rp.NextHop,
			MatchesLiveForwarding: matches,
		})
		nextVisited := maps.Clone(visited)
		nextVisited[next] = struct{}{}
		sub, err := t.walk(next, nextPath, hop+1, nextVisited, liveOk && matches)
		if err != nil {
			return nil, err
		}
		paths = append(paths, sub...)
	}
	return paths, nil
}

// ecmpPaths returns the minimum-metric subset of a route's nexthops, in
// their advertised order.
func ecmpPaths(paths []state.RoutePath) []state.RoutePath {
	if len(paths) == 0 {
		return nil
	}
	minCost := paths[0].Metric
	for _, p := range paths[1:] {
		minCost = min(minCost, p.Metric)
	}
	out := make([]state.RoutePath, 0, len(paths))
	for _, p := range paths {
		if p.Metric == minCost {
			out = append(out, p)
		}
	}
	return out
}

// liveNexthops looks up the programmed nexthops for prefix on node. A node
// without a resolvable loopback, or with an unreachable forwarding agent,
// yields no evidence rather than an error.
func (t *PathTracer) liveNexthops(node state.NodeId, prefix netip.Prefix) []state.ForwardingNexthop {
	addr, ok := t.prefixes.LoopbackAddr(node)
	if !ok {
		return nil
	}
	for _, route := range t.snap.LiveForwarding(node, addr) {
		if route.Prefix == prefix {
			return route.Nexthops
		}
	}
	return nil
}

func nexthopProgrammed(live []state.ForwardingNexthop, rp state.RoutePath) bool {
	for _, nh := range live {
		if nh.Addr == rp.NextHop && nh.IfName == rp.IfName {
			return true
		}
	}
	return false
}
