package core

import (
	"net/netip"
	"sync"

	"github.com/encodeous/weft/state"
	"github.com/jellydator/ttlcache/v3"
)

// Snapshot is a one-shot capture of the network's published routing state.
// Adjacency and prefix databases are fetched eagerly; route databases and
// live forwarding tables are fetched per node on first use and kept for the
// lifetime of the snapshot, so a single trace never queries a node twice.
// Fetched databases are never mutated.
type Snapshot struct {
	env    *state.Env
	client state.RoutingClient

	AdjDbs    map[state.NodeId]state.AdjacencyDatabase
	PrefixDbs map[state.NodeId]state.PrefixDatabase

	mu     sync.Mutex
	routes map[state.NodeId]state.RouteDatabase
	fib    *ttlcache.Cache[state.NodeId, []state.ForwardingRoute]
}

func FetchSnapshot(env *state.Env, client state.RoutingClient, scope state.Scope) (*Snapshot, error) {
	adjDbs, err := client.GetAdjacencyDatabases(env.Context, scope)
	if err != nil {
		return nil, err
	}
	prefixDbs, err := client.GetPrefixDatabases(env.Context, scope)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		env:       env,
		client:    client,
		AdjDbs:    adjDbs,
		PrefixDbs: prefixDbs,
		routes:    make(map[state.NodeId]state.RouteDatabase),
		fib:       ttlcache.New[state.NodeId, []state.ForwardingRoute](),
	}, nil
}

// RouteDatabase returns a node's computed route table. A fetch failure here
// is fatal to the caller, unlike the live forwarding lookup below.
func (s *Snapshot) RouteDatabase(node state.NodeId) (state.RouteDatabase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if db, ok := s.routes[node]; ok {
		return db, nil
	}
	db, err := s.client.GetRouteDatabase(s.env.Context, node)
	if err != nil {
		return state.RouteDatabase{}, err
	}
	s.routes[node] = db
	return db, nil
}

// LiveForwarding returns the forwarding table programmed on node, reached
// through addr. The result is cached even on failure: an unreachable agent
// degrades to an empty table and is not asked again within this snapshot.
func (s *Snapshot) LiveForwarding(node state.NodeId, addr netip.Addr) []state.ForwardingRoute {
	loader := ttlcache.LoaderFunc[state.NodeId, []state.ForwardingRoute](
		func(c *ttlcache.Cache[state.NodeId, []state.ForwardingRoute], key state.NodeId) *ttlcache.Item[state.NodeId, []state.ForwardingRoute] {
			routes, err := s.client.GetLiveForwardingTable(s.env.Context, addr, s.env.ClientId)
			if err != nil {
				s.env.Log.Debug("live forwarding table unavailable", "node", key, "err", err)
				routes = nil
			}
			return c.Set(key, routes, ttlcache.NoTTL)
		})
	item := s.fib.Get(node, ttlcache.WithLoader[state.NodeId, []state.ForwardingRoute](loader))
	if item == nil {
		return nil
	}
	return item.Value()
}
