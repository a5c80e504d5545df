package state

import (
	"context"
	"net/netip"
	"slices"
)

// Scope restricts a database query to a set of nodes. A nil scope means
// every node known to the service.
type Scope []NodeId

func ScopeAll() Scope { return nil }

func (s Scope) All() bool { return len(s) == 0 }

func (s Scope) Matches(node NodeId) bool {
	return s.All() || slices.Contains(s, node)
}

// RoutingClient is the read-only interface to the remote routing service.
// All calls are blocking, bounded by the context or the transport's own
// timeout, and perform no retries.
type RoutingClient interface {
	GetAdjacencyDatabases(ctx context.Context, scope Scope) (map[NodeId]AdjacencyDatabase, error)
	GetPrefixDatabases(ctx context.Context, scope Scope) (map[NodeId]PrefixDatabase, error)
	GetRouteDatabase(ctx context.Context, node NodeId) (RouteDatabase, error)
	// GetLiveForwardingTable queries the forwarding agent of a node through
	// its loopback address.
	GetLiveForwardingTable(ctx context.Context, nodeAddr netip.Addr, clientId string) ([]ForwardingRoute, error)
	// GetKeyValueDump returns the raw key-value store contents for keys
	// starting with keyPrefix.
	GetKeyValueDump(ctx context.Context, scope Scope, keyPrefix string) (map[string][]byte, error)
}
