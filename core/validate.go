package core

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/encodeous/weft/state"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

// ValidateLsdb diffs the authoritative link-state view held by the route
// computation service against the copy published in the distributed
// key-value store. Both sides are fetched independently; comparison is
// set-based and order-independent, and every structural difference comes
// back as one ConsistencyDiscrepancy. An empty result means the two views
// agree on every node.
func ValidateLsdb(env *state.Env, client state.RoutingClient) ([]state.ConsistencyDiscrepancy, error) {
	authAdj, err := client.GetAdjacencyDatabases(env.Context, state.ScopeAll())
	if err != nil {
		return nil, err
	}
	authPrefix, err := client.GetPrefixDatabases(env.Context, state.ScopeAll())
	if err != nil {
		return nil, err
	}
	dump, err := client.GetKeyValueDump(env.Context, state.ScopeAll(), "")
	if err != nil {
		return nil, err
	}

	out := make([]state.ConsistencyDiscrepancy, 0)
	reported := make(map[state.NodeId]struct{})
	obsAdjNodes := make(map[state.NodeId]struct{})
	obsPrefixNodes := make(map[state.NodeId]struct{})

	for _, key := range slices.Sorted(maps.Keys(dump)) {
		switch {
		case strings.HasPrefix(key, state.AdjDbMarker):
			var db state.AdjacencyDatabase
			err := yaml.Unmarshal(dump[key], &db)
			if err != nil {
				return nil, fmt.Errorf("undecodable adjacency record at %s: %w", key, err)
			}
			obsAdjNodes[db.Node] = struct{}{}
			auth, ok := authAdj[db.Node]
			if !ok {
				out = appendMissing(out, reported, state.MissingInAuthoritative, db.Node,
					"adjacency database published in store, absent from authoritative view")
				continue
			}
			if delta := cmp.Diff(adjacencyKeys(auth), adjacencyKeys(db)); delta != "" {
				out = append(out, state.ConsistencyDiscrepancy{
					Kind:  state.AdjacencySetMismatch,
					Node:  db.Node,
					Delta: delta,
				})
			}
		case strings.HasPrefix(key, state.PrefixDbMarker):
			var db state.PrefixDatabase
			err := yaml.Unmarshal(dump[key], &db)
			if err != nil {
				return nil, fmt.Errorf("undecodable prefix record at %s: %w", key, err)
			}
			obsPrefixNodes[db.Node] = struct{}{}
			auth, ok := authPrefix[db.Node]
			if !ok {
				out = appendMissing(out, reported, state.MissingInAuthoritative, db.Node,
					"prefix database published in store, absent from authoritative view")
				continue
			}
			if delta := cmp.Diff(prefixKeys(auth), prefixKeys(db)); delta != "" {
				out = append(out, state.ConsistencyDiscrepancy{
					Kind:  state.PrefixSetMismatch,
					Node:  db.Node,
					Delta: delta,
				})
			}
		}
	}

	// node sets are diffed per source: a node can have its prefix database
	// published while its adjacency database vanished, and the other way
	// around, so the two sources must never be unioned before diffing
	out = diffNodeSets(out, reported, nodeSet(maps.Keys(authAdj)), obsAdjNodes, "adjacency")
	out = diffNodeSets(out, reported, nodeSet(maps.Keys(authPrefix)), obsPrefixNodes, "prefix")
	return out, nil
}

// diffNodeSets reports nodes present in only one of the two views of a
// single database source.
func diffNodeSets(out []state.ConsistencyDiscrepancy, reported map[state.NodeId]struct{}, auth, obs map[state.NodeId]struct{}, source string) []state.ConsistencyDiscrepancy {
	for _, node := range slices.Sorted(maps.Keys(auth)) {
		if _, ok := obs[node]; !ok {
			out = appendMissing(out, reported, state.MissingInObserved, node,
				source+" database known to authoritative view, never published in store")
		}
	}
	for _, node := range slices.Sorted(maps.Keys(obs)) {
		if _, ok := auth[node]; !ok {
			out = appendMissing(out, reported, state.MissingInAuthoritative, node,
				source+" database published in store, unknown to authoritative view")
		}
	}
	return out
}

// appendMissing emits at most one missing-node discrepancy per node, so a
// node absent from both the adjacency and prefix views is named once.
func appendMissing(out []state.ConsistencyDiscrepancy, reported map[state.NodeId]struct{}, kind state.DiscrepancyKind, node state.NodeId, delta string) []state.ConsistencyDiscrepancy {
	if _, dup := reported[node]; dup {
		return out
	}
	reported[node] = struct{}{}
	return append(out, state.ConsistencyDiscrepancy{Kind: kind, Node: node, Delta: delta})
}

func adjacencyKeys(db state.AdjacencyDatabase) []string {
	keys := make([]string, 0, len(db.Adjacencies))
	for _, adj := range db.Adjacencies {
		keys = append(keys, adj.Key().String())
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

func prefixKeys(db state.PrefixDatabase) []string {
	keys := make([]string, 0, len(db.Entries))
	for _, e := range db.Entries {
		keys = append(keys, e.Key())
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

func nodeSet(nodes iter.Seq[state.NodeId]) map[state.NodeId]struct{} {
	set := make(map[state.NodeId]struct{})
	for node := range nodes {
		set[node] = struct{}{}
	}
	return set
}
