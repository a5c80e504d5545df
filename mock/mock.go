package mock

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/encodeous/weft/state"
	"github.com/goccy/go-yaml"
)

// Client is an in-memory RoutingClient serving a hand-built topology, used
// by tests in place of the remote routing service.
type Client struct {
	AdjDbs    map[state.NodeId]state.AdjacencyDatabase
	PrefixDbs map[state.NodeId]state.PrefixDatabase
	RouteDbs  map[state.NodeId]state.RouteDatabase
	Fib       map[netip.Addr][]state.ForwardingRoute
	KvDump    map[string][]byte

	FailAll bool // refuse every query
	FailFib bool // refuse forwarding agent queries only

	Calls map[string]int
}

func NewClient() *Client {
	return &Client{
		AdjDbs:    make(map[state.NodeId]state.AdjacencyDatabase),
		PrefixDbs: make(map[state.NodeId]state.PrefixDatabase),
		RouteDbs:  make(map[state.NodeId]state.RouteDatabase),
		Fib:       make(map[netip.Addr][]state.ForwardingRoute),
		KvDump:    make(map[string][]byte),
		Calls:     make(map[string]int),
	}
}

// AddNode registers a node advertising a loopback prefix.
func (c *Client) AddNode(node state.NodeId, loopback netip.Prefix) {
	c.AdjDbs[node] = state.AdjacencyDatabase{Node: node}
	db := c.PrefixDbs[node]
	db.Node = node
	db.Entries = append(db.Entries, state.PrefixEntry{Prefix: loopback, Type: state.PrefixLoopback})
	c.PrefixDbs[node] = db
}

// AddPrefix advertises one more prefix from node.
func (c *Client) AddPrefix(node state.NodeId, pfx netip.Prefix, typ state.PrefixType) {
	db := c.PrefixDbs[node]
	db.Node = node
	db.Entries = append(db.Entries, state.PrefixEntry{Prefix: pfx, Type: typ})
	c.PrefixDbs[node] = db
}

// AddLink advertises the a->b adjacency on a, and the reverse on b. abAddr
// is b's link address as seen from a (the nexthop a's routes will use),
// baAddr the converse.
func (c *Client) AddLink(a, b state.NodeId, aIf, bIf string, metric uint32, abAddr, baAddr netip.Addr) {
	adjA := c.AdjDbs[a]
	adjA.Node = a
	adjA.Adjacencies = append(adjA.Adjacencies, state.AdjacencyRecord{
		Node: a, Neighbour: b, IfName: aIf, NeighIf: bIf, Metric: metric, NextHopV6: abAddr,
	})
	c.AdjDbs[a] = adjA

	adjB := c.AdjDbs[b]
	adjB.Node = b
	adjB.Adjacencies = append(adjB.Adjacencies, state.AdjacencyRecord{
		Node: b, Neighbour: a, IfName: bIf, NeighIf: aIf, Metric: metric, NextHopV6: baAddr,
	})
	c.AdjDbs[b] = adjB
}

// AddRoute installs a computed route on node.
func (c *Client) AddRoute(node state.NodeId, pfx netip.Prefix, paths ...state.RoutePath) {
	db := c.RouteDbs[node]
	db.Node = node
	db.Routes = append(db.Routes, state.RouteEntry{Prefix: pfx, Paths: paths})
	c.RouteDbs[node] = db
}

// SetFib programs the live forwarding table served through addr.
func (c *Client) SetFib(addr netip.Addr, routes ...state.ForwardingRoute) {
	c.Fib[addr] = routes
}

// PublishKv encodes the current adjacency and prefix databases into the
// key-value dump, as the store would publish them.
func (c *Client) PublishKv() error {
	for node, db := range c.AdjDbs {
		value, err := yaml.Marshal(db)
		if err != nil {
			return err
		}
		c.KvDump[state.AdjDbMarker+string(node)] = value
	}
	for node, db := range c.PrefixDbs {
		value, err := yaml.Marshal(db)
		if err != nil {
			return err
		}
		c.KvDump[state.PrefixDbMarker+string(node)] = value
	}
	return nil
}

func (c *Client) fail() error {
	return fmt.Errorf("%w: mock refused the query", state.ErrUnreachableService)
}

func (c *Client) GetAdjacencyDatabases(ctx context.Context, scope state.Scope) (map[state.NodeId]state.AdjacencyDatabase, error) {
	c.Calls["adj"]++
	if c.FailAll {
		return nil, c.fail()
	}
	out := make(map[state.NodeId]state.AdjacencyDatabase)
	for node, db := range c.AdjDbs {
		if scope.Matches(node) {
			out[node] = db
		}
	}
	return out, nil
}

func (c *Client) GetPrefixDatabases(ctx context.Context, scope state.Scope) (map[state.NodeId]state.PrefixDatabase, error) {
	c.Calls["prefix"]++
	if c.FailAll {
		return nil, c.fail()
	}
	out := make(map[state.NodeId]state.PrefixDatabase)
	for node, db := range c.PrefixDbs {
		if scope.Matches(node) {
			out[node] = db
		}
	}
	return out, nil
}

func (c *Client) GetRouteDatabase(ctx context.Context, node state.NodeId) (state.RouteDatabase, error) {
	c.Calls["route:"+string(node)]++
	if c.FailAll {
		return state.RouteDatabase{}, c.fail()
	}
	db, ok := c.RouteDbs[node]
	if !ok {
		return state.RouteDatabase{Node: node}, nil
	}
	return db, nil
}

func (c *Client) GetLiveForwardingTable(ctx context.Context, nodeAddr netip.Addr, clientId string) ([]state.ForwardingRoute, error) {
	c.Calls["fib:"+nodeAddr.String()]++
	if c.FailAll || c.FailFib {
		return nil, c.fail()
	}
	return c.Fib[nodeAddr], nil
}

func (c *Client) GetKeyValueDump(ctx context.Context, scope state.Scope, keyPrefix string) (map[string][]byte, error) {
	c.Calls["kv"]++
	if c.FailAll {
		return nil, c.fail()
	}
	out := make(map[string][]byte)
	for key, value := range c.KvDump {
		if strings.HasPrefix(key, keyPrefix) {
			out[key] = value
		}
	}
	return out, nil
}
