package state

import "net/netip"

// RoutePath is one candidate nexthop of a computed route.
type RoutePath struct {
	NextHop netip.Addr `yaml:"next_hop" json:"next_hop"`
	IfName  string     `yaml:"if_name" json:"if_name"`
	Metric  uint32     `yaml:"metric" json:"metric"`
}

// RouteEntry is a computed route towards Prefix, possibly with multiple
// equal or unequal cost nexthops.
type RouteEntry struct {
	Prefix netip.Prefix `yaml:"prefix" json:"prefix"`
	Paths  []RoutePath  `yaml:"paths" json:"paths"`
}

type RouteDatabase struct {
	Node   NodeId       `yaml:"node" json:"node"`
	Routes []RouteEntry `yaml:"routes" json:"routes"`
}

// ForwardingNexthop is one programmed nexthop of a live forwarding entry.
type ForwardingNexthop struct {
	Addr   netip.Addr `yaml:"addr" json:"addr"`
	IfName string     `yaml:"if_name" json:"if_name"`
}

// ForwardingRoute is one entry of a node's live forwarding table, as
// reported by the forwarding agent rather than the route computation.
type ForwardingRoute struct {
	Prefix   netip.Prefix        `yaml:"prefix" json:"prefix"`
	Nexthops []ForwardingNexthop `yaml:"nexthops" json:"nexthops"`
}
