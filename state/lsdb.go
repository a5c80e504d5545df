package state

import (
	"fmt"
	"net/netip"
)

type NodeId string

// key prefixes used by the distributed key-value store to publish
// per-node link-state databases
const (
	AdjDbMarker    = "adj:"
	PrefixDbMarker = "prefix:"
)

// AdjacencyRecord describes one direct link from Node to Neighbour,
// as advertised by Node itself. Immutable once fetched.
type AdjacencyRecord struct {
	Node      NodeId     `yaml:"node" json:"node"`
	Neighbour NodeId     `yaml:"neighbour" json:"neighbour"`
	IfName    string     `yaml:"if_name" json:"if_name"`
	NeighIf   string     `yaml:"neigh_if" json:"neigh_if"`
	Metric    uint32     `yaml:"metric" json:"metric"`
	NextHopV4 netip.Addr `yaml:"next_hop_v4" json:"next_hop_v4,omitempty"`
	NextHopV6 netip.Addr `yaml:"next_hop_v6" json:"next_hop_v6,omitempty"`
}

// AdjacencyKey identifies an adjacency within one node's database.
type AdjacencyKey struct {
	Node      NodeId
	IfName    string
	Neighbour NodeId
}

func (k AdjacencyKey) String() string {
	return fmt.Sprintf("%s[%s]->%s", k.Node, k.IfName, k.Neighbour)
}

func (a AdjacencyRecord) Key() AdjacencyKey {
	return AdjacencyKey{Node: a.Node, IfName: a.IfName, Neighbour: a.Neighbour}
}

type AdjacencyDatabase struct {
	Node        NodeId            `yaml:"node" json:"node"`
	Seqno       uint64            `yaml:"seqno" json:"seqno"`
	Adjacencies []AdjacencyRecord `yaml:"adjacencies" json:"adjacencies"`
}

type PrefixType string

const (
	PrefixLoopback  PrefixType = "loopback"
	PrefixAllocator PrefixType = "allocator"
	PrefixOther     PrefixType = "other"
)

type PrefixEntry struct {
	Prefix netip.Prefix `yaml:"prefix" json:"prefix"`
	Type   PrefixType   `yaml:"type" json:"type"`
}

// Key renders the identity of a prefix entry within one node's database.
func (p PrefixEntry) Key() string {
	return fmt.Sprintf("%s %s", p.Prefix, p.Type)
}

type PrefixDatabase struct {
	Node    NodeId        `yaml:"node" json:"node"`
	Entries []PrefixEntry `yaml:"entries" json:"entries"`
}
