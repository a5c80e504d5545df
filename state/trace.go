package state

import "net/netip"

// PathHop records one forwarding decision along a traced path. Node is
// the node the packet is handed to, as resolved from the previous node's
// route table.
type PathHop struct {
	Hop     int        `json:"hop"`
	Node    NodeId     `json:"node"`
	IfName  string     `json:"if_name"`
	Metric  uint32     `json:"metric"`
	NextHop netip.Addr `json:"next_hop"`
	// MatchesLiveForwarding is true when the (interface, nexthop) pair was
	// also found in the previous node's live forwarding table.
	MatchesLiveForwarding bool `json:"matches_live_forwarding"`
}

// TracedPath is one candidate data-plane path discovered by the tracer.
type TracedPath struct {
	Hops []PathHop `json:"hops"`
	// LiveForwardingConsistent is true only when every hop of the path
	// matched the live forwarding state of the node taking the decision.
	LiveForwardingConsistent bool `json:"live_forwarding_consistent"`
}
