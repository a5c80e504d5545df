package core

import (
	"net/netip"
	"testing"

	"github.com/encodeous/weft/mock"
	"github.com/encodeous/weft/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	loopA = netip.MustParseAddr("fd00::a")
	loopB = netip.MustParseAddr("fd00::b")
	loopC = netip.MustParseAddr("fd00::c")
	loopD = netip.MustParseAddr("fd00::d")

	abB = netip.MustParseAddr("fe80::ab:b") // b as seen from a
	baA = netip.MustParseAddr("fe80::ab:a")
	bcC = netip.MustParseAddr("fe80::bc:c")
	cbB = netip.MustParseAddr("fe80::bc:b")
	adD = netip.MustParseAddr("fe80::ad:d")
	daA = netip.MustParseAddr("fe80::ad:a")
	dcC = netip.MustParseAddr("fe80::dc:c")
	cdD = netip.MustParseAddr("fe80::dc:d")
)

func loopbackOf(addr netip.Addr) netip.Prefix {
	return netip.PrefixFrom(addr, 128)
}

// linearTopology is a -- b -- c, with routes towards c's loopback.
func linearTopology() *mock.Client {
	c := mock.NewClient()
	c.AddNode("a", loopbackOf(loopA))
	c.AddNode("b", loopbackOf(loopB))
	c.AddNode("c", loopbackOf(loopC))
	c.AddLink("a", "b", "eth-b", "eth-a", 10, abB, baA)
	c.AddLink("b", "c", "eth-c", "eth-b", 5, bcC, cbB)
	c.AddRoute("a", loopbackOf(loopC), state.RoutePath{NextHop: abB, IfName: "eth-b", Metric: 10})
	c.AddRoute("b", loopbackOf(loopC), state.RoutePath{NextHop: bcC, IfName: "eth-c", Metric: 5})
	return c
}

func trace(t *testing.T, client *mock.Client, src state.NodeId, dst string, opts TraceOptions) []state.TracedPath {
	t.Helper()
	tracer, err := NewPathTracer(mock.Env(), client, opts)
	require.NoError(t, err)
	paths, err := tracer.Trace(src, dst)
	require.NoError(t, err)
	return paths
}

func TestTraceLinear(t *testing.T) {
	paths := trace(t, linearTopology(), "a", "fd00::c", TraceOptions{})
	require.Len(t, paths, 1)
	hops := paths[0].Hops
	require.Len(t, hops, 2)

	assert.Equal(t, 1, hops[0].Hop)
	assert.Equal(t, state.NodeId("b"), hops[0].Node)
	assert.Equal(t, "eth-b", hops[0].IfName)
	assert.Equal(t, uint32(10), hops[0].Metric)
	assert.Equal(t, abB, hops[0].NextHop)

	assert.Equal(t, 2, hops[1].Hop)
	assert.Equal(t, state.NodeId("c"), hops[1].Node)
}

func TestTraceDestinationByNodeName(t *testing.T) {
	paths := trace(t, linearTopology(), "a", "c", TraceOptions{})
	require.Len(t, paths, 1)
	require.Len(t, paths[0].Hops, 2)
}

func TestTraceUnresolvableDestination(t *testing.T) {
	tracer, err := NewPathTracer(mock.Env(), linearTopology(), TraceOptions{})
	require.NoError(t, err)
	_, err = tracer.Trace("a", "no-such-node")
	require.ErrorIs(t, err, state.ErrUnresolvableDestination)
}

func TestTraceEqualCostMultipath(t *testing.T) {
	// a reaches c via b and d at equal cost
	c := mock.NewClient()
	c.AddNode("a", loopbackOf(loopA))
	c.AddNode("b", loopbackOf(loopB))
	c.AddNode("c", loopbackOf(loopC))
	c.AddNode("d", loopbackOf(loopD))
	c.AddLink("a", "b", "eth-b", "eth-a", 10, abB, baA)
	c.AddLink("a", "d", "eth-d", "eth-a", 10, adD, daA)
	c.AddLink("b", "c", "eth-c", "eth-b", 5, bcC, cbB)
	c.AddLink("d", "c", "eth-c", "eth-d", 5, dcC, cdD)
	c.AddRoute("a", loopbackOf(loopC),
		state.RoutePath{NextHop: abB, IfName: "eth-b", Metric: 10},
		state.RoutePath{NextHop: adD, IfName: "eth-d", Metric: 10},
		state.RoutePath{NextHop: abB, IfName: "eth-b", Metric: 20}, // not min cost
	)
	c.AddRoute("b", loopbackOf(loopC), state.RoutePath{NextHop: bcC, IfName: "eth-c", Metric: 5})
	c.AddRoute("d", loopbackOf(loopC), state.RoutePath{NextHop: dcC, IfName: "eth-c", Metric: 5})

	paths := trace(t, c, "a", "c", TraceOptions{})
	require.Len(t, paths, 2)
	assert.Equal(t, state.NodeId("b"), paths[0].Hops[0].Node)
	assert.Equal(t, state.NodeId("d"), paths[1].Hops[0].Node)
	for _, p := range paths {
		require.Len(t, p.Hops, 2)
		assert.Equal(t, state.NodeId("c"), p.Hops[1].Node)
	}
}

func TestTraceForwardingLoop(t *testing.T) {
	// a and b forward the destination back at each other
	c := mock.NewClient()
	c.AddNode("a", loopbackOf(loopA))
	c.AddNode("b", loopbackOf(loopB))
	c.AddLink("a", "b", "eth-b", "eth-a", 10, abB, baA)
	dst := netip.MustParsePrefix("fd00:f::/64")
	c.AddRoute("a", dst, state.RoutePath{NextHop: abB, IfName: "eth-b", Metric: 10})
	c.AddRoute("b", dst, state.RoutePath{NextHop: baA, IfName: "eth-a", Metric: 10})

	paths := trace(t, c, "a", "fd00:f::1", TraceOptions{})
	assert.Empty(t, paths)
}

func TestTraceDanglingNexthopDropsBranch(t *testing.T) {
	c := linearTopology()
	// an equal-cost candidate pointing at an adjacency nobody advertises
	db := c.RouteDbs["a"]
	db.Routes[0].Paths = append(db.Routes[0].Paths,
		state.RoutePath{NextHop: netip.MustParseAddr("fe80::dead"), IfName: "eth-x", Metric: 10})
	c.RouteDbs["a"] = db

	paths := trace(t, c, "a", "fd00::c", TraceOptions{})
	require.Len(t, paths, 1)
	assert.Equal(t, state.NodeId("b"), paths[0].Hops[0].Node)
}

func TestTraceHopBudget(t *testing.T) {
	paths := trace(t, linearTopology(), "a", "fd00::c", TraceOptions{MaxHops: 1})
	assert.Empty(t, paths)
}

func TestTraceIdempotent(t *testing.T) {
	tracer, err := NewPathTracer(mock.Env(), linearTopology(), TraceOptions{})
	require.NoError(t, err)
	first, err := tracer.Trace("a", "c")
	require.NoError(t, err)
	second, err := tracer.Trace("a", "c")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTraceDuplicatePrefixSurfaces(t *testing.T) {
	c := linearTopology()
	c.AddRoute("b", loopbackOf(loopC), state.RoutePath{NextHop: bcC, IfName: "eth-c", Metric: 7})

	tracer, err := NewPathTracer(mock.Env(), c, TraceOptions{})
	require.NoError(t, err)
	_, err = tracer.Trace("a", "c")
	var dup *state.DuplicatePrefixError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, state.NodeId("b"), dup.Node)
}

func TestTraceLiveCheckConsistent(t *testing.T) {
	c := linearTopology()
	c.SetFib(loopA, state.ForwardingRoute{
		Prefix:   loopbackOf(loopC),
		Nexthops: []state.ForwardingNexthop{{Addr: abB, IfName: "eth-b"}},
	})
	c.SetFib(loopB, state.ForwardingRoute{
		Prefix:   loopbackOf(loopC),
		Nexthops: []state.ForwardingNexthop{{Addr: bcC, IfName: "eth-c"}},
	})

	paths := trace(t, c, "a", "c", TraceOptions{LiveCheck: true})
	require.Len(t, paths, 1)
	assert.True(t, paths[0].LiveForwardingConsistent)
	for _, hop := range paths[0].Hops {
		assert.True(t, hop.MatchesLiveForwarding)
	}
}

func TestTraceLiveCheckDivergence(t *testing.T) {
	c := linearTopology()
	c.SetFib(loopA, state.ForwardingRoute{
		Prefix:   loopbackOf(loopC),
		Nexthops: []state.ForwardingNexthop{{Addr: abB, IfName: "eth-b"}},
	})
	// b's agent programmed something else entirely
	c.SetFib(loopB, state.ForwardingRoute{
		Prefix:   loopbackOf(loopC),
		Nexthops: []state.ForwardingNexthop{{Addr: baA, IfName: "eth-a"}},
	})

	paths := trace(t, c, "a", "c", TraceOptions{LiveCheck: true})
	require.Len(t, paths, 1)
	assert.False(t, paths[0].LiveForwardingConsistent)
	assert.True(t, paths[0].Hops[0].MatchesLiveForwarding)
	assert.False(t, paths[0].Hops[1].MatchesLiveForwarding)
}

func TestTraceLiveCheckDegradesOnAgentFailure(t *testing.T) {
	c := linearTopology()
	c.FailFib = true

	paths := trace(t, c, "a", "c", TraceOptions{LiveCheck: true})
	require.Len(t, paths, 1)
	assert.False(t, paths[0].LiveForwardingConsistent)
	for _, hop := range paths[0].Hops {
		assert.False(t, hop.MatchesLiveForwarding)
	}
}
