package state

import (
	"net/netip"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjacencyKey(t *testing.T) {
	adj := AdjacencyRecord{Node: "a", Neighbour: "b", IfName: "eth0", NeighIf: "eth1"}
	assert.Equal(t, AdjacencyKey{Node: "a", IfName: "eth0", Neighbour: "b"}, adj.Key())
	assert.Equal(t, "a[eth0]->b", adj.Key().String())
}

func TestAdjacencyDatabaseKvRoundTrip(t *testing.T) {
	// the validator decodes these records out of the key-value store, so the
	// wire form has to survive a round trip intact
	db := AdjacencyDatabase{
		Node:  "a",
		Seqno: 42,
		Adjacencies: []AdjacencyRecord{
			{
				Node:      "a",
				Neighbour: "b",
				IfName:    "eth0",
				NeighIf:   "eth1",
				Metric:    10,
				NextHopV4: netip.MustParseAddr("10.1.0.2"),
				NextHopV6: netip.MustParseAddr("fe80::2"),
			},
		},
	}
	data, err := yaml.Marshal(&db)
	require.NoError(t, err)

	var back AdjacencyDatabase
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, db, back)
}
