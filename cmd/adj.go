package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/encodeous/weft/state"
	"github.com/spf13/cobra"
)

var (
	adjNodes string
	adjBidir bool
	adjJson  bool
)

var adjCmd = &cobra.Command{
	Use:   "adj",
	Short: "Dumps the link-state adjacencies of the network",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, client, err := setup()
		if err != nil {
			return err
		}
		scope, err := parseScope(adjNodes)
		if err != nil {
			return err
		}
		dbs, err := client.GetAdjacencyDatabases(env.Context, scope)
		if err != nil {
			return err
		}
		if adjBidir {
			dbs = bidirOnly(dbs)
		}
		if adjJson {
			return printJson(dbs)
		}
		for _, node := range slices.Sorted(maps.Keys(dbs)) {
			db := dbs[node]
			fmt.Printf("> %s, seqno %d\n", node, db.Seqno)
			w := newTable("Neighbour", "Local If", "Remote If", "Metric", "NextHop-v4", "NextHop-v6")
			for _, adj := range db.Adjacencies {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					adj.Neighbour, adj.IfName, adj.NeighIf, adj.Metric, adj.NextHopV4, adj.NextHopV6)
			}
			w.Flush()
			fmt.Println()
		}
		return nil
	},
	GroupID: "show",
}

// bidirOnly keeps adjacencies whose reverse direction is also advertised.
// A one-sided adjacency usually means the link is still forming or the far
// side's database is stale.
func bidirOnly(dbs map[state.NodeId]state.AdjacencyDatabase) map[state.NodeId]state.AdjacencyDatabase {
	reverse := make(map[state.AdjacencyKey]struct{})
	for _, db := range dbs {
		for _, adj := range db.Adjacencies {
			reverse[state.AdjacencyKey{Node: adj.Neighbour, IfName: adj.NeighIf, Neighbour: adj.Node}] = struct{}{}
		}
	}
	out := make(map[state.NodeId]state.AdjacencyDatabase, len(dbs))
	for node, db := range dbs {
		kept := db
		kept.Adjacencies = nil
		for _, adj := range db.Adjacencies {
			if _, ok := reverse[adj.Key()]; ok {
				kept.Adjacencies = append(kept.Adjacencies, adj)
			}
		}
		out[node] = kept
	}
	return out
}

func init() {
	rootCmd.AddCommand(adjCmd)
	adjCmd.Flags().StringVar(&adjNodes, "nodes", "all", "comma separated list of nodes, or all")
	adjCmd.Flags().BoolVar(&adjBidir, "bidir", true, "only show bidirectional adjacencies")
	adjCmd.Flags().BoolVar(&adjJson, "json", false, "dump in JSON format")
}
