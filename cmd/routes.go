package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/encodeous/weft/state"
	"github.com/spf13/cobra"
)

var (
	routesNodes string
	routesJson  bool
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Requests the computed route tables of the network",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, client, err := setup()
		if err != nil {
			return err
		}
		scope, err := parseScope(routesNodes)
		if err != nil {
			return err
		}
		if scope.All() {
			// the route service is queried per node; enumerate them from the
			// adjacency view
			adjDbs, err := client.GetAdjacencyDatabases(env.Context, state.ScopeAll())
			if err != nil {
				return err
			}
			scope = slices.Sorted(maps.Keys(adjDbs))
		}

		dbs := make(map[state.NodeId]state.RouteDatabase, len(scope))
		for _, node := range scope {
			db, err := client.GetRouteDatabase(env.Context, node)
			if err != nil {
				return err
			}
			dbs[node] = db
		}
		if routesJson {
			return printJson(dbs)
		}
		for _, node := range slices.Sorted(maps.Keys(dbs)) {
			fmt.Printf("> %s\n", node)
			w := newTable("Prefix", "NextHop", "Interface", "Metric")
			for _, route := range dbs[node].Routes {
				for _, p := range route.Paths {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", route.Prefix, p.NextHop, p.IfName, p.Metric)
				}
			}
			w.Flush()
			fmt.Println()
		}
		return nil
	},
	GroupID: "show",
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringVar(&routesNodes, "nodes", "all", "comma separated list of nodes, or all")
	routesCmd.Flags().BoolVar(&routesJson, "json", false, "dump in JSON format")
}
