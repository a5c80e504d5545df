package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var (
	prefixesNodes string
	prefixesJson  bool
)

var prefixesCmd = &cobra.Command{
	Use:   "prefixes",
	Short: "Shows the prefixes each node advertises",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, client, err := setup()
		if err != nil {
			return err
		}
		scope, err := parseScope(prefixesNodes)
		if err != nil {
			return err
		}
		dbs, err := client.GetPrefixDatabases(env.Context, scope)
		if err != nil {
			return err
		}
		if prefixesJson {
			return printJson(dbs)
		}
		for _, node := range slices.Sorted(maps.Keys(dbs)) {
			fmt.Printf("> %s\n", node)
			w := newTable("Prefix", "Type")
			for _, e := range dbs[node].Entries {
				fmt.Fprintf(w, "%s\t%s\n", e.Prefix, e.Type)
			}
			w.Flush()
			fmt.Println()
		}
		return nil
	},
	GroupID: "show",
}

func init() {
	rootCmd.AddCommand(prefixesCmd)
	prefixesCmd.Flags().StringVar(&prefixesNodes, "nodes", "all", "comma separated list of nodes, or all")
	prefixesCmd.Flags().BoolVar(&prefixesJson, "json", false, "dump in JSON format")
}
