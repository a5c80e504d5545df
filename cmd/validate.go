package cmd

import (
	"errors"
	"fmt"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/state"
	"github.com/spf13/cobra"
)

var validateJson bool

// errDiverged makes the command exit non-zero through cobra's normal error
// path instead of calling os.Exit from inside RunE.
var errDiverged = errors.New("the observed and authoritative databases have diverged")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Checks the route computation's LSDB against the key-value store's",
	Long: `Validate fetches the link-state database twice, once from the route
computation service and once from the distributed key-value store, and
reports every structural difference between the two copies. Exits non-zero
when the views have diverged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, client, err := setup()
		if err != nil {
			return err
		}
		return runValidate(env, client)
	},
	GroupID: "diag",
}

func runValidate(env *state.Env, client state.RoutingClient) error {
	discrepancies, err := core.ValidateLsdb(env, client)
	if err != nil {
		return err
	}
	if validateJson {
		err = printJson(discrepancies)
		if err != nil {
			return err
		}
	} else if len(discrepancies) == 0 {
		fmt.Println("The databases are in sync.")
	} else {
		printDiscrepancies(discrepancies)
	}
	if len(discrepancies) > 0 {
		return errDiverged
	}
	return nil
}

func printDiscrepancies(discrepancies []state.ConsistencyDiscrepancy) {
	fmt.Printf("%d discrepancies found.\n", len(discrepancies))
	for _, d := range discrepancies {
		fmt.Printf("\n[%s] node %s\n", d.Kind, d.Node)
		if d.Delta != "" {
			fmt.Println(d.Delta)
		}
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJson, "json", false, "dump in JSON format")
}
