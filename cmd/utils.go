package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/encodeous/weft/state"
)

// parseScope turns the --nodes flag into a query scope. Empty or "all"
// selects every node; anything else must be a list of valid node names.
func parseScope(nodes string) (state.Scope, error) {
	if nodes == "" || nodes == "all" {
		return state.ScopeAll(), nil
	}
	scope := make(state.Scope, 0)
	for _, n := range strings.Split(nodes, ",") {
		s := strings.TrimSpace(n)
		if s == "" {
			continue
		}
		if err := state.NameValidator(s); err != nil {
			return nil, err
		}
		scope = append(scope, state.NodeId(s))
	}
	return scope, nil
}

func newTable(columns ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for i, col := range columns {
		if i > 0 {
			w.Write([]byte{'\t'})
		}
		w.Write([]byte(col))
	}
	w.Write([]byte{'\n'})
	return w
}

func printJson(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
