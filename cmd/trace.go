package cmd

import (
	"fmt"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/state"
	"github.com/spf13/cobra"
)

var (
	traceMaxHops int
	traceLive    bool
	traceJson    bool
)

var traceCmd = &cobra.Command{
	Use:   "trace <src> <dst>",
	Short: "Traces the data-plane path between two endpoints",
	Long: `Trace reconstructs, hop by hop, every candidate path a packet would take
from the source node towards the destination, using the route tables each
node independently computed. The destination may be a node name or a
literal address. Paths marked with * matched the live forwarding table of
every node along the way.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := state.NameValidator(args[0]); err != nil {
			return fmt.Errorf("invalid source node: %w", err)
		}
		env, client, err := setup()
		if err != nil {
			return err
		}
		tracer, err := core.NewPathTracer(env, client, core.TraceOptions{
			MaxHops:   traceMaxHops,
			LiveCheck: traceLive,
		})
		if err != nil {
			return err
		}
		paths, err := tracer.Trace(state.NodeId(args[0]), args[1])
		if err != nil {
			return err
		}
		if traceJson {
			return printJson(paths)
		}
		printPaths(paths)
		return nil
	},
	GroupID: "diag",
}

func printPaths(paths []state.TracedPath) {
	if len(paths) == 0 {
		fmt.Println("No paths are found!")
		return
	}
	if len(paths) == 1 {
		fmt.Println("1 path is found.")
	} else {
		fmt.Printf("%d paths are found.\n", len(paths))
	}
	for idx, p := range paths {
		marker := ""
		if p.LiveForwardingConsistent {
			marker = "  *"
		}
		fmt.Printf("\nPath %d%s\n", idx+1, marker)
		w := newTable("Hop", "NextHop Node", "Interface", "Metric", "NextHop Addr")
		for _, hop := range p.Hops {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", hop.Hop, hop.Node, hop.IfName, hop.Metric, hop.NextHop)
		}
		w.Flush()
	}
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().IntVar(&traceMaxHops, "max-hops", state.DefaultMaxHops, "max hop count")
	traceCmd.Flags().BoolVar(&traceLive, "live-check", false, "cross-check each hop against live forwarding tables")
	traceCmd.Flags().BoolVar(&traceJson, "json", false, "dump in JSON format")
}
