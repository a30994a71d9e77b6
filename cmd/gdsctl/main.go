// Command gdsctl generates a random graph in memory and runs one
// registered algorithm against it in any of the five facade modes,
// printing the resulting envelope.
//
// Usage:
//
//	gdsctl algorithms
//	gdsctl run wcc --nodes 1000 --rel-type REL --probability 0.01 --mode stats
//	gdsctl run node2vec --nodes 500 --mode stream --config '{"embeddingDimension":16}'
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/generator"
	"github.com/orneryd/gds/pkg/metrics"
	"github.com/orneryd/gds/pkg/progress"
	"github.com/orneryd/gds/pkg/store"
)

func main() {
	reg := buildRegistry()
	tmpl := core.NewTemplate(progress.NewRegistry(64), metrics.NewCollectors(prometheus.NewRegistry()))

	rootCmd := &cobra.Command{
		Use:   "gdsctl",
		Short: "Run in-memory graph data science algorithms against a generated graph",
	}
	rootCmd.AddCommand(newAlgorithmsCmd(reg))
	rootCmd.AddCommand(newRunCmd(reg, tmpl))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseMode(s string) (core.Mode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return core.Stream, nil
	case "stats":
		return core.Stats, nil
	case "mutate":
		return core.Mutate, nil
	case "write":
		return core.Write, nil
	case "estimate":
		return core.Estimate, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want stream, stats, mutate, write, or estimate)", s)
	}
}

func newAlgorithmsCmd(reg *core.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List every registered algorithm and its supported modes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range reg.Names() {
				algo, _ := reg.Lookup(name)
				modes := make([]string, 0, len(algo.SupportedModes()))
				for _, m := range algo.SupportedModes() {
					modes = append(modes, m.String())
				}
				fmt.Printf("%-12s %s\n", name, strings.Join(modes, ", "))
			}
			return nil
		},
	}
}

func newRunCmd(reg *core.Registry, tmpl *core.Template) *cobra.Command {
	var (
		mode           string
		nodeCount      int64
		relTypes       []string
		probability    float64
		directed       bool
		inverseIndexed bool
		seed           int64
		configJSON     string
		property       string
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Generate a random graph and run one algorithm against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, ok := reg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown algorithm %q; see %q", args[0], "gdsctl algorithms")
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}

			relSpecs := make([]generator.RelationshipSpec, 0, len(relTypes))
			for _, rt := range relTypes {
				relSpecs = append(relSpecs, generator.RelationshipSpec{Type: rt, Probability: probability})
			}
			gs, summary, err := generator.Generate(generator.Config{
				NodeCount:      nodeCount,
				Relationships:  relSpecs,
				Directed:       directed,
				InverseIndexed: inverseIndexed,
				Seed:           seed,
			})
			if err != nil {
				return fmt.Errorf("generating graph: %w", err)
			}
			fmt.Fprintf(os.Stderr, "generated %s nodes, edge density %v\n", humanize.Comma(nodeCount), summary.EdgeDensity)

			raw := core.RawConfig{}
			if configJSON != "" {
				if err := json.Unmarshal([]byte(configJSON), &raw); err != nil {
					return fmt.Errorf("parsing --config: %w", err)
				}
			}

			ctx := context.Background()
			return runMode(ctx, tmpl, algo, m, gs, raw, property, limit)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "stream", "stream, stats, mutate, write, or estimate")
	cmd.Flags().Int64Var(&nodeCount, "nodes", 100, "number of nodes to generate")
	cmd.Flags().StringSliceVar(&relTypes, "rel-type", []string{"REL"}, "relationship type(s) to generate")
	cmd.Flags().Float64Var(&probability, "probability", 0.05, "edge probability per relationship type")
	cmd.Flags().BoolVar(&directed, "directed", true, "generate a directed graph")
	cmd.Flags().BoolVar(&inverseIndexed, "inverse-indexed", false, "build an inverse adjacency index too")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed")
	cmd.Flags().StringVar(&configJSON, "config", "", "algorithm config as a JSON object")
	cmd.Flags().StringVar(&property, "property", "", "property name for mutate/write modes")
	cmd.Flags().IntVar(&limit, "limit", 20, "max stream rows to print (0 = unlimited)")
	return cmd
}

func runMode(ctx context.Context, tmpl *core.Template, algo core.AlgorithmSpec, m core.Mode, gs *store.GraphStore, raw core.RawConfig, property string, limit int) error {
	switch m {
	case core.Stream:
		env, err := tmpl.RunStream(ctx, algo, gs, raw)
		if err != nil {
			return err
		}
		n := 0
		env.Rows(func(r core.Row) bool {
			b, _ := json.Marshal(r)
			fmt.Println(string(b))
			n++
			return limit <= 0 || n < limit
		})
		return nil

	case core.Stats:
		env, err := tmpl.RunStats(ctx, algo, gs, raw)
		if err != nil {
			return err
		}
		b, _ := json.MarshalIndent(env, "", "  ")
		fmt.Println(string(b))
		return nil

	case core.Mutate:
		if property == "" {
			return fmt.Errorf("--property is required for mutate mode")
		}
		env, err := tmpl.RunMutate(ctx, algo, gs, raw, property)
		if err != nil {
			return err
		}
		fmt.Printf("updated %d nodes under property %q in %dms\n", env.NodesUpdated, env.PropertyName, env.ExecutionTimeMs)
		return nil

	case core.Write:
		if property == "" {
			return fmt.Errorf("--property is required for write mode")
		}
		env, err := tmpl.RunWrite(ctx, algo, gs, raw, property)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d nodes under property %q in %dms\n", env.NodesWritten, env.PropertyName, env.ExecutionTimeMs)
		return nil

	case core.Estimate:
		env, err := tmpl.RunEstimate(ctx, algo, gs, raw)
		if err != nil {
			return err
		}
		fmt.Printf("estimated memory: %s - %s\n", humanize.Bytes(uint64(env.Min)), humanize.Bytes(uint64(env.Max)))
		return nil

	default:
		return fmt.Errorf("unhandled mode %v", m)
	}
}
