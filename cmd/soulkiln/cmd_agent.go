// File: cmd_agent.go
// Role: per-agent verbs — `spawn`, `test`, `spread`, `dissolve`.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/dynamics"
)

var (
	flagSpawnArchetype string
	flagSpawnParent    string
	flagSpawnBinding   string

	flagTestNStimuli int
	flagTestSeed     int64

	flagSpreadAgent string
	flagSpreadTrace bool

	flagDissolveReason string
)

var spawnCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Create a new agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		arch, err := parseArchetype(flagSpawnArchetype)
		if err != nil {
			return err
		}
		var parents []string
		if flagSpawnParent != "" {
			parents = []string{flagSpawnParent}
		}

		a, err := e.forge.SpawnAgent(arch, parents, flagSpawnBinding)
		if err != nil {
			return err
		}
		if err := e.persist(ctx); err != nil {
			return err
		}
		fmt.Println(a.ID)
		return nil
	},
}

var testCmd = &cobra.Command{
	Use:   "test <agent>",
	Short: "Run a coherence evaluation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		a, err := e.findAgent(args[0])
		if err != nil {
			return err
		}
		overlay, err := e.overlays.BorrowOverlay(a.ID)
		if err != nil {
			return err
		}
		defer e.overlays.Release(a.ID)

		ccfg := e.cfg.Coherence
		if flagTestNStimuli > 0 {
			ccfg.NStimuli = flagTestNStimuli
		}
		var stimuli []string
		if flagTestSeed != 0 {
			stimuli = coherence.SampleStimuliSeeded(e.substrate, overlay, flagTestSeed, ccfg.NStimuli)
		}

		report, err := coherence.Evaluate(e.substrate, e.registry, overlay, a,
			e.cfg.Dynamics, ccfg, stimuli, nil)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(report)
	},
}

var spreadCmd = &cobra.Command{
	Use:   "spread <node>",
	Short: "Run a single trajectory for inspection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		if flagSpreadAgent == "" {
			return fmt.Errorf("spread requires --agent")
		}
		a, err := e.findAgent(flagSpreadAgent)
		if err != nil {
			return err
		}
		overlay, err := e.overlays.BorrowOverlay(a.ID)
		if err != nil {
			return err
		}
		defer e.overlays.Release(a.ID)

		trajectory, err := dynamics.Spread(e.substrate, e.registry, overlay, a, args[0],
			dynamics.WithConfig(e.cfg.Dynamics), dynamics.WithTrace(flagSpreadTrace))
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(trajectory)
	},
}

var dissolveCmd = &cobra.Command{
	Use:   "dissolve <agent>",
	Short: "Force dissolution of an agent (salvages lessons first)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.forge.ForceDissolve(args[0], flagDissolveReason); err != nil {
			return err
		}
		if err := e.st.DeleteAgent(ctx, args[0]); err != nil {
			return err
		}
		// The salvaged lessons/pathways must outlive the agent.
		if err := e.persist(ctx); err != nil {
			return err
		}
		return nil
	},
}

func parseArchetype(s string) (agent.Archetype, error) {
	switch agent.Archetype(s) {
	case agent.Guardian, agent.Seeker, agent.Servant, agent.Contemplative, agent.Untyped:
		return agent.Archetype(s), nil
	case "":
		return agent.Untyped, nil
	default:
		return "", fmt.Errorf("unknown archetype %q (want Guardian|Seeker|Servant|Contemplative|Untyped)", s)
	}
}

func init() {
	spawnCmd.Flags().StringVar(&flagSpawnArchetype, "archetype", "", "Guardian|Seeker|Servant|Contemplative (Untyped if omitted)")
	spawnCmd.Flags().StringVar(&flagSpawnParent, "parent", "", "optional parent agent id")
	spawnCmd.Flags().StringVar(&flagSpawnBinding, "binding", "", "optional external binding id")

	testCmd.Flags().IntVar(&flagTestNStimuli, "n-stimuli", 0, "stimulus count override")
	testCmd.Flags().Int64Var(&flagTestSeed, "seed", 0, "explicit sampling seed (agent-id-derived if omitted)")

	spreadCmd.Flags().StringVar(&flagSpreadAgent, "agent", "", "agent whose overlay to spread on (required)")
	spreadCmd.Flags().BoolVar(&flagSpreadTrace, "trace", true, "include full per-step activation history")

	dissolveCmd.Flags().StringVar(&flagDissolveReason, "reason", "operator request", "dissolution reason recorded in the salvaged lesson")
}
