// File: cmd_status.go
// Role: `status`, `health` and `warnings` verbs.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ohana-garden/soulkiln/graph"
)

var flagStatusJSON bool

// statusReport is the machine-readable `status --json` shape.
type statusReport struct {
	Anchors  int `json:"anchors"`
	Concepts int `json:"concepts"`
	Agents   int `json:"agents"`
	Warnings int `json:"warnings"`
	Lessons  int `json:"lessons"`
	Pathways int `json:"pathways"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report counts of anchors, concepts, agents, warnings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		now := time.Now()
		warnings := 0
		for _, a := range e.forge.Population() {
			warnings += len(e.machine.ActiveWarnings(a.ID, now))
		}
		report := statusReport{
			Anchors:  len(e.substrate.Anchors()),
			Concepts: len(e.substrate.Concepts()),
			Agents:   len(e.forge.Population()),
			Warnings: warnings,
			Lessons:  e.pool.LessonCount(),
			Pathways: e.pool.PathwayCount(),
		}

		if flagStatusJSON {
			return json.NewEncoder(os.Stdout).Encode(report)
		}
		fmt.Printf("anchors:  %d\nconcepts: %d\nagents:   %d\nwarnings: %d\nlessons:  %d\npathways: %d\n",
			report.Anchors, report.Concepts, report.Agents, report.Warnings,
			report.Lessons, report.Pathways)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run invariant checks I1, I3 and I4 (I2, I5 and I6 are not checked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		var failures []string
		if err := e.substrate.CheckAnchorSet(); err != nil {
			failures = append(failures, err.Error())
		}
		for _, id := range e.overlays.AgentIDs() {
			overlay, err := e.overlays.BorrowOverlay(id)
			if err != nil {
				continue
			}
			if err := e.substrate.CheckAll(overlay); err != nil {
				failures = append(failures, fmt.Sprintf("agent %s: %v", id, err))
			}
			e.overlays.Release(id)
		}

		if len(failures) > 0 {
			for _, f := range failures {
				fmt.Fprintln(os.Stderr, "FAIL:", f)
			}
			return &exitError{code: 2, err: fmt.Errorf("%d invariant check(s) failed", len(failures))}
		}
		fmt.Printf("ok: %d anchors, %d overlays checked\n",
			graph.AnchorCount, len(e.overlays.AgentIDs()))
		return nil
	},
}

var warningsCmd = &cobra.Command{
	Use:   "warnings <agent>",
	Short: "List active warnings for an agent",
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
		active := e.machine.ActiveWarnings(a.ID, time.Now())
		return json.NewEncoder(os.Stdout).Encode(active)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&flagStatusJSON, "json", false, "machine-readable output")
}
