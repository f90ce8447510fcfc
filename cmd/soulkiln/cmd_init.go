// File: cmd_init.go
// Role: `init` and `reset` verbs.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

var (
	flagInitForce   bool
	flagVirtuesPath string
	flagResetOK     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize substrate and virtue anchors",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		// A typo'd config should fail init loudly, before any store write.
		if _, err := loadConfig(); err != nil {
			return err
		}
		log := newLogger()

		st, err := connectStore(ctx, log)
		if err != nil {
			// A store failure during init fails the process.
			return err
		}
		defer st.Close()

		present, err := st.AnchorsPresent(ctx)
		if err != nil {
			return err
		}
		if present && !flagInitForce {
			return &exitError{code: 1, err: fmt.Errorf("already initialized (use --force to reinitialize)")}
		}
		if present && flagInitForce {
			if err := st.DropGraph(ctx); err != nil {
				return err
			}
		}

		var defs []graph.VirtueAnchorDef
		if flagVirtuesPath != "" {
			defs, err = virtue.LoadDefinitions(flagVirtuesPath)
			if err != nil {
				return err
			}
		} else {
			defs = virtue.DefaultDefinitions()
		}

		substrate := graph.NewSubstrate()
		registry := virtue.NewRegistry(substrate)
		if err := registry.Initialize(defs); err != nil {
			return err
		}

		if err := st.EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := st.SaveAnchors(ctx, substrate.Anchors()); err != nil {
			return err
		}

		log.Info().Int("anchors", graph.AnchorCount).Msg("substrate initialized")
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all mutable state (keeps nothing)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagResetOK {
			return fmt.Errorf("refusing to wipe state without --confirm")
		}
		ctx := cmd.Context()
		log := newLogger()
		st, err := connectStore(ctx, log)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DropGraph(ctx); err != nil {
			return err
		}
		log.Info().Msg("all state wiped")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "reinitialize even if anchors already exist")
	initCmd.Flags().StringVar(&flagVirtuesPath, "virtues", "", "YAML seed document defining the 19 virtues (built-in set if omitted)")
	resetCmd.Flags().BoolVar(&flagResetOK, "confirm", false, "required confirmation flag")
}
