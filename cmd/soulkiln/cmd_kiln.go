// File: cmd_kiln.go
// Role: `kiln` verb — the evolution loop, batch or --daemon cron mode.
package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/kiln"
)

var (
	flagKilnPopulation  int
	flagKilnGenerations int
	flagKilnMutation    float64
	flagKilnSelection   string
	flagKilnDaemon      bool
	flagKilnSchedule    string
)

var kilnCmd = &cobra.Command{
	Use:   "kiln",
	Short: "Run the evolutionary loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		// A SIGINT/SIGTERM is the external cancellation signal:
		// the in-flight generation is discarded, the previous one remains
		// authoritative, and the store still receives the committed state.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		if flagKilnPopulation > 0 {
			e.cfg.Kiln.Population = flagKilnPopulation
			e.forge.Cfg.Kiln.Population = flagKilnPopulation
		}
		if flagKilnGenerations > 0 {
			e.cfg.Kiln.MaxGenerations = flagKilnGenerations
			e.forge.Cfg.Kiln.MaxGenerations = flagKilnGenerations
		}
		if flagKilnMutation > 0 {
			e.forge.Cfg.Kiln.MutationRate = flagKilnMutation
		}
		if flagKilnSelection != "" {
			e.forge.Cfg.Kiln.Selection = flagKilnSelection
		}

		// Top up the population before the first generation.
		for len(e.forge.Population()) < e.forge.Cfg.Kiln.Population {
			if _, err := e.forge.SpawnAgent(agent.Untyped, nil, ""); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		printReport := func(r *kiln.GenerationReport) {
			if err := enc.Encode(r); err != nil {
				e.log.Error().Err(err).Msg("encode generation report")
			}
		}

		if flagKilnDaemon {
			err = e.forge.RunDaemon(ctx, flagKilnSchedule, func(r *kiln.GenerationReport) {
				printReport(r)
				if perr := e.persist(ctx); perr != nil {
					e.log.Error().Err(perr).Msg("persist generation")
				}
			})
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		}

		reports, runErr := e.forge.RunUntilTermination(ctx)
		for _, r := range reports {
			printReport(r)
		}
		// Persist whatever was committed, even on cancellation: completed
		// generations are authoritative, the in-flight one was discarded.
		if perr := e.persist(cmd.Context()); perr != nil {
			return perr
		}
		if runErr != nil && ctx.Err() == nil {
			return runErr
		}
		return nil
	},
}

func init() {
	kilnCmd.Flags().IntVar(&flagKilnPopulation, "population", 0, "population size override")
	kilnCmd.Flags().IntVar(&flagKilnGenerations, "generations", 0, "max generations override")
	kilnCmd.Flags().Float64Var(&flagKilnMutation, "mutation-rate", 0, "mutation rate override")
	kilnCmd.Flags().StringVar(&flagKilnSelection, "selection", "", "Tournament|Truncation|Roulette")
	kilnCmd.Flags().BoolVar(&flagKilnDaemon, "daemon", false, "run one generation per cron tick instead of a tight loop")
	kilnCmd.Flags().StringVar(&flagKilnSchedule, "schedule", "@every 1m", "cron schedule for --daemon mode")
}
