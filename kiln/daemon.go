// File: daemon.go
// Role: `soulkiln kiln --daemon` mode: one
// generation per cron tick instead of a tight loop, for a long-lived
// service deployment. Grounded on smilemakc/mbflow's CronScheduler idiom
// (robfig/cron/v3, cron.FuncJob wrapping a context-scoped unit of work).
package kiln

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// RunDaemon starts a cron schedule that calls RunGeneration once per tick
// until ctx is cancelled. onReport, if non-nil, is invoked after every
// successful generation (used by the CLI to print/stream GenerationReport
// JSON). The schedule string uses standard 5-field cron syntax.
func (k *Kiln) RunDaemon(ctx context.Context, schedule string, onReport func(*GenerationReport)) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		report, err := k.RunGeneration(ctx)
		if err != nil {
			k.Log.Error().Err(err).Msg("kiln: daemon generation failed")
			return
		}
		if onReport != nil {
			onReport(report)
		}
	})
	if err != nil {
		return fmt.Errorf("kiln: RunDaemon: invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	defer c.Stop()

	<-ctx.Done()
	return ctx.Err()
}

// RunUntilTermination drives RunGeneration in a tight loop (no cron) until
// MaxGenerations is reached or the fraction of Coherent survivors meets
// TargetFraction, or ctx is cancelled.
func (k *Kiln) RunUntilTermination(ctx context.Context) ([]*GenerationReport, error) {
	var reports []*GenerationReport
	for i := 0; i < k.Cfg.Kiln.MaxGenerations; i++ {
		report, err := k.RunGeneration(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)

		if coherentFraction(report) >= k.Cfg.Kiln.TargetFraction {
			break
		}
	}
	return reports, nil
}

func coherentFraction(r *GenerationReport) float64 {
	if len(r.Verdicts) == 0 {
		return 0
	}
	coherent := 0
	for _, v := range r.Verdicts {
		if v == "Coherent" {
			coherent++
		}
	}
	return float64(coherent) / float64(len(r.Verdicts))
}
