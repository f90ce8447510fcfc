// File: generation.go
// Role: RunGeneration — one full tick of the generation pipeline.
package kiln

import (
	"context"
	"fmt"
	"time"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/knowledge"
	"github.com/ohana-garden/soulkiln/mercy"
	"github.com/ohana-garden/soulkiln/soulkilnerr"
)

// RunGeneration executes the generation pipeline once and
// advances the generation counter. ctx is checked before each phase for
// cooperative cancellation: on cancel, the
// population is left exactly as it was at the start of this call.
func (k *Kiln) RunGeneration(ctx context.Context) (*GenerationReport, error) {
	k.mu.Lock()
	population := make([]*agent.Agent, len(k.population))
	copy(population, k.population)
	gen := k.generation
	k.mu.Unlock()

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	// Step 1: expire warnings.
	now := time.Now()
	for _, a := range population {
		k.Mercy.ExpireWarnings(a.ID, now)
	}

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	// Step 2: evaluate every agent (Bound agents are still tested, but
	// skipped for selection purposes via agent.IsSelectable).
	reports, err := coherence.EvaluatePopulation(ctx, k.Substrate, k.Registry, k.Overlays,
		k.Cfg.Coherence, k.Cfg.Dynamics, population, k.prevReport)
	if err != nil {
		return nil, fmt.Errorf("kiln: RunGeneration: %w", err)
	}

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	// Step 3: ask Mercy for a verdict on any failures; apply warnings.
	verdicts := make(map[string]coherence.Verdict, len(reports))
	for _, a := range population {
		r, ok := reports[a.ID]
		if !ok {
			continue
		}
		verdicts[a.ID] = r.Verdict
		k.Mercy.ApplyVerdict(a.ID, r.Verdict)

		if r.GrowthDelta >= k.Cfg.Coherence.GrowthThreshold {
			a.GenerationsSinceGrowth = 0
		} else {
			a.GenerationsSinceGrowth++
		}

		if r.Verdict == coherence.Struggling || r.Verdict == coherence.FoundationFailed {
			k.judgeFailure(a, r, now)
		}
		k.prevReport[a.ID] = r
	}

	// Step 4: partition.
	var survivors, watched, dissolutionCandidates []*agent.Agent
	for _, a := range population {
		v, ok := verdicts[a.ID]
		if !ok {
			continue
		}
		state := k.Mercy.State(a.ID)
		if state == mercy.Dissolved {
			dissolutionCandidates = append(dissolutionCandidates, a)
			continue
		}
		switch v {
		case coherence.Coherent, coherence.Growing:
			survivors = append(survivors, a)
		default:
			if state == mercy.Dissolution {
				dissolutionCandidates = append(dissolutionCandidates, a)
			} else if a.GenerationsSinceGrowth >= k.Cfg.Mercy.GracePeriod {
				dissolutionCandidates = append(dissolutionCandidates, a)
			} else {
				watched = append(watched, a)
			}
		}
	}

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	// Step 5: dissolve dissolution candidates, salvaging lessons/pathways.
	var dissolvedIDs []string
	for _, a := range dissolutionCandidates {
		k.dissolveAgent(a, "struggling past grace period or mercy dissolution", now)
		dissolvedIDs = append(dissolvedIDs, a.ID)
	}

	// Step 6: select parents from survivors ∪ watched (elitism preserves
	// the top E survivors/watched unchanged into the next generation).
	pool := make([]ScoredAgent, 0, len(survivors)+len(watched))
	for _, a := range append(append([]*agent.Agent{}, survivors...), watched...) {
		r := reports[a.ID]
		pool = append(pool, ScoredAgent{Agent: a, Report: r, Fitness: fitnessOf(r)})
	}

	selectable := make([]ScoredAgent, 0, len(pool))
	for _, s := range pool {
		if s.Agent.IsSelectable() {
			selectable = append(selectable, s)
		}
	}

	elites := topElites(pool, k.Cfg.Kiln.Elites)

	selectFn, err := SelectionFor(k.Cfg.Kiln.Selection, k.Cfg.Kiln.TournamentK)
	if err != nil {
		return nil, fmt.Errorf("kiln: RunGeneration: %w", err)
	}

	// Step 7: refill population with offspring up to the configured size,
	// after carrying the elites over unchanged.
	nextPopulation := make([]*agent.Agent, 0, k.Cfg.Kiln.Population)
	keep := make(map[string]struct{}, len(elites))
	for _, e := range elites {
		nextPopulation = append(nextPopulation, e.Agent)
		keep[e.Agent.ID] = struct{}{}
	}
	for _, a := range survivors {
		if _, already := keep[a.ID]; !already {
			nextPopulation = append(nextPopulation, a)
			keep[a.ID] = struct{}{}
		}
	}
	for _, a := range watched {
		if _, already := keep[a.ID]; !already {
			nextPopulation = append(nextPopulation, a)
			keep[a.ID] = struct{}{}
		}
	}

	var newIDs []string
	toRefill := k.Cfg.Kiln.Population - len(nextPopulation)
	if toRefill > 0 && len(selectable) > 0 {
		parents := selectFn(selectable, toRefill*2, k.rng)
		for i := 0; i+1 < len(parents) && len(nextPopulation) < k.Cfg.Kiln.Population; i += 2 {
			child, err := k.spawnOffspring(parents[i], parents[i+1], k.rng)
			if err != nil {
				k.Log.Warn().Err(err).Msg("kiln: offspring creation failed, skipping")
				continue
			}
			nextPopulation = append(nextPopulation, child)
			newIDs = append(newIDs, child.ID)
		}
	}

	// Step 8: advance generation and commit.
	k.mu.Lock()
	k.population = nextPopulation
	k.generation = gen + 1
	k.mu.Unlock()

	for _, a := range nextPopulation {
		k.Mercy.TickGeneration(a.ID, gen+1)
	}

	report := &GenerationReport{
		Generation:   gen,
		Verdicts:     verdicts,
		DissolvedIDs: dissolvedIDs,
		NewIDs:       newIDs,
	}
	report.FitnessMean, report.FitnessMax, report.FitnessMin = fitnessStats(pool)
	return report, nil
}

// judgeFailure translates a Struggling/FoundationFailed report into an
// ActionRecord for ClassifyHarm and applies the resulting recommendation.
func (k *Kiln) judgeFailure(a *agent.Agent, r *coherence.Report, now time.Time) {
	kind := string(r.Verdict)
	isFoundation := r.Verdict == coherence.FoundationFailed
	virtueID := ""
	if isFoundation {
		virtueID = "V01"
	}

	// Consult the ledger before recording this occurrence: "prior"
	// violations must not count the one being judged.
	prior := k.Mercy.PriorFailures(a.ID, kind, now)
	repeat := k.Mercy.NoteFailure(a.ID, kind, now)

	rec := mercy.ActionRecord{
		AgentID:                  a.ID,
		VirtueID:                 virtueID,
		FailureKind:              kind,
		IsFoundationViolation:    isFoundation,
		PriorIdenticalViolations: prior,
		RecentHighWarningOnV01:   k.Mercy.RecentHighWarningOn(a.ID, "V01", now),
		PoisonsKnowledge:         k.Knowledge.HasFlaggedLessons(a.ID),
		RepeatCountWithinWindow:  repeat,
		IsFirstOccurrence:        repeat == 1,
		// A Teach lesson is recorded on the first occurrence, so any
		// in-window repeat is a failure after teaching.
		TaughtBefore: repeat > 1,
	}
	verdict := mercy.ClassifyHarm(rec, k.Cfg.Mercy)

	switch verdict.Recommendation {
	case mercy.Teach:
		k.Knowledge.RecordLesson(knowledge.Insight, a.ID, rec.VirtueID, describeVerdict(verdict))
	case mercy.Warn:
		k.Mercy.IssueWarning(a.ID, verdict.Severity, rec.VirtueID, describeVerdict(verdict), now, false)
	case mercy.Dissolve:
		k.Mercy.IssueWarning(a.ID, verdict.Severity, rec.VirtueID, describeVerdict(verdict), now,
			verdict.Intent == mercy.DeliberateHarm)
		k.Mercy.MarkGraceGeneration(a.ID, k.generation)
	}
}

// ForceDissolve dissolves one agent immediately, salvaging its lessons
// and successful pathways first. Irreversible.
func (k *Kiln) ForceDissolve(agentID, reason string) error {
	k.mu.Lock()
	var target *agent.Agent
	rest := k.population[:0]
	for _, a := range k.population {
		if a.ID == agentID {
			target = a
			continue
		}
		rest = append(rest, a)
	}
	k.population = rest
	k.mu.Unlock()

	if target == nil {
		return fmt.Errorf("kiln: ForceDissolve: %w: %s", soulkilnerr.ErrUnknownAgent, agentID)
	}
	k.dissolveAgent(target, reason, time.Now())
	return nil
}

func (k *Kiln) dissolveAgent(a *agent.Agent, reason string, now time.Time) {
	overlay, err := k.Overlays.BorrowOverlay(a.ID)
	if err == nil {
		for _, e := range overlay.IterEdges(nil) {
			if e.UseCount > 0 && k.Substrate.IsAnchor(e.Tgt) {
				k.Knowledge.RecordPathway(e.Src, e.Tgt, []string{e.Src, e.Tgt}, 0)
			}
		}
		k.Overlays.Release(a.ID)
	}
	k.Knowledge.RecordLesson(knowledge.Failure, a.ID, "", reason)
	k.Overlays.Forget(a.ID)
	k.Mercy.Forget(a.ID)
	a.Status = agent.Dissolved
	_ = now
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return soulkilnerr.ErrCancelRequested
	default:
		return nil
	}
}

func topElites(pool []ScoredAgent, n int) []ScoredAgent {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	sorted := make([]ScoredAgent, len(pool))
	copy(sorted, pool)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Fitness > sorted[j-1].Fitness; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func fitnessStats(pool []ScoredAgent) (mean, max, min float64) {
	if len(pool) == 0 {
		return 0, 0, 0
	}
	max, min = pool[0].Fitness, pool[0].Fitness
	sum := 0.0
	for _, s := range pool {
		sum += s.Fitness
		if s.Fitness > max {
			max = s.Fitness
		}
		if s.Fitness < min {
			min = s.Fitness
		}
	}
	return sum / float64(len(pool)), max, min
}

func describeVerdict(v mercy.HarmVerdict) string {
	if len(v.Reasons) == 0 {
		return string(v.Recommendation)
	}
	return v.Reasons[0]
}
