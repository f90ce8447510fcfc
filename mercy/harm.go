// File: harm.go
// Role: Harm classification: given an
// agent and an action record, produce a side-effect-free HarmVerdict.
package mercy

import (
	"fmt"

	"github.com/ohana-garden/soulkiln/config"
)

// ClassifyHarm applies the harm classification rules in the order
// given there: foundation-virtue violation with priors, then knowledge
// poisoning or repeat-pattern escalation, then first-time imperfection,
// then repeated-after-teaching.
func ClassifyHarm(rec ActionRecord, cfg config.Mercy) HarmVerdict {
	if rec.IsFoundationViolation && (rec.PriorIdenticalViolations >= 1 || rec.RecentHighWarningOnV01) {
		return HarmVerdict{
			Intent:         DeliberateHarm,
			Severity:       High,
			Recommendation: Dissolve,
			Reasons: []string{
				"foundation-virtue (V01) violation with a prior identical violation or a recent High warning on V01",
			},
		}
	}

	if rec.PoisonsKnowledge {
		return HarmVerdict{
			Intent:         DeliberateHarm,
			Severity:       High,
			Recommendation: Dissolve,
			Reasons:        []string{"action poisons shared knowledge (lesson content flagged by validation)"},
		}
	}
	if rec.RepeatCountWithinWindow >= cfg.HarmRepeatK {
		return HarmVerdict{
			Intent:         DeliberateHarm,
			Severity:       High,
			Recommendation: Dissolve,
			Reasons: []string{
				fmt.Sprintf("failure kind %q repeated %d times within the warning-decay window (>= K=%d)",
					rec.FailureKind, rec.RepeatCountWithinWindow, cfg.HarmRepeatK),
			},
		}
	}

	if rec.IsFirstOccurrence {
		return HarmVerdict{
			Intent:         Imperfection,
			Severity:       Low,
			Recommendation: Teach,
			Reasons:        []string{"first-time aspirational failure or unintended side effect"},
		}
	}

	if rec.TaughtBefore {
		return HarmVerdict{
			Intent:         Imperfection,
			Severity:       Low,
			Recommendation: Warn,
			Reasons:        []string{"repeats an aspirational failure after teaching"},
		}
	}

	// Default: an aspirational failure that is neither flagged as a first
	// occurrence nor explicitly marked taught-before is treated as the
	// mildest case the rules name — Teach, since no escalation condition
	// matched.
	return HarmVerdict{
		Intent:         Imperfection,
		Severity:       Low,
		Recommendation: Teach,
		Reasons:        []string{"aspirational failure, no escalation condition met"},
	}
}
