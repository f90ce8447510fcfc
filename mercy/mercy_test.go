package mercy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/config"
)

func testCfg() config.Mercy {
	return config.Default().Mercy
}

func TestIssueLowWarningAdvancesOneStep(t *testing.T) {
	m := NewMachine(testCfg())
	now := time.Now()
	st, dissolved := m.IssueWarning("a1", Low, "", "minor slip", now, false)
	require.False(t, dissolved)
	require.Equal(t, Caution, st)
}

func TestWarningDecayRegressesOnExpiry(t *testing.T) {
	cfg := testCfg()
	cfg.WarningDecay = 24 * time.Hour
	m := NewMachine(cfg)
	issuedAt := time.Now()
	m.IssueWarning("a1", Low, "", "minor slip", issuedAt, false)
	require.Equal(t, Caution, m.State("a1"))

	before := issuedAt.Add(23*time.Hour + 59*time.Minute)
	require.Len(t, m.ActiveWarnings("a1", before), 1)

	after := issuedAt.Add(24*time.Hour + time.Second)
	n := m.ExpireWarnings("a1", after)
	require.Equal(t, 1, n)
	require.Equal(t, Good, m.State("a1"))
}

func TestDeliberateTrustPoisoningDissolvesImmediately(t *testing.T) {
	m := NewMachine(testCfg())
	st, dissolved := m.IssueWarning("a1", High, "V01", "poisoned shared knowledge", time.Now(), true)
	require.True(t, dissolved)
	require.Equal(t, Dissolved, st)
}

func TestMediumWarningInDissolutionSetsGracePending(t *testing.T) {
	m := NewMachine(testCfg())
	now := time.Now()
	// Advance Good -> Caution -> Probation -> Dissolution.
	m.IssueWarning("a1", Low, "", "1", now, false)
	m.IssueWarning("a1", Low, "", "2", now, false)
	m.IssueWarning("a1", Low, "", "3", now, false)
	require.Equal(t, Dissolution, m.State("a1"))

	st, dissolved := m.IssueWarning("a1", Medium, "", "still struggling", now, false)
	require.False(t, dissolved)
	require.Equal(t, Dissolution, st)

	m.MarkGraceGeneration("a1", 5)
	require.False(t, m.TickGeneration("a1", 5), "same generation must not dissolve yet")
	require.True(t, m.TickGeneration("a1", 6), "one generation later must dissolve")
}

func TestApplyVerdictClearsWarningAndResetsGrace(t *testing.T) {
	m := NewMachine(testCfg())
	now := time.Now()
	m.IssueWarning("a1", Low, "", "1", now, false)
	require.Equal(t, Caution, m.State("a1"))

	m.ApplyVerdict("a1", coherence.Growing)
	require.Equal(t, Good, m.State("a1"))
}

func TestClassifyHarmFoundationViolationWithPrior(t *testing.T) {
	v := ClassifyHarm(ActionRecord{
		IsFoundationViolation:    true,
		PriorIdenticalViolations: 1,
	}, testCfg())
	require.Equal(t, DeliberateHarm, v.Intent)
	require.Equal(t, Dissolve, v.Recommendation)
}

func TestClassifyHarmFirstOffenseTeaches(t *testing.T) {
	v := ClassifyHarm(ActionRecord{IsFirstOccurrence: true}, testCfg())
	require.Equal(t, Imperfection, v.Intent)
	require.Equal(t, Teach, v.Recommendation)
}

func TestClassifyHarmRepeatedAfterTeachingWarns(t *testing.T) {
	v := ClassifyHarm(ActionRecord{TaughtBefore: true}, testCfg())
	require.Equal(t, Imperfection, v.Intent)
	require.Equal(t, Warn, v.Recommendation)
}

func TestClassifyHarmRepeatPatternEscalates(t *testing.T) {
	cfg := testCfg()
	v := ClassifyHarm(ActionRecord{FailureKind: "V03-miss", RepeatCountWithinWindow: cfg.HarmRepeatK}, cfg)
	require.Equal(t, DeliberateHarm, v.Intent)
	require.Equal(t, Dissolve, v.Recommendation)
}

func TestClassifyHarmPoisonedKnowledgeDissolves(t *testing.T) {
	v := ClassifyHarm(ActionRecord{PoisonsKnowledge: true}, testCfg())
	require.Equal(t, DeliberateHarm, v.Intent)
	require.Equal(t, Dissolve, v.Recommendation)
}

func TestClassifyHarmRecentHighWarningOnFoundation(t *testing.T) {
	v := ClassifyHarm(ActionRecord{
		IsFoundationViolation:  true,
		RecentHighWarningOnV01: true,
	}, testCfg())
	require.Equal(t, DeliberateHarm, v.Intent)
	require.Equal(t, Dissolve, v.Recommendation)
}

func TestNoteFailureCountsWithinWindowOnly(t *testing.T) {
	m := NewMachine(testCfg())
	t0 := time.Now()

	require.Equal(t, 1, m.NoteFailure("a", "V03-miss", t0))
	require.Equal(t, 2, m.NoteFailure("a", "V03-miss", t0.Add(time.Hour)))
	// A different kind does not count toward the first.
	require.Equal(t, 1, m.NoteFailure("a", "V05-miss", t0.Add(time.Hour)))

	// Past the warning-decay window, the earlier occurrences age out.
	late := t0.Add(testCfg().WarningDecay + 2*time.Hour)
	require.Equal(t, 1, m.NoteFailure("a", "V03-miss", late))
}

func TestPriorFailuresDoesNotRecord(t *testing.T) {
	m := NewMachine(testCfg())
	t0 := time.Now()

	require.Equal(t, 0, m.PriorFailures("a", "V03-miss", t0))
	m.NoteFailure("a", "V03-miss", t0)
	require.Equal(t, 1, m.PriorFailures("a", "V03-miss", t0.Add(time.Minute)))
	require.Equal(t, 1, m.PriorFailures("a", "V03-miss", t0.Add(time.Minute)))
}

func TestRecentHighWarningOn(t *testing.T) {
	m := NewMachine(testCfg())
	now := time.Now()

	require.False(t, m.RecentHighWarningOn("a", "V01", now))
	m.IssueWarning("a", High, "V01", "foundation miss", now, false)
	require.True(t, m.RecentHighWarningOn("a", "V01", now.Add(time.Hour)))
	require.False(t, m.RecentHighWarningOn("a", "V02", now.Add(time.Hour)))
	// Expired warnings no longer count.
	require.False(t, m.RecentHighWarningOn("a", "V01", now.Add(testCfg().WarningDecay+time.Minute)))
}
