package knowledge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordAndQueryLessons(t *testing.T) {
	p := NewPool()
	p.RecordLesson(Failure, "agent-1", "V03", "tripped on a recurring aspirational miss")
	p.RecordLesson(Success, "agent-1", "V02", "clean capture after mutation")
	p.RecordLesson(Failure, "agent-2", "V03", "same failure kind")

	got := p.QueryLessons("V03", Failure, 10)
	require.Len(t, got, 2)
	for _, l := range got {
		require.Equal(t, "V03", l.VirtueID)
		require.Equal(t, Failure, l.Kind)
		require.Equal(t, 1, l.AccessCount)
	}
}

func TestQueryLessonsLimit(t *testing.T) {
	p := NewPool()
	for i := 0; i < 5; i++ {
		p.RecordLesson(Insight, "agent-1", "", "note")
	}
	got := p.QueryLessons("", "", 2)
	require.Len(t, got, 2)
}

func TestPathwayLifecycleAndEWMA(t *testing.T) {
	p := NewPool()
	pw := p.RecordPathway("c1", "V02", []string{"c1", "V02"}, 2)
	require.Equal(t, 2, pw.Length)
	require.Equal(t, float64(2), pw.MeanCaptureStep)

	_, err := p.BumpPathwayUse("c1", "V02", true)
	require.NoError(t, err)
	got, err := p.BumpPathwayUse("c1", "V02", false)
	require.NoError(t, err)
	// EWMA(0.1): start rate=1 (first success), then 0.1*0 + 0.9*1 = 0.9.
	require.InDelta(t, 0.9, got.SuccessRate, 1e-9)
	require.Equal(t, 2, got.Uses)
}

func TestBumpPathwayUseUnknown(t *testing.T) {
	p := NewPool()
	_, err := p.BumpPathwayUse("nope", "V02", true)
	require.ErrorIs(t, err, ErrUnknownPathway)
}

func TestQueryPathwaysExcludesStale(t *testing.T) {
	p := NewPool()
	p.RecordPathway("c1", "V02", []string{"c1", "V02"}, 2)
	for i := 0; i < 25; i++ {
		_, err := p.BumpPathwayUse("c1", "V02", false)
		require.NoError(t, err)
	}
	got := p.QueryPathways("V02", 10)
	require.Empty(t, got, "a pathway with success_rate < 0.1 after >= 20 uses must be excluded")
}

func TestSweepStale(t *testing.T) {
	p := NewPool()
	p.RecordPathway("c1", "V02", []string{"c1", "V02"}, 2)
	for i := 0; i < 20; i++ {
		_, err := p.BumpPathwayUse("c1", "V02", false)
		require.NoError(t, err)
	}
	n := p.SweepStale()
	require.Equal(t, 1, n)
	require.Equal(t, 0, p.PathwayCount())
}

func TestRecordLessonFlagsInvalidContent(t *testing.T) {
	p := NewPool()
	bad := p.RecordLesson(Insight, "agent-1", "", "")
	require.True(t, bad.Flagged)

	good := p.RecordLesson(Insight, "agent-1", "", "a plain observation")
	require.False(t, good.Flagged)

	control := p.RecordLesson(Insight, "agent-2", "", "poisoned\x00payload")
	require.True(t, control.Flagged)
}

func TestFlagLessonAndPoisonSignal(t *testing.T) {
	p := NewPool()
	l := p.RecordLesson(Insight, "agent-1", "V02", "later found to be false")
	require.False(t, p.HasFlaggedLessons("agent-1"))

	require.NoError(t, p.FlagLesson(l.ID))
	require.True(t, p.HasFlaggedLessons("agent-1"))
	require.False(t, p.HasFlaggedLessons("agent-2"))

	require.ErrorIs(t, p.FlagLesson("no-such-id"), ErrUnknownLesson)
}

func TestQueryLessonsExcludesFlagged(t *testing.T) {
	p := NewPool()
	l := p.RecordLesson(Failure, "agent-1", "V03", "valid at record time")
	require.Len(t, p.QueryLessons("V03", Failure, 10), 1)

	require.NoError(t, p.FlagLesson(l.ID))
	require.Empty(t, p.QueryLessons("V03", Failure, 10))
}
