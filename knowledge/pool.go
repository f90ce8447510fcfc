// File: pool.go
// Role: The Knowledge Pool's operations: record_lesson,
// record_pathway, query_lessons, query_pathways, bump_pathway_use, and the
// SweepStale storage-reclaim pass.
package knowledge

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// entry pairs a Pathway with the mutex guarding its own counters, so writes
// to one pathway never block writes to another ("linearizable per
// key").
type entry struct {
	mu sync.Mutex
	p  *Pathway
}

// Pool is the shared Knowledge Pool. Lessons are never removed and, once
// recorded, change only in AccessCount and Flagged (under muLessons);
// Pathways are mutated in place per key via entry.mu and removed only by
// SweepStale.
type Pool struct {
	muLessons sync.Mutex
	lessons   map[string]*Lesson

	pathways sync.Map // key string -> *entry
}

// NewPool returns an empty Knowledge Pool.
func NewPool() *Pool {
	return &Pool{lessons: make(map[string]*Lesson)}
}

// maxLessonLength caps lesson descriptions; longer content fails
// validation and is stored flagged rather than trusted.
const maxLessonLength = 4096

// lessonContentValid is the record-time validation pass: a lesson must be
// non-empty, within the length cap, and free of control characters.
func lessonContentValid(description string) bool {
	if description == "" || len(description) > maxLessonLength {
		return false
	}
	for _, r := range description {
		if r < ' ' && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

// RecordLesson appends a new Lesson and returns it. Content that fails
// validation is still recorded — the record is evidence — but arrives
// flagged, excluded from queries and visible to HasFlaggedLessons.
func (p *Pool) RecordLesson(kind LessonKind, sourceAgentID, virtueID, description string) *Lesson {
	l := &Lesson{
		ID:            uuid.NewString(),
		Kind:          kind,
		SourceAgentID: sourceAgentID,
		VirtueID:      virtueID,
		Description:   description,
		CreatedAt:     time.Now(),
		Flagged:       !lessonContentValid(description),
	}
	p.muLessons.Lock()
	p.lessons[l.ID] = l
	p.muLessons.Unlock()
	return l
}

// FlagLesson marks an already-recorded lesson as rejected by validation
// (content later found false or harmful). Returns ErrUnknownLesson if no
// lesson has that id.
func (p *Pool) FlagLesson(id string) error {
	p.muLessons.Lock()
	defer p.muLessons.Unlock()
	l, ok := p.lessons[id]
	if !ok {
		return ErrUnknownLesson
	}
	l.Flagged = true
	return nil
}

// HasFlaggedLessons reports whether any lesson sourced from agentID has
// been flagged by validation — the knowledge-poisoning signal harm
// classification consumes.
func (p *Pool) HasFlaggedLessons(sourceAgentID string) bool {
	p.muLessons.Lock()
	defer p.muLessons.Unlock()
	for _, l := range p.lessons {
		if l.SourceAgentID == sourceAgentID && l.Flagged {
			return true
		}
	}
	return false
}

// QueryLessons returns lessons matching the optional virtueID/kind filters
// (empty virtueID or "" kind means "any"), newest first, capped at limit
// (limit <= 0 means unlimited). Flagged lessons are excluded. Matching
// lessons have AccessCount bumped.
func (p *Pool) QueryLessons(virtueID string, kind LessonKind, limit int) []*Lesson {
	p.muLessons.Lock()
	defer p.muLessons.Unlock()

	var out []*Lesson
	for _, l := range p.lessons {
		if virtueID != "" && l.VirtueID != virtueID {
			continue
		}
		if kind != "" && l.Kind != kind {
			continue
		}
		if l.Flagged {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for _, l := range out {
		l.AccessCount++
	}
	cp := make([]*Lesson, len(out))
	for i, l := range out {
		v := *l
		cp[i] = &v
	}
	return cp
}

// PathwayKey derives the stable key (start_node, anchor) a Pathway is
// indexed by; the start node disambiguates distinct routes into the
// same anchor.
func PathwayKey(startNodeID, anchorID string) string {
	return startNodeID + "->" + anchorID
}

// RecordPathway creates or updates the pathway from startNodeID to
// anchorID via path. If a pathway for this key already exists, its Path,
// Length and MeanCaptureStep are refreshed from the new observation and
// Uses/SuccessRate are left to BumpPathwayUse.
func (p *Pool) RecordPathway(startNodeID, anchorID string, path []string, captureStep int) *Pathway {
	key := PathwayKey(startNodeID, anchorID)
	v, _ := p.pathways.LoadOrStore(key, &entry{p: &Pathway{
		ID:          uuid.NewString(),
		StartNodeID: startNodeID,
		AnchorID:    anchorID,
		CreatedAt:   time.Now(),
	}})
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.p.Path = append([]string(nil), path...)
	e.p.Length = len(path)
	if e.p.Uses == 0 {
		e.p.MeanCaptureStep = float64(captureStep)
	} else {
		n := float64(e.p.Uses)
		e.p.MeanCaptureStep = (e.p.MeanCaptureStep*n + float64(captureStep)) / (n + 1)
	}
	cp := *e.p
	return &cp
}

// BumpPathwayUse updates a pathway's success_rate as an exponentially
// weighted moving average with smoothing factor 0.1, then
// increments its use count. Returns ErrUnknownPathway if no pathway was
// ever recorded under (startNodeID, anchorID).
func (p *Pool) BumpPathwayUse(startNodeID, anchorID string, success bool) (*Pathway, error) {
	key := PathwayKey(startNodeID, anchorID)
	v, ok := p.pathways.Load(key)
	if !ok {
		return nil, ErrUnknownPathway
	}
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	obs := 0.0
	if success {
		obs = 1.0
	}
	if e.p.Uses == 0 {
		e.p.SuccessRate = obs
	} else {
		e.p.SuccessRate = ewmaSmoothing*obs + (1-ewmaSmoothing)*e.p.SuccessRate
	}
	e.p.Uses++
	cp := *e.p
	return &cp, nil
}

// QueryPathways returns up to k pathways into anchorID, excluding stale
// ones, ordered by descending SuccessRate then ascending Uses.
func (p *Pool) QueryPathways(anchorID string, k int) []*Pathway {
	var out []*Pathway
	p.pathways.Range(func(_, v interface{}) bool {
		e := v.(*entry)
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.p.AnchorID == anchorID && !e.p.IsStale() {
			cp := *e.p
			out = append(out, &cp)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate > out[j].SuccessRate
		}
		return out[i].Uses < out[j].Uses
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// SweepStale removes every pathway IsStale reports true for, returning the
// count reclaimed.
func (p *Pool) SweepStale() int {
	var keys []string
	p.pathways.Range(func(k, v interface{}) bool {
		e := v.(*entry)
		e.mu.Lock()
		stale := e.p.IsStale()
		e.mu.Unlock()
		if stale {
			keys = append(keys, k.(string))
		}
		return true
	})
	for _, k := range keys {
		p.pathways.Delete(k)
	}
	return len(keys)
}

// AllLessons returns a copy of every lesson, sorted newest first, without
// bumping access counts. Used for generation-boundary persistence, where a
// snapshot must not look like a read.
func (p *Pool) AllLessons() []*Lesson {
	p.muLessons.Lock()
	defer p.muLessons.Unlock()

	out := make([]*Lesson, 0, len(p.lessons))
	for _, l := range p.lessons {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// AllPathways returns a copy of every pathway, stale ones included, sorted
// by key. Used for generation-boundary persistence.
func (p *Pool) AllPathways() []*Pathway {
	var out []*Pathway
	p.pathways.Range(func(_, v interface{}) bool {
		e := v.(*entry)
		e.mu.Lock()
		cp := *e.p
		cp.Path = append([]string(nil), e.p.Path...)
		e.mu.Unlock()
		out = append(out, &cp)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return PathwayKey(out[i].StartNodeID, out[i].AnchorID) < PathwayKey(out[j].StartNodeID, out[j].AnchorID)
	})
	return out
}

// LessonCount and PathwayCount support the `status` CLI verb.
func (p *Pool) LessonCount() int {
	p.muLessons.Lock()
	defer p.muLessons.Unlock()
	return len(p.lessons)
}

func (p *Pool) PathwayCount() int {
	n := 0
	p.pathways.Range(func(_, _ interface{}) bool { n++; return true })
	return n
}
