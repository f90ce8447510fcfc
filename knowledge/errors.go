package knowledge

import "errors"

// ErrUnknownPathway is returned by BumpPathwayUse when no pathway was ever
// recorded under the given (start, anchor) key.
var ErrUnknownPathway = errors.New("knowledge: unknown pathway")

// ErrUnknownLesson is returned by FlagLesson when no lesson has the
// given id.
var ErrUnknownLesson = errors.New("knowledge: unknown lesson")
