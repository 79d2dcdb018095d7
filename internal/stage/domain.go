package stage

import "errors"

// Stage is one named step in the wash pipeline. The set is near-static:
// 1st Dry, Unwash, 1st Wash, 2nd Dry and Final Wash are seeded at install.
type Stage struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ErrNotFound indicates the stage does not exist.
var ErrNotFound = errors.New("stage: not found")
