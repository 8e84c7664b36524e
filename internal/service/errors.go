package service

import "errors"

// ErrValidation marks input rejected before any store call; no partial write
// happened.
var ErrValidation = errors.New("validation failed")

// ErrStreakInconsistent marks a partial streak toggle: the completion row
// changed but the habit counters did not. The completion rows stay the source
// of truth; AuditStreaks detects the divergence.
var ErrStreakInconsistent = errors.New("habit counters out of sync with completions")
