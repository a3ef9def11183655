package wizard

// Location is the navigation position: a registry index, or the review
// pseudo-state after the last applicable step.
type Location struct {
	Index  int  `json:"index"`
	Review bool `json:"review"`
}

// Navigator is the step-index state machine. Every transition consults a
// Completion so that it agrees with the scorer on what is applicable.
// Rejected transitions are no-ops reported by a false return.
type Navigator struct {
	count       int
	current     int
	review      bool
	lastVisited int
	autoJumped  bool
}

// NewNavigator creates a navigator over count steps, positioned at step 0.
func NewNavigator(count int) *Navigator {
	return &Navigator{count: count}
}

// Location reports the current step index, or review.
func (n *Navigator) Location() Location {
	return Location{Index: n.current, Review: n.review}
}

// LastVisited is the step prev returns to from review.
func (n *Navigator) LastVisited() int { return n.lastVisited }

// Next advances to the next applicable step, or to review from the last
// applicable step. Callers are responsible for local validation.
func (n *Navigator) Next(c Completion) bool {
	if n.review {
		return false
	}
	for _, s := range c.Steps {
		if s.Index > n.current {
			n.moveTo(s.Index)
			return true
		}
	}
	n.lastVisited = n.current
	n.review = true
	return true
}

// Prev leaves review for the last visited step, or moves to the previous
// applicable step. At the first applicable step it is a no-op.
func (n *Navigator) Prev(c Completion) bool {
	if n.review {
		n.review = false
		target := n.lastVisited
		if _, ok := c.ScoreAt(target); !ok {
			target = previousApplicable(c, target+1, target)
		}
		n.moveTo(target)
		return true
	}
	target := previousApplicable(c, n.current, -1)
	if target < 0 {
		return false
	}
	n.moveTo(target)
	return true
}

// JumpTo moves to target if it is applicable and either already reached
// (target <= current) or fully complete. From review every applicable step
// counts as reached. Anything else, including out-of-range targets, is a no-op.
func (n *Navigator) JumpTo(target int, c Completion) bool {
	if target < 0 || target >= n.count {
		return false
	}
	score, ok := c.ScoreAt(target)
	if !ok {
		return false
	}
	reached := n.current
	if n.review {
		reached = n.count
	}
	if target > reached && !score.IsComplete {
		return false
	}
	n.review = false
	n.moveTo(target)
	return true
}

// Review moves straight to the review pseudo-state. Only permitted when
// every applicable step is complete.
func (n *Navigator) Review(c Completion) bool {
	if n.review || c.TotalPercent < 100 {
		return false
	}
	n.lastVisited = n.current
	n.review = true
	return true
}

// Resume performs the one-shot resume jump: when a session starts partially
// complete, move to the first applicable step that is not complete. Later
// calls never jump again.
func (n *Navigator) Resume(c Completion) bool {
	if n.autoJumped {
		return false
	}
	n.autoJumped = true
	if c.TotalPercent <= 0 || c.TotalPercent >= 100 {
		return false
	}
	for _, s := range c.Steps {
		if !s.IsComplete {
			n.review = false
			n.moveTo(s.Index)
			return true
		}
	}
	return false
}

// DisarmResume consumes the resume jump without moving.
func (n *Navigator) DisarmResume() { n.autoJumped = true }

func (n *Navigator) moveTo(i int) {
	n.current = i
	n.lastVisited = i
}

// previousApplicable returns the greatest applicable index below before, or
// fallback when there is none.
func previousApplicable(c Completion, before, fallback int) int {
	target := fallback
	for _, s := range c.Steps {
		if s.Index >= before {
			break
		}
		target = s.Index
	}
	return target
}
