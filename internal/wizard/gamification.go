package wizard

import (
	"fmt"

	"github.com/alexanderramin/crossjob/internal/domain"
)

// Gamification derives badge states from aggregate completion. The profile
// badge and the accept-proposals prompt are edge-triggered on the first
// crossing to 100% and gated by a consumed flag for the rest of the session.
type Gamification struct {
	badges   map[domain.BadgeID]domain.BadgeStatus
	last     int
	consumed bool
}

// NewGamification seeds badge states. Externally controlled badges keep the
// given status; the profile badge always starts locked.
func NewGamification(external []domain.Badge) *Gamification {
	g := &Gamification{badges: make(map[domain.BadgeID]domain.BadgeStatus, len(domain.BadgeOrder))}
	for _, b := range domain.DefaultBadges() {
		g.badges[b.ID] = b.Status
	}
	for _, b := range external {
		if b.ID == domain.BadgeProfile {
			continue
		}
		g.badges[b.ID] = b.Status
	}
	return g
}

// Baseline records the completion a session starts with. A session that
// resumes at 100% gets the profile badge without the prompt.
func (g *Gamification) Baseline(total int) {
	g.last = total
	if total >= 100 {
		g.badges[domain.BadgeProfile] = domain.BadgeVerified
		g.consumed = true
	}
}

// Observe feeds a new aggregate value and reports whether the one-time
// prompt must fire now.
func (g *Gamification) Observe(total int) bool {
	crossed := g.last < 100 && total >= 100
	g.last = total
	if !crossed || g.consumed {
		return false
	}
	g.consumed = true
	g.badges[domain.BadgeProfile] = domain.BadgeVerified
	return true
}

// PromptConsumed reports whether the prompt has fired (or was skipped on resume).
func (g *Gamification) PromptConsumed() bool { return g.consumed }

// SetExternal updates an administrator- or system-controlled badge.
func (g *Gamification) SetExternal(b domain.Badge) error {
	if b.ID == domain.BadgeProfile {
		return fmt.Errorf("badge %s: %w", b.ID, ErrBadgeNotExternal)
	}
	if _, ok := g.badges[b.ID]; !ok || !domain.ValidBadgeStatuses[string(b.Status)] {
		return fmt.Errorf("badge %s=%s: %w", b.ID, b.Status, domain.ErrInvalidBadge)
	}
	g.badges[b.ID] = b.Status
	return nil
}

// Badges returns every badge in display order.
func (g *Gamification) Badges() []domain.Badge {
	out := make([]domain.Badge, 0, len(domain.BadgeOrder))
	for _, id := range domain.BadgeOrder {
		out = append(out, domain.Badge{ID: id, Status: g.badges[id]})
	}
	return out
}
