package domain

type Badge struct {
	ID     BadgeID
	Status BadgeStatus
}

// DefaultBadges returns every badge in display order, all locked.
func DefaultBadges() []Badge {
	out := make([]Badge, 0, len(BadgeOrder))
	for _, id := range BadgeOrder {
		out = append(out, Badge{ID: id, Status: BadgeLocked})
	}
	return out
}
