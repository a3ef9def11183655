package wizard

import (
	"testing"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badgeStatus(badges []domain.Badge, id domain.BadgeID) domain.BadgeStatus {
	for _, b := range badges {
		if b.ID == id {
			return b.Status
		}
	}
	return ""
}

func TestGamification_PromptFiresOnceOnFirstCrossing(t *testing.T) {
	g := NewGamification(nil)
	g.Baseline(40)

	assert.False(t, g.Observe(99))
	assert.True(t, g.Observe(100))
	assert.Equal(t, domain.BadgeVerified, badgeStatus(g.Badges(), domain.BadgeProfile))

	assert.False(t, g.Observe(90))
	assert.False(t, g.Observe(100), "re-crossing never re-fires")
	assert.True(t, g.PromptConsumed())
}

func TestGamification_StayingAtHundredDoesNotFire(t *testing.T) {
	g := NewGamification(nil)
	g.Baseline(0)
	require.True(t, g.Observe(100))
	assert.False(t, g.Observe(100))
}

func TestGamification_ResumeAtHundredGrantsBadgeWithoutPrompt(t *testing.T) {
	g := NewGamification(nil)
	g.Baseline(100)

	assert.True(t, g.PromptConsumed())
	assert.Equal(t, domain.BadgeVerified, badgeStatus(g.Badges(), domain.BadgeProfile))
	assert.False(t, g.Observe(80))
	assert.False(t, g.Observe(100))
}

func TestGamification_ExternalBadges(t *testing.T) {
	g := NewGamification([]domain.Badge{
		{ID: domain.BadgeVisa, Status: domain.BadgePending},
		{ID: domain.BadgeProfile, Status: domain.BadgeVerified},
	})
	badges := g.Badges()
	require.Len(t, badges, len(domain.BadgeOrder))
	assert.Equal(t, domain.BadgePending, badgeStatus(badges, domain.BadgeVisa))
	assert.Equal(t, domain.BadgeLocked, badgeStatus(badges, domain.BadgeProfile), "profile badge is never seeded")

	require.NoError(t, g.SetExternal(domain.Badge{ID: domain.BadgeIdentity, Status: domain.BadgeVerified}))
	assert.Equal(t, domain.BadgeVerified, badgeStatus(g.Badges(), domain.BadgeIdentity))
}

func TestGamification_SetExternalRejects(t *testing.T) {
	g := NewGamification(nil)

	err := g.SetExternal(domain.Badge{ID: domain.BadgeProfile, Status: domain.BadgeVerified})
	assert.ErrorIs(t, err, ErrBadgeNotExternal)

	err = g.SetExternal(domain.Badge{ID: "loyalty", Status: domain.BadgeVerified})
	assert.ErrorIs(t, err, domain.ErrInvalidBadge)

	err = g.SetExternal(domain.Badge{ID: domain.BadgeVisa, Status: "gold"})
	assert.ErrorIs(t, err, domain.ErrInvalidBadge)
}
