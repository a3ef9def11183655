package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sc(index, percent int) StepScore {
	return StepScore{Index: index, Percent: percent, IsComplete: percent >= 100}
}

func completion(total int, steps ...StepScore) Completion {
	return Completion{TotalPercent: total, Steps: steps}
}

// unsetBranch is the completion shape before residency is chosen.
var unsetBranch = completion(0, sc(0, 0), sc(4, 0), sc(5, 0), sc(6, 0))

func TestNavigator_NextSkipsInapplicableSteps(t *testing.T) {
	n := NewNavigator(8)
	require.True(t, n.Next(unsetBranch))
	assert.Equal(t, Location{Index: 4}, n.Location())

	require.True(t, n.Next(unsetBranch))
	require.True(t, n.Next(unsetBranch))
	assert.Equal(t, Location{Index: 6}, n.Location())

	require.True(t, n.Next(unsetBranch), "last applicable step advances to review")
	assert.True(t, n.Location().Review)
	assert.False(t, n.Next(unsetBranch), "next from review is a no-op")
}

func TestNavigator_PrevAtFirstStepIsNoop(t *testing.T) {
	n := NewNavigator(8)
	assert.False(t, n.Prev(unsetBranch))
	assert.Equal(t, Location{Index: 0}, n.Location())
}

func TestNavigator_PrevSkipsInapplicableSteps(t *testing.T) {
	n := NewNavigator(8)
	require.True(t, n.Next(unsetBranch))
	require.True(t, n.Prev(unsetBranch))
	assert.Equal(t, Location{Index: 0}, n.Location())
}

func TestNavigator_PrevFromReviewReturnsToLastVisited(t *testing.T) {
	domestic := completion(100, sc(0, 100), sc(1, 100), sc(2, 100), sc(3, 100), sc(4, 100), sc(5, 100), sc(6, 100), sc(7, 100))
	n := NewNavigator(8)
	require.True(t, n.JumpTo(7, domestic))
	require.True(t, n.Next(domestic))
	require.True(t, n.Location().Review)
	assert.Equal(t, 7, n.LastVisited())

	require.True(t, n.Prev(domestic))
	assert.Equal(t, Location{Index: 7}, n.Location())
}

func TestNavigator_PrevFromReviewWhenLastVisitedBecameInapplicable(t *testing.T) {
	domestic := completion(100, sc(0, 100), sc(1, 100), sc(2, 100), sc(3, 100), sc(4, 100), sc(5, 100), sc(6, 100), sc(7, 100))
	overseas := completion(100, sc(0, 100), sc(1, 100), sc(2, 100), sc(3, 100), sc(4, 100), sc(5, 100), sc(6, 100))
	n := NewNavigator(8)
	require.True(t, n.JumpTo(7, domestic))
	require.True(t, n.Next(domestic))

	require.True(t, n.Prev(overseas))
	assert.Equal(t, Location{Index: 6}, n.Location())
}

func TestNavigator_JumpTo(t *testing.T) {
	c := completion(60, sc(0, 100), sc(1, 40), sc(2, 100), sc(3, 0), sc(4, 0), sc(5, 100), sc(6, 0))

	tests := []struct {
		name   string
		start  int
		target int
		want   bool
	}{
		{"backward to reached step", 2, 1, true},
		{"same step", 2, 2, true},
		{"forward to complete step", 0, 5, true},
		{"forward to incomplete step", 0, 3, false},
		{"inapplicable step", 0, 7, false},
		{"out of range high", 0, 8, false},
		{"out of range low", 0, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNavigator(8)
			n.moveTo(tt.start)
			assert.Equal(t, tt.want, n.JumpTo(tt.target, c))
			if tt.want {
				assert.Equal(t, Location{Index: tt.target}, n.Location())
			} else {
				assert.Equal(t, Location{Index: tt.start}, n.Location())
			}
		})
	}
}

func TestNavigator_JumpFromReviewReachesAnyApplicableStep(t *testing.T) {
	c := completion(100, sc(0, 100), sc(4, 100), sc(5, 100), sc(6, 100))
	n := NewNavigator(8)
	require.True(t, n.Review(c))
	require.True(t, n.JumpTo(5, c))
	assert.Equal(t, Location{Index: 5}, n.Location())
}

func TestNavigator_ReviewRequiresFullCompletion(t *testing.T) {
	n := NewNavigator(8)
	assert.False(t, n.Review(completion(99, sc(0, 100), sc(4, 96))))
	assert.False(t, n.Location().Review)

	assert.True(t, n.Review(completion(100, sc(0, 100), sc(4, 100))))
	assert.True(t, n.Location().Review)
}

func TestNavigator_ResumeJumpsOnce(t *testing.T) {
	c := completion(50, sc(0, 100), sc(1, 100), sc(2, 30), sc(3, 0), sc(4, 0), sc(5, 100), sc(6, 50))
	n := NewNavigator(8)
	require.True(t, n.Resume(c))
	assert.Equal(t, Location{Index: 2}, n.Location())

	require.True(t, n.Prev(c))
	assert.False(t, n.Resume(c), "resume never jumps twice")
	assert.Equal(t, Location{Index: 1}, n.Location())
}

func TestNavigator_ResumeSkipsEmptyAndFinishedSessions(t *testing.T) {
	for _, c := range []Completion{unsetBranch, completion(100, sc(0, 100), sc(4, 100))} {
		n := NewNavigator(8)
		assert.False(t, n.Resume(c))
		assert.Equal(t, Location{Index: 0}, n.Location())
	}
}

func TestNavigator_DisarmResume(t *testing.T) {
	n := NewNavigator(8)
	n.DisarmResume()
	assert.False(t, n.Resume(completion(50, sc(0, 100), sc(4, 0))))
}
