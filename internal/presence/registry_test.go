package presence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(connID uuid.UUID, userID int64, username string) Snapshot {
	return Snapshot{ConnID: connID, UserID: userID, Username: username}
}

func TestAddAndList(t *testing.T) {
	r := NewRegistry()
	c1, c2, c3 := uuid.New(), uuid.New(), uuid.New()

	r.Add(c1, snapshot(c1, 1, "alice"))
	r.Add(c2, snapshot(c2, 2, "bob"))
	r.Add(c3, snapshot(c3, 3, "carol"))

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
	assert.Equal(t, "carol", list[2].Username)
}

func TestAddOverwritesSameConnection(t *testing.T) {
	r := NewRegistry()
	c1, c2 := uuid.New(), uuid.New()

	r.Add(c1, snapshot(c1, 1, "alice"))
	r.Add(c2, snapshot(c2, 2, "bob"))
	r.Add(c1, snapshot(c1, 3, "carol"))

	list := r.List()
	require.Len(t, list, 2)
	// Re-authentication replaces the snapshot but keeps the roster position.
	assert.Equal(t, "carol", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
}

func TestSameUserOnTwoConnections(t *testing.T) {
	r := NewRegistry()
	c1, c2 := uuid.New(), uuid.New()

	r.Add(c1, snapshot(c1, 1, "alice"))
	r.Add(c2, snapshot(c2, 1, "alice"))
	require.Equal(t, 2, r.Len())

	_, ok := r.Remove(c1)
	require.True(t, ok)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, c2, list[0].ConnID)
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	r := NewRegistry()
	c1 := uuid.New()
	r.Add(c1, snapshot(c1, 1, "alice"))

	_, ok := r.Remove(uuid.New())
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c1 := uuid.New()
	r.Add(c1, snapshot(c1, 1, "alice"))

	snap, ok := r.Get(c1)
	require.True(t, ok)
	assert.Equal(t, int64(1), snap.UserID)

	_, ok = r.Get(uuid.New())
	assert.False(t, ok)
}

func TestRosterMatchesAuthenticatedSet(t *testing.T) {
	r := NewRegistry()
	conns := make([]uuid.UUID, 5)
	for i := range conns {
		conns[i] = uuid.New()
		r.Add(conns[i], snapshot(conns[i], int64(i+1), "user"))
	}

	for i, c := range conns {
		_, ok := r.Remove(c)
		require.True(t, ok)
		assert.Len(t, r.List(), len(conns)-i-1)
	}
	assert.Empty(t, r.List())
}
