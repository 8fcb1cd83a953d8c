package manager_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/manager"
)

func TestAddParticipantAssignsID(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	p := &ical.Participant{UserName: "alice", Type: ical.ParticipantUser}
	require.NoError(t, m.AddParticipant(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := m.GetParticipantByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, ical.ParticipantUser, got.Type)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAddParticipantEmptyUserName(t *testing.T) {
	m, _ := newManager(t)

	err := m.AddParticipant(context.Background(), &ical.Participant{})
	assert.True(t, manager.IsConflict(err))
}

func TestAddParticipantWithIDFails(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	err := m.AddParticipant(ctx, &ical.Participant{ID: 7, UserName: "alice"})
	assert.True(t, manager.IsConflict(err))

	// Nothing must have been written.
	_, err = m.ListParticipants(ctx)
	assert.True(t, manager.IsNotFound(err))
}

func TestAddParticipantDuplicateUserName(t *testing.T) {
	m, _ := newManager(t)
	addParticipant(t, m, "alice")

	err := m.AddParticipant(context.Background(), &ical.Participant{UserName: "alice"})
	assert.True(t, manager.IsConflict(err))
}

func TestGetParticipantByUserName(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")

	got, err := m.GetParticipantByUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)

	_, err = m.GetParticipantByUserName(ctx, "bob")
	assert.True(t, manager.IsNotFound(err))
}

func TestGetParticipantByKey(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	alice := addParticipant(t, m, "alice")

	// Username lookup wins.
	got, err := m.GetParticipantByKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	// No participant is named "1", so the key falls back to the numeric id.
	got, err = m.GetParticipantByKey(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	// Neither a username nor a number.
	_, err = m.GetParticipantByKey(ctx, "zz9")
	assert.True(t, manager.IsConflict(err))

	// Numeric but unknown id.
	_, err = m.GetParticipantByKey(ctx, "999")
	assert.True(t, manager.IsNotFound(err))
}

func TestListParticipants(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.ListParticipants(ctx)
	assert.True(t, manager.IsNotFound(err))

	addParticipant(t, m, "alice")
	addParticipant(t, m, "bob")

	participants, err := m.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestListParticipantsByType(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")

	participants, err := m.ListParticipantsByType(ctx, ical.ParticipantUser)
	require.NoError(t, err)
	assert.Len(t, participants, 1)

	_, err = m.ListParticipantsByType(ctx, ical.ParticipantGroup)
	assert.True(t, manager.IsNotFound(err))
}

func TestUpdateParticipant(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	alice := addParticipant(t, m, "alice")

	// Unknown target id.
	err := m.UpdateParticipant(ctx, 999, &ical.Participant{UserName: "zed"})
	assert.True(t, manager.IsNotFound(err))

	// Payload id disagreeing with the target id.
	err = m.UpdateParticipant(ctx, alice.ID, &ical.Participant{ID: alice.ID + 1, UserName: "zed"})
	assert.True(t, manager.IsConflict(err))
	got, err := m.GetParticipantByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName, "failed update must not mutate the store")

	// Payload without id succeeds and keeps the target identity.
	err = m.UpdateParticipant(ctx, alice.ID, &ical.Participant{UserName: "alice2"})
	require.NoError(t, err)
	got, err = m.GetParticipantByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.UserName)

	// Payload with matching id also succeeds.
	err = m.UpdateParticipant(ctx, alice.ID, &ical.Participant{ID: alice.ID, UserName: "alice3"})
	require.NoError(t, err)
}

func TestDeleteParticipant(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	err := m.DeleteParticipantByID(ctx, 1)
	assert.True(t, manager.IsNotFound(err))

	alice := addParticipant(t, m, "alice")
	require.NoError(t, m.DeleteParticipantByID(ctx, alice.ID))

	_, err = m.GetParticipantByID(ctx, alice.ID)
	assert.True(t, manager.IsNotFound(err))
}

func TestDeleteParticipantByUserName(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	err := m.DeleteParticipantByUserName(ctx, "alice")
	assert.True(t, manager.IsNotFound(err))

	addParticipant(t, m, "alice")
	require.NoError(t, m.DeleteParticipantByUserName(ctx, "alice"))

	_, err = m.GetParticipantByUserName(ctx, "alice")
	assert.True(t, manager.IsNotFound(err))
}
