package manager_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/manager"
)

func TestAddComponentTree(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")

	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)
	assert.NotZero(t, root.ID)
	assert.Nil(t, root.ParentID)

	child := addComponent(t, m, "alice", ical.ComponentEvent, &root.ID)
	assert.NotZero(t, child.ID)

	children, err := m.ListComponentsByParent(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
	assert.Equal(t, ical.ComponentEvent, children[0].Type)
	require.NotNil(t, children[0].ParentID)
	assert.Equal(t, root.ID, *children[0].ParentID)
}

func TestAddComponentChecks(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")

	// Empty owner.
	err := m.AddComponent(ctx, &ical.Component{Type: ical.ComponentEvent}, "", nil)
	assert.True(t, manager.IsConflict(err))

	// Payload carrying an id.
	err = m.AddComponent(ctx, &ical.Component{ID: 3, Type: ical.ComponentEvent}, "alice", nil)
	assert.True(t, manager.IsConflict(err))

	// Unknown type tag.
	err = m.AddComponent(ctx, &ical.Component{Type: "PARTY"}, "alice", nil)
	assert.True(t, manager.IsConflict(err))

	// Unknown owner.
	err = m.AddComponent(ctx, &ical.Component{Type: ical.ComponentEvent}, "bob", nil)
	assert.True(t, manager.IsNotFound(err))

	// Missing parent.
	missing := int64(42)
	err = m.AddComponent(ctx, &ical.Component{Type: ical.ComponentEvent}, "alice", &missing)
	assert.True(t, manager.IsNotFound(err))

	// Nothing was written along the way.
	_, err = m.ListComponents(ctx)
	assert.True(t, manager.IsNotFound(err))
}

func TestGetComponentPopulatesRelations(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")

	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)
	child := addComponent(t, m, "alice", ical.ComponentEvent, &root.ID)
	prop := addProperty(t, m, "alice", root.ID, ical.PropertySummary, "team calendar")

	got, err := m.GetComponentByID(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, got.Components, 1)
	assert.Equal(t, child.ID, got.Components[0].ID)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, prop.ID, got.Properties[0].ID)
}

func TestListComponentsByParentEmpty(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")
	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)

	// A valid parent with no children is still reported as not found.
	_, err := m.ListComponentsByParent(ctx, root.ID)
	assert.True(t, manager.IsNotFound(err))

	// As is a missing parent.
	_, err = m.ListComponentsByParent(ctx, 999)
	assert.True(t, manager.IsNotFound(err))
}

func TestListComponentsByParentAndType(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")
	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)
	addComponent(t, m, "alice", ical.ComponentEvent, &root.ID)
	addComponent(t, m, "alice", ical.ComponentTodo, &root.ID)

	events, err := m.ListComponentsByParentAndType(ctx, root.ID, ical.ComponentEvent)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = m.ListComponentsByParentAndType(ctx, root.ID, ical.ComponentJournal)
	assert.True(t, manager.IsNotFound(err))
}

func TestListComponentsByOwner(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")
	addParticipant(t, m, "bob")
	addComponent(t, m, "alice", ical.ComponentCalendar, nil)

	components, err := m.ListComponentsByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, components, 1)

	_, err = m.ListComponentsByOwner(ctx, "bob")
	assert.True(t, manager.IsNotFound(err))

	_, err = m.ListComponentsByOwner(ctx, "carol")
	assert.True(t, manager.IsNotFound(err))
}

func TestListComponentsByOwnerAndType(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")
	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)
	addComponent(t, m, "alice", ical.ComponentEvent, &root.ID)

	events, err := m.ListComponentsByOwnerAndType(ctx, "alice", ical.ComponentEvent)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = m.ListComponentsByOwnerAndType(ctx, "alice", ical.ComponentTodo)
	assert.True(t, manager.IsNotFound(err))
}

func TestListComponentsByType(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")
	addComponent(t, m, "alice", ical.ComponentCalendar, nil)

	calendars, err := m.ListComponentsByType(ctx, ical.ComponentCalendar)
	require.NoError(t, err)
	assert.Len(t, calendars, 1)

	_, err = m.ListComponentsByType(ctx, ical.ComponentFreebusy)
	assert.True(t, manager.IsNotFound(err))
}

func TestUpdateComponent(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")
	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)

	// Unknown target id.
	err := m.UpdateComponent(ctx, 999, &ical.Component{Type: ical.ComponentEvent})
	assert.True(t, manager.IsNotFound(err))

	// Payload id disagreeing with the target id.
	err = m.UpdateComponent(ctx, root.ID, &ical.Component{ID: root.ID + 1, Type: ical.ComponentEvent})
	assert.True(t, manager.IsConflict(err))

	// Content replace succeeds, identity preserved.
	err = m.UpdateComponent(ctx, root.ID, &ical.Component{Type: ical.ComponentTimezone})
	require.NoError(t, err)
	got, err := m.GetComponentByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, ical.ComponentTimezone, got.Type)
}

func TestUpdateComponentPreservesOwner(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	alice := addParticipant(t, m, "alice")
	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)

	// A payload claiming a different owner must not rewrite the lineage.
	err := m.UpdateComponent(ctx, root.ID, &ical.Component{Type: ical.ComponentCalendar, OwnerID: 999})
	require.NoError(t, err)

	got, err := m.GetComponentByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.OwnerID)
}

func TestUpdateComponentRejectsCycle(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")
	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)
	child := addComponent(t, m, "alice", ical.ComponentEvent, &root.ID)
	grandchild := addComponent(t, m, "alice", ical.ComponentAlarm, &child.ID)

	// Re-parenting the root under its own grandchild closes a cycle.
	err := m.UpdateComponent(ctx, root.ID, &ical.Component{Type: ical.ComponentCalendar, ParentID: &grandchild.ID})
	assert.True(t, manager.IsConflict(err))

	// A self-parent is the degenerate cycle.
	err = m.UpdateComponent(ctx, child.ID, &ical.Component{Type: ical.ComponentEvent, ParentID: &child.ID})
	assert.True(t, manager.IsConflict(err))

	// A missing parent is still a not-found, checked before the cycle walk.
	missing := int64(999)
	err = m.UpdateComponent(ctx, child.ID, &ical.Component{Type: ical.ComponentEvent, ParentID: &missing})
	assert.True(t, manager.IsNotFound(err))
}

func TestDeleteComponent(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	err := m.DeleteComponentByID(ctx, 1)
	assert.True(t, manager.IsNotFound(err))

	addParticipant(t, m, "alice")
	root := addComponent(t, m, "alice", ical.ComponentCalendar, nil)
	require.NoError(t, m.DeleteComponentByID(ctx, root.ID))

	_, err = m.GetComponentByID(ctx, root.ID)
	assert.True(t, manager.IsNotFound(err))
}

// TestConcurrentDeleteDuringAdd exercises the documented check-then-act
// window: a component may disappear between the manager's existence check
// and the store write. Any outcome is acceptable as long as each call
// returns cleanly.
func TestConcurrentDeleteDuringAdd(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	addParticipant(t, m, "alice")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		c := addComponent(t, m, "alice", ical.ComponentEvent, nil)
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			_ = m.DeleteComponentByID(ctx, id)
		}(c.ID)
		go func(id int64) {
			defer wg.Done()
			p := &ical.Property{Type: ical.PropertySummary, Value: "racing"}
			_ = m.AddProperty(ctx, p, "alice", id)
		}(c.ID)
	}
	wg.Wait()
}
