package manager

import (
	"context"

	"github.com/cavabunga/cavabunga/ical"
)

// AddComponent creates a component owned by the named participant, optionally
// attached under an existing parent. A nil parentID creates a root node.
func (m *Manager) AddComponent(ctx context.Context, c *ical.Component, owner string, parentID *int64) error {
	if owner == "" {
		return conflictf("component owner cannot be empty")
	}
	if c.ID != 0 {
		return conflictf("new component cannot have an id, use update instead")
	}
	if !c.Type.Valid() {
		return conflictf("unknown component type %q", c.Type)
	}

	ownerExists, err := m.CheckParticipantExistsByUserName(ctx, owner)
	if err != nil {
		return err
	}
	if !ownerExists {
		return notFoundf("participant with username %q could not be found", owner)
	}

	if parentID != nil {
		parentExists, err := m.CheckComponentExistsByID(ctx, *parentID)
		if err != nil {
			return err
		}
		if !parentExists {
			return notFoundf("parent component with id %d could not be found", *parentID)
		}
	}

	participant, err := m.participants.FindParticipantByUserName(ctx, owner)
	if err != nil {
		return err
	}
	c.OwnerID = participant.ID
	c.ParentID = parentID

	id, err := m.components.SaveComponent(ctx, c)
	if err != nil {
		return err
	}
	c.ID = id
	m.logger.Info("component created", "id", id, "type", c.Type, "owner", owner)
	return nil
}

// GetComponentByID returns the component with the given id, with its direct
// children and properties populated by the store.
func (m *Manager) GetComponentByID(ctx context.Context, id int64) (*ical.Component, error) {
	exists, err := m.CheckComponentExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundf("component with id %d could not be found", id)
	}
	return m.components.FindComponentByID(ctx, id)
}

// ListComponents returns all components.
func (m *Manager) ListComponents(ctx context.Context) ([]*ical.Component, error) {
	components, err := m.components.FindAllComponents(ctx)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, notFoundf("no component found")
	}
	return components, nil
}

// ListComponentsByParent returns the direct children of the given component.
// A valid parent with no children is reported as not found, distinguishable
// from a missing parent only by message.
func (m *Manager) ListComponentsByParent(ctx context.Context, parentID int64) ([]*ical.Component, error) {
	parentExists, err := m.CheckComponentExistsByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parentExists {
		return nil, notFoundf("parent component with id %d could not be found", parentID)
	}

	childExists, err := m.CheckComponentExistsByParentID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !childExists {
		return nil, notFoundf("no child component found for parent id %d", parentID)
	}
	return m.components.FindComponentsByParent(ctx, parentID)
}

// ListComponentsByParentAndType returns the direct children of the given
// component that carry the given type tag.
func (m *Manager) ListComponentsByParentAndType(ctx context.Context, parentID int64, t ical.ComponentType) ([]*ical.Component, error) {
	parentExists, err := m.CheckComponentExistsByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parentExists {
		return nil, notFoundf("parent component with id %d could not be found", parentID)
	}

	childExists, err := m.CheckComponentExistsByParentIDAndType(ctx, parentID, t)
	if err != nil {
		return nil, err
	}
	if !childExists {
		return nil, notFoundf("no child component found for parent id %d with type %s", parentID, t)
	}
	return m.components.FindComponentsByParentAndType(ctx, parentID, t)
}

// ListComponentsByOwner returns every component owned by the named participant.
func (m *Manager) ListComponentsByOwner(ctx context.Context, userName string) ([]*ical.Component, error) {
	participant, err := m.GetParticipantByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}

	components, err := m.components.FindComponentsByOwner(ctx, participant.ID)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, notFoundf("no component found for participant %q", userName)
	}
	return components, nil
}

// ListComponentsByOwnerAndType returns the named participant's components of
// the given type.
func (m *Manager) ListComponentsByOwnerAndType(ctx context.Context, userName string, t ical.ComponentType) ([]*ical.Component, error) {
	participant, err := m.GetParticipantByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}

	exists, err := m.CheckComponentExistsByOwnerAndType(ctx, participant.ID, t)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundf("no component found with type %s for participant %q", t, userName)
	}
	return m.components.FindComponentsByOwnerAndType(ctx, participant.ID, t)
}

// ListComponentsByType returns all components of the given type.
func (m *Manager) ListComponentsByType(ctx context.Context, t ical.ComponentType) ([]*ical.Component, error) {
	components, err := m.components.FindComponentsByType(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, notFoundf("no component found with type %s", t)
	}
	return components, nil
}

// UpdateComponent replaces the component stored under id. Identity and owner
// lineage are preserved: the payload id must be absent or equal, and the
// stored owner is carried forward regardless of the payload. A parent change
// that would make the component its own ancestor is rejected.
func (m *Manager) UpdateComponent(ctx context.Context, id int64, c *ical.Component) error {
	exists, err := m.CheckComponentExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("component with id %d could not be found", id)
	}
	if c.ID != 0 && c.ID != id {
		return conflictf("component payload has id %d but update targets id %d", c.ID, id)
	}

	if c.ParentID != nil {
		parentExists, err := m.CheckComponentExistsByID(ctx, *c.ParentID)
		if err != nil {
			return err
		}
		if !parentExists {
			return notFoundf("parent component with id %d could not be found", *c.ParentID)
		}
		if err := m.checkNoAncestorCycle(ctx, id, *c.ParentID); err != nil {
			return err
		}
	}

	existing, err := m.components.FindComponentByID(ctx, id)
	if err != nil {
		return err
	}
	c.ID = id
	c.OwnerID = existing.OwnerID

	if _, err := m.components.SaveComponent(ctx, c); err != nil {
		return err
	}
	m.logger.Info("component updated", "id", id)
	return nil
}

// checkNoAncestorCycle walks up from parentID and fails if id appears on the
// chain, which would make the component its own ancestor.
func (m *Manager) checkNoAncestorCycle(ctx context.Context, id, parentID int64) error {
	current := parentID
	for {
		if current == id {
			return conflictf("component with id %d cannot become its own ancestor", id)
		}
		node, err := m.components.FindComponentByID(ctx, current)
		if err != nil {
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}

// DeleteComponentByID removes the component with the given id. Children and
// properties are not cascaded by this layer.
func (m *Manager) DeleteComponentByID(ctx context.Context, id int64) error {
	exists, err := m.CheckComponentExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("component with id %d could not be found", id)
	}
	if err := m.components.DeleteComponent(ctx, id); err != nil {
		return err
	}
	m.logger.Info("component deleted", "id", id)
	return nil
}
