package manager

import (
	"context"

	"github.com/cavabunga/cavabunga/ical"
)

// AddProperty creates a property under an existing component. The supplied
// owner must exist and must own the parent component; an ownership mismatch
// is a conflict, never a silent reassignment.
func (m *Manager) AddProperty(ctx context.Context, p *ical.Property, owner string, componentID int64) error {
	ownerExists, err := m.CheckParticipantExistsByUserName(ctx, owner)
	if err != nil {
		return err
	}
	if !ownerExists {
		return notFoundf("participant with username %q could not be found", owner)
	}

	componentExists, err := m.CheckComponentExistsByID(ctx, componentID)
	if err != nil {
		return err
	}
	if !componentExists {
		return notFoundf("component with id %d could not be found", componentID)
	}

	participant, err := m.participants.FindParticipantByUserName(ctx, owner)
	if err != nil {
		return err
	}
	owned, err := m.CheckComponentExistsByIDAndOwner(ctx, componentID, participant.ID)
	if err != nil {
		return err
	}
	if !owned {
		return conflictf("component with id %d does not belong to participant %q", componentID, owner)
	}

	if p.ID != 0 {
		return conflictf("new property cannot have an id, use update instead")
	}
	if !p.Type.Valid() {
		return conflictf("unknown property type %q", p.Type)
	}

	p.ComponentID = componentID
	id, err := m.properties.SaveProperty(ctx, p)
	if err != nil {
		return err
	}
	p.ID = id
	m.logger.Info("property created", "id", id, "type", p.Type, "component_id", componentID)
	return nil
}

// GetPropertyByID returns the property with the given id, with its parameters
// populated by the store.
func (m *Manager) GetPropertyByID(ctx context.Context, id int64) (*ical.Property, error) {
	exists, err := m.CheckPropertyExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundf("property with id %d could not be found", id)
	}
	return m.properties.FindPropertyByID(ctx, id)
}

// ListProperties returns all properties.
func (m *Manager) ListProperties(ctx context.Context) ([]*ical.Property, error) {
	properties, err := m.properties.FindAllProperties(ctx)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, notFoundf("no property found")
	}
	return properties, nil
}

// ListPropertiesByComponent returns the properties attached to the given
// component.
func (m *Manager) ListPropertiesByComponent(ctx context.Context, componentID int64) ([]*ical.Property, error) {
	componentExists, err := m.CheckComponentExistsByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if !componentExists {
		return nil, notFoundf("component with id %d could not be found", componentID)
	}

	propertyExists, err := m.CheckPropertyExistsByComponentID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if !propertyExists {
		return nil, notFoundf("no property found for component id %d", componentID)
	}
	return m.properties.FindPropertiesByComponent(ctx, componentID)
}

// ListPropertiesByComponentAndType returns the given component's properties
// of the given type.
func (m *Manager) ListPropertiesByComponentAndType(ctx context.Context, componentID int64, t ical.PropertyType) ([]*ical.Property, error) {
	componentExists, err := m.CheckComponentExistsByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if !componentExists {
		return nil, notFoundf("component with id %d could not be found", componentID)
	}

	properties, err := m.properties.FindPropertiesByComponentAndType(ctx, componentID, t)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, notFoundf("no property found for component id %d with type %s", componentID, t)
	}
	return properties, nil
}

// ListPropertiesByType returns all properties of the given type.
func (m *Manager) ListPropertiesByType(ctx context.Context, t ical.PropertyType) ([]*ical.Property, error) {
	properties, err := m.properties.FindPropertiesByType(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, notFoundf("no property found with type %s", t)
	}
	return properties, nil
}

// UpdateProperty replaces the property stored under id. The payload id must
// be absent or equal to the target id; the structural link to the parent
// component is taken from the payload as-is.
func (m *Manager) UpdateProperty(ctx context.Context, id int64, p *ical.Property) error {
	exists, err := m.CheckPropertyExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("property with id %d could not be found", id)
	}
	if p.ID != 0 && p.ID != id {
		return conflictf("property payload has id %d but update targets id %d", p.ID, id)
	}

	p.ID = id
	if _, err := m.properties.SaveProperty(ctx, p); err != nil {
		return err
	}
	m.logger.Info("property updated", "id", id)
	return nil
}

// DeleteProperty removes the property with the given id. Parameters attached
// to it are not cascaded by this layer.
func (m *Manager) DeleteProperty(ctx context.Context, id int64) error {
	exists, err := m.CheckPropertyExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("property with id %d could not be found", id)
	}
	if err := m.properties.DeleteProperty(ctx, id); err != nil {
		return err
	}
	m.logger.Info("property deleted", "id", id)
	return nil
}
