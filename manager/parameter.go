package manager

import (
	"context"

	"github.com/cavabunga/cavabunga/ical"
)

// AddParameter creates a parameter under an existing property. The whole
// ownership chain supplied by the caller is validated: the owner participant,
// the parent component and the parent property must all exist.
func (m *Manager) AddParameter(ctx context.Context, prm *ical.Parameter, owner string, componentID, propertyID int64) error {
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

	propertyExists, err := m.CheckPropertyExistsByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if !propertyExists {
		return notFoundf("property with id %d could not be found", propertyID)
	}

	if prm.ID != 0 {
		return conflictf("new parameter cannot have an id, use update instead")
	}
	if !prm.Type.Valid() {
		return conflictf("unknown parameter type %q", prm.Type)
	}

	prm.PropertyID = propertyID
	id, err := m.parameters.SaveParameter(ctx, prm)
	if err != nil {
		return err
	}
	prm.ID = id
	m.logger.Info("parameter created", "id", id, "type", prm.Type, "property_id", propertyID)
	return nil
}

// GetParameterByID returns the parameter with the given id.
func (m *Manager) GetParameterByID(ctx context.Context, id int64) (*ical.Parameter, error) {
	exists, err := m.CheckParameterExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundf("parameter with id %d could not be found", id)
	}
	return m.parameters.FindParameterByID(ctx, id)
}

// ListParameters returns all parameters.
func (m *Manager) ListParameters(ctx context.Context) ([]*ical.Parameter, error) {
	parameters, err := m.parameters.FindAllParameters(ctx)
	if err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return nil, notFoundf("no parameter found")
	}
	return parameters, nil
}

// ListParametersByProperty returns the parameters attached to the given
// property.
func (m *Manager) ListParametersByProperty(ctx context.Context, propertyID int64) ([]*ical.Parameter, error) {
	propertyExists, err := m.CheckPropertyExistsByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !propertyExists {
		return nil, notFoundf("property with id %d could not be found", propertyID)
	}

	parameterExists, err := m.CheckParameterExistsByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !parameterExists {
		return nil, notFoundf("no parameter found for property id %d", propertyID)
	}
	return m.parameters.FindParametersByProperty(ctx, propertyID)
}

// ListParametersByPropertyAndType returns the given property's parameters of
// the given type.
func (m *Manager) ListParametersByPropertyAndType(ctx context.Context, propertyID int64, t ical.ParameterType) ([]*ical.Parameter, error) {
	propertyExists, err := m.CheckPropertyExistsByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !propertyExists {
		return nil, notFoundf("property with id %d could not be found", propertyID)
	}

	parameters, err := m.parameters.FindParametersByPropertyAndType(ctx, propertyID, t)
	if err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return nil, notFoundf("no parameter found for property id %d with type %s", propertyID, t)
	}
	return parameters, nil
}

// ListParametersByType returns all parameters of the given type.
func (m *Manager) ListParametersByType(ctx context.Context, t ical.ParameterType) ([]*ical.Parameter, error) {
	parameters, err := m.parameters.FindParametersByType(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return nil, notFoundf("no parameter found with type %s", t)
	}
	return parameters, nil
}

// UpdateParameter replaces the parameter stored under id. The payload id must
// be absent or equal to the target id.
func (m *Manager) UpdateParameter(ctx context.Context, id int64, prm *ical.Parameter) error {
	exists, err := m.CheckParameterExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("parameter with id %d could not be found", id)
	}
	if prm.ID != 0 && prm.ID != id {
		return conflictf("parameter payload has id %d but update targets id %d", prm.ID, id)
	}

	prm.ID = id
	if _, err := m.parameters.SaveParameter(ctx, prm); err != nil {
		return err
	}
	m.logger.Info("parameter updated", "id", id)
	return nil
}

// DeleteParameter removes the parameter with the given id.
func (m *Manager) DeleteParameter(ctx context.Context, id int64) error {
	exists, err := m.CheckParameterExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("parameter with id %d could not be found", id)
	}
	if err := m.parameters.DeleteParameter(ctx, id); err != nil {
		return err
	}
	m.logger.Info("parameter deleted", "id", id)
	return nil
}
