// Package manager implements the integrity and validation service: the single
// authority through which the four entity stores are mutated. Every mutating
// operation runs an ordered ladder of checks against the persistence gateway
// (referenced entity exists → caller owns it → payload is internally
// consistent) and fails fast with a typed Error on the first violation.
//
// Validation is best-effort: an existence check and the store operation that
// follows it are separate gateway calls, so a concurrent delete between the
// two can still surface as a storage error. The service never retries and
// never commits a partial mutation after a failed check.
package manager

import (
	"context"
	"log/slog"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/storage"
)

// Manager validates and executes all entity mutations. Instantiate once per
// process with the store handles injected.
type Manager struct {
	participants storage.ParticipantStore
	components   storage.ComponentStore
	properties   storage.PropertyStore
	parameters   storage.ParameterStore
	logger       *slog.Logger
}

// New creates a Manager backed by the given stores. A nil logger falls back
// to slog.Default.
func New(participants storage.ParticipantStore, components storage.ComponentStore, properties storage.PropertyStore, parameters storage.ParameterStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		participants: participants,
		components:   components,
		properties:   properties,
		parameters:   parameters,
		logger:       logger,
	}
}

// Existence predicates. Each is a count-based probe against the gateway;
// count >= 1 means the row exists. These are the load-bearing primitives
// every mutating operation calls before acting.

func (m *Manager) CheckParticipantExistsByID(ctx context.Context, id int64) (bool, error) {
	count, err := m.participants.CountParticipantsByID(ctx, id)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckParticipantExistsByUserName(ctx context.Context, userName string) (bool, error) {
	count, err := m.participants.CountParticipantsByUserName(ctx, userName)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckComponentExistsByID(ctx context.Context, id int64) (bool, error) {
	count, err := m.components.CountComponentsByID(ctx, id)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckComponentExistsByParentID(ctx context.Context, parentID int64) (bool, error) {
	count, err := m.components.CountComponentsByParent(ctx, parentID)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckComponentExistsByParentIDAndType(ctx context.Context, parentID int64, t ical.ComponentType) (bool, error) {
	count, err := m.components.CountComponentsByParentAndType(ctx, parentID, t)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckComponentExistsByOwnerAndType(ctx context.Context, ownerID int64, t ical.ComponentType) (bool, error) {
	count, err := m.components.CountComponentsByOwnerAndType(ctx, ownerID, t)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckComponentExistsByIDAndOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	count, err := m.components.CountComponentsByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckPropertyExistsByID(ctx context.Context, id int64) (bool, error) {
	count, err := m.properties.CountPropertiesByID(ctx, id)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckPropertyExistsByComponentID(ctx context.Context, componentID int64) (bool, error) {
	count, err := m.properties.CountPropertiesByComponent(ctx, componentID)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckParameterExistsByID(ctx context.Context, id int64) (bool, error) {
	count, err := m.parameters.CountParametersByID(ctx, id)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}

func (m *Manager) CheckParameterExistsByPropertyID(ctx context.Context, propertyID int64) (bool, error) {
	count, err := m.parameters.CountParametersByProperty(ctx, propertyID)
	if err != nil {
		return false, err
	}
	return count >= 1, nil
}
