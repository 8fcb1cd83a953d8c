// Package storage declares the persistence gateway: four independent stores,
// one per entity kind. Implementations must use the error types provided so
// callers can tell a missing row from a backend failure.
package storage

import (
	"context"

	"github.com/cavabunga/cavabunga/ical"
)

// ParticipantStore persists participants.
type ParticipantStore interface {
	// SaveParticipant inserts p when its ID is 0, otherwise replaces the
	// stored row. It returns the (possibly newly generated) id.
	SaveParticipant(ctx context.Context, p *ical.Participant) (int64, error)
	FindParticipantByID(ctx context.Context, id int64) (*ical.Participant, error)
	FindParticipantByUserName(ctx context.Context, userName string) (*ical.Participant, error)
	FindAllParticipants(ctx context.Context) ([]*ical.Participant, error)
	FindParticipantsByType(ctx context.Context, t ical.ParticipantType) ([]*ical.Participant, error)
	DeleteParticipant(ctx context.Context, id int64) error
	DeleteParticipantByUserName(ctx context.Context, userName string) error
	CountParticipantsByID(ctx context.Context, id int64) (int64, error)
	CountParticipantsByUserName(ctx context.Context, userName string) (int64, error)
}

// ComponentStore persists components.
type ComponentStore interface {
	SaveComponent(ctx context.Context, c *ical.Component) (int64, error)
	FindComponentByID(ctx context.Context, id int64) (*ical.Component, error)
	FindAllComponents(ctx context.Context) ([]*ical.Component, error)
	FindComponentsByParent(ctx context.Context, parentID int64) ([]*ical.Component, error)
	FindComponentsByParentAndType(ctx context.Context, parentID int64, t ical.ComponentType) ([]*ical.Component, error)
	FindComponentsByOwner(ctx context.Context, ownerID int64) ([]*ical.Component, error)
	FindComponentsByOwnerAndType(ctx context.Context, ownerID int64, t ical.ComponentType) ([]*ical.Component, error)
	FindComponentsByType(ctx context.Context, t ical.ComponentType) ([]*ical.Component, error)
	DeleteComponent(ctx context.Context, id int64) error
	CountComponentsByID(ctx context.Context, id int64) (int64, error)
	CountComponentsByParent(ctx context.Context, parentID int64) (int64, error)
	CountComponentsByParentAndType(ctx context.Context, parentID int64, t ical.ComponentType) (int64, error)
	CountComponentsByOwnerAndType(ctx context.Context, ownerID int64, t ical.ComponentType) (int64, error)
	CountComponentsByIDAndOwner(ctx context.Context, id, ownerID int64) (int64, error)
}

// PropertyStore persists properties.
type PropertyStore interface {
	SaveProperty(ctx context.Context, p *ical.Property) (int64, error)
	FindPropertyByID(ctx context.Context, id int64) (*ical.Property, error)
	FindAllProperties(ctx context.Context) ([]*ical.Property, error)
	FindPropertiesByComponent(ctx context.Context, componentID int64) ([]*ical.Property, error)
	FindPropertiesByComponentAndType(ctx context.Context, componentID int64, t ical.PropertyType) ([]*ical.Property, error)
	FindPropertiesByType(ctx context.Context, t ical.PropertyType) ([]*ical.Property, error)
	DeleteProperty(ctx context.Context, id int64) error
	CountPropertiesByID(ctx context.Context, id int64) (int64, error)
	CountPropertiesByComponent(ctx context.Context, componentID int64) (int64, error)
}

// ParameterStore persists parameters.
type ParameterStore interface {
	SaveParameter(ctx context.Context, p *ical.Parameter) (int64, error)
	FindParameterByID(ctx context.Context, id int64) (*ical.Parameter, error)
	FindAllParameters(ctx context.Context) ([]*ical.Parameter, error)
	FindParametersByProperty(ctx context.Context, propertyID int64) ([]*ical.Parameter, error)
	FindParametersByPropertyAndType(ctx context.Context, propertyID int64, t ical.ParameterType) ([]*ical.Parameter, error)
	FindParametersByType(ctx context.Context, t ical.ParameterType) ([]*ical.Parameter, error)
	DeleteParameter(ctx context.Context, id int64) error
	CountParametersByID(ctx context.Context, id int64) (int64, error)
	CountParametersByProperty(ctx context.Context, propertyID int64) (int64, error)
}
