// Package memory provides a map-backed implementation of all four entity
// stores. It is used by the test suite and as a runnable default backend.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/storage"
)

// Store implements storage.ParticipantStore, storage.ComponentStore,
// storage.PropertyStore and storage.ParameterStore using in-memory maps.
type Store struct {
	mu           sync.RWMutex
	participants map[int64]*ical.Participant
	components   map[int64]*ical.Component
	properties   map[int64]*ical.Property
	parameters   map[int64]*ical.Parameter
	nextID       map[string]int64
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		participants: make(map[int64]*ical.Participant),
		components:   make(map[int64]*ical.Component),
		properties:   make(map[int64]*ical.Property),
		parameters:   make(map[int64]*ical.Parameter),
		nextID:       make(map[string]int64),
	}
}

func (s *Store) generateID(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

func notFound(message string) error {
	return &storage.Error{Type: storage.ErrNotFound, Message: message}
}

// Participant operations

func (s *Store) SaveParticipant(ctx context.Context, p *ical.Participant) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.generateID("participant")
	}
	if p.CreatedAt.IsZero() {
		if existing, ok := s.participants[p.ID]; ok {
			p.CreatedAt = existing.CreatedAt
		} else {
			p.CreatedAt = time.Now()
		}
	}
	stored := *p
	stored.Components = nil
	s.participants[p.ID] = &stored
	return p.ID, nil
}

func (s *Store) FindParticipantByID(ctx context.Context, id int64) (*ical.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[id]
	if !ok {
		return nil, notFound("participant not found")
	}
	out := *p
	out.Components = s.componentsByOwnerLocked(id)
	return &out, nil
}

func (s *Store) FindParticipantByUserName(ctx context.Context, userName string) (*ical.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.participants {
		if p.UserName == userName {
			out := *p
			out.Components = s.componentsByOwnerLocked(p.ID)
			return &out, nil
		}
	}
	return nil, notFound("participant not found")
}

func (s *Store) FindAllParticipants(ctx context.Context) ([]*ical.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ical.Participant
	for _, p := range s.participants {
		cp := *p
		out = append(out, &cp)
	}
	sortByID(out, func(p *ical.Participant) int64 { return p.ID })
	return out, nil
}

func (s *Store) FindParticipantsByType(ctx context.Context, t ical.ParticipantType) ([]*ical.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ical.Participant
	for _, p := range s.participants {
		if p.Type == t {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByID(out, func(p *ical.Participant) int64 { return p.ID })
	return out, nil
}

func (s *Store) DeleteParticipant(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[id]; !ok {
		return notFound("participant not found")
	}
	delete(s.participants, id)
	return nil
}

func (s *Store) DeleteParticipantByUserName(ctx context.Context, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.participants {
		if p.UserName == userName {
			delete(s.participants, id)
			return nil
		}
	}
	return notFound("participant not found")
}

func (s *Store) CountParticipantsByID(ctx context.Context, id int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.participants[id]; ok {
		return 1, nil
	}
	return 0, nil
}

func (s *Store) CountParticipantsByUserName(ctx context.Context, userName string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.participants {
		if p.UserName == userName {
			n++
		}
	}
	return n, nil
}

// Component operations

func (s *Store) SaveComponent(ctx context.Context, c *ical.Component) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		c.ID = s.generateID("component")
	}
	if c.CreatedAt.IsZero() {
		if existing, ok := s.components[c.ID]; ok {
			c.CreatedAt = existing.CreatedAt
		} else {
			c.CreatedAt = time.Now()
		}
	}
	stored := *c
	stored.Components = nil
	stored.Properties = nil
	s.components[c.ID] = &stored
	return c.ID, nil
}

func (s *Store) FindComponentByID(ctx context.Context, id int64) (*ical.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.components[id]
	if !ok {
		return nil, notFound("component not found")
	}
	out := *c
	out.Components = s.componentsByParentLocked(id)
	out.Properties = s.propertiesByComponentLocked(id)
	return &out, nil
}

func (s *Store) FindAllComponents(ctx context.Context) ([]*ical.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterComponentsLocked(func(*ical.Component) bool { return true }), nil
}

func (s *Store) FindComponentsByParent(ctx context.Context, parentID int64) ([]*ical.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.componentsByParentLocked(parentID), nil
}

func (s *Store) FindComponentsByParentAndType(ctx context.Context, parentID int64, t ical.ComponentType) ([]*ical.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterComponentsLocked(func(c *ical.Component) bool {
		return c.ParentID != nil && *c.ParentID == parentID && c.Type == t
	}), nil
}

func (s *Store) FindComponentsByOwner(ctx context.Context, ownerID int64) ([]*ical.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.componentsByOwnerLocked(ownerID), nil
}

func (s *Store) FindComponentsByOwnerAndType(ctx context.Context, ownerID int64, t ical.ComponentType) ([]*ical.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterComponentsLocked(func(c *ical.Component) bool {
		return c.OwnerID == ownerID && c.Type == t
	}), nil
}

func (s *Store) FindComponentsByType(ctx context.Context, t ical.ComponentType) ([]*ical.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterComponentsLocked(func(c *ical.Component) bool { return c.Type == t }), nil
}

func (s *Store) DeleteComponent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.components[id]; !ok {
		return notFound("component not found")
	}
	delete(s.components, id)
	return nil
}

func (s *Store) CountComponentsByID(ctx context.Context, id int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.components[id]; ok {
		return 1, nil
	}
	return 0, nil
}

func (s *Store) CountComponentsByParent(ctx context.Context, parentID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.componentsByParentLocked(parentID))), nil
}

func (s *Store) CountComponentsByParentAndType(ctx context.Context, parentID int64, t ical.ComponentType) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterComponentsLocked(func(c *ical.Component) bool {
		return c.ParentID != nil && *c.ParentID == parentID && c.Type == t
	}))), nil
}

func (s *Store) CountComponentsByOwnerAndType(ctx context.Context, ownerID int64, t ical.ComponentType) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterComponentsLocked(func(c *ical.Component) bool {
		return c.OwnerID == ownerID && c.Type == t
	}))), nil
}

func (s *Store) CountComponentsByIDAndOwner(ctx context.Context, id, ownerID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.components[id]; ok && c.OwnerID == ownerID {
		return 1, nil
	}
	return 0, nil
}

// Property operations

func (s *Store) SaveProperty(ctx context.Context, p *ical.Property) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.generateID("property")
	}
	stored := *p
	stored.Parameters = nil
	s.properties[p.ID] = &stored
	return p.ID, nil
}

func (s *Store) FindPropertyByID(ctx context.Context, id int64) (*ical.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, notFound("property not found")
	}
	out := *p
	out.Parameters = s.parametersByPropertyLocked(id)
	return &out, nil
}

func (s *Store) FindAllProperties(ctx context.Context) ([]*ical.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterPropertiesLocked(func(*ical.Property) bool { return true }), nil
}

func (s *Store) FindPropertiesByComponent(ctx context.Context, componentID int64) ([]*ical.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.propertiesByComponentLocked(componentID), nil
}

func (s *Store) FindPropertiesByComponentAndType(ctx context.Context, componentID int64, t ical.PropertyType) ([]*ical.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterPropertiesLocked(func(p *ical.Property) bool {
		return p.ComponentID == componentID && p.Type == t
	}), nil
}

func (s *Store) FindPropertiesByType(ctx context.Context, t ical.PropertyType) ([]*ical.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterPropertiesLocked(func(p *ical.Property) bool { return p.Type == t }), nil
}

func (s *Store) DeleteProperty(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return notFound("property not found")
	}
	delete(s.properties, id)
	return nil
}

func (s *Store) CountPropertiesByID(ctx context.Context, id int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.properties[id]; ok {
		return 1, nil
	}
	return 0, nil
}

func (s *Store) CountPropertiesByComponent(ctx context.Context, componentID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.propertiesByComponentLocked(componentID))), nil
}

// Parameter operations

func (s *Store) SaveParameter(ctx context.Context, p *ical.Parameter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.generateID("parameter")
	}
	stored := *p
	s.parameters[p.ID] = &stored
	return p.ID, nil
}

func (s *Store) FindParameterByID(ctx context.Context, id int64) (*ical.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parameters[id]
	if !ok {
		return nil, notFound("parameter not found")
	}
	out := *p
	return &out, nil
}

func (s *Store) FindAllParameters(ctx context.Context) ([]*ical.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterParametersLocked(func(*ical.Parameter) bool { return true }), nil
}

func (s *Store) FindParametersByProperty(ctx context.Context, propertyID int64) ([]*ical.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parametersByPropertyLocked(propertyID), nil
}

func (s *Store) FindParametersByPropertyAndType(ctx context.Context, propertyID int64, t ical.ParameterType) ([]*ical.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterParametersLocked(func(p *ical.Parameter) bool {
		return p.PropertyID == propertyID && p.Type == t
	}), nil
}

func (s *Store) FindParametersByType(ctx context.Context, t ical.ParameterType) ([]*ical.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterParametersLocked(func(p *ical.Parameter) bool { return p.Type == t }), nil
}

func (s *Store) DeleteParameter(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parameters[id]; !ok {
		return notFound("parameter not found")
	}
	delete(s.parameters, id)
	return nil
}

func (s *Store) CountParametersByID(ctx context.Context, id int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.parameters[id]; ok {
		return 1, nil
	}
	return 0, nil
}

func (s *Store) CountParametersByProperty(ctx context.Context, propertyID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.parametersByPropertyLocked(propertyID))), nil
}

// Internal helpers. All assume the caller holds at least a read lock.

func (s *Store) filterComponentsLocked(keep func(*ical.Component) bool) []*ical.Component {
	var out []*ical.Component
	for _, c := range s.components {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortByID(out, func(c *ical.Component) int64 { return c.ID })
	return out
}

func (s *Store) componentsByParentLocked(parentID int64) []*ical.Component {
	return s.filterComponentsLocked(func(c *ical.Component) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	})
}

func (s *Store) componentsByOwnerLocked(ownerID int64) []*ical.Component {
	return s.filterComponentsLocked(func(c *ical.Component) bool {
		return c.OwnerID == ownerID
	})
}

func (s *Store) filterPropertiesLocked(keep func(*ical.Property) bool) []*ical.Property {
	var out []*ical.Property
	for _, p := range s.properties {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByID(out, func(p *ical.Property) int64 { return p.ID })
	return out
}

func (s *Store) propertiesByComponentLocked(componentID int64) []*ical.Property {
	return s.filterPropertiesLocked(func(p *ical.Property) bool {
		return p.ComponentID == componentID
	})
}

func (s *Store) filterParametersLocked(keep func(*ical.Parameter) bool) []*ical.Parameter {
	var out []*ical.Parameter
	for _, p := range s.parameters {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByID(out, func(p *ical.Parameter) int64 { return p.ID })
	return out
}

func (s *Store) parametersByPropertyLocked(propertyID int64) []*ical.Parameter {
	return s.filterParametersLocked(func(p *ical.Parameter) bool {
		return p.PropertyID == propertyID
	})
}

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
