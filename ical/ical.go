// Package ical defines the calendar object model: participants owning a
// forest of components, components holding properties, properties holding
// parameters. The types here are pure data; all referential and ownership
// validation happens in the manager package before anything is persisted.
package ical

import "time"

// Participant is an identity that owns top-level and nested components.
// An ID of 0 means the participant has not been persisted yet.
type Participant struct {
	ID         int64           `json:"id,omitempty"`
	UserName   string          `json:"user_name"`
	Type       ParticipantType `json:"type,omitempty"`
	Components []*Component    `json:"components,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
}

// Component is a node in the calendar object forest. A nil ParentID marks a
// root node (typically a CALENDAR). OwnerID and ParentID are plain foreign
// keys; only the store resolves them to full entities.
type Component struct {
	ID         int64         `json:"id,omitempty"`
	Type       ComponentType `json:"type"`
	OwnerID    int64         `json:"owner_id,omitempty"`
	ParentID   *int64        `json:"parent_id,omitempty"`
	Components []*Component  `json:"components,omitempty"`
	Properties []*Property   `json:"properties,omitempty"`
	CreatedAt  time.Time     `json:"created_at,omitempty"`
}

// AddComponent attaches child to c, recording the parent link when c already
// has an identity. Used to build in-memory trees before persistence.
func (c *Component) AddComponent(child *Component) {
	if c.ID != 0 {
		id := c.ID
		child.ParentID = &id
	}
	c.Components = append(c.Components, child)
}

// AddProperty attaches p to c, recording the back-reference when c already
// has an identity.
func (c *Component) AddProperty(p *Property) {
	if c.ID != 0 {
		p.ComponentID = c.ID
	}
	c.Properties = append(c.Properties, p)
}

// Property is a typed name/value pair attached to a component.
type Property struct {
	ID          int64        `json:"id,omitempty"`
	Type        PropertyType `json:"type"`
	Value       string       `json:"value"`
	ComponentID int64        `json:"component_id,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty"`
}

// AddParameter attaches prm to p, recording the back-reference when p
// already has an identity.
func (p *Property) AddParameter(prm *Parameter) {
	if p.ID != 0 {
		prm.PropertyID = p.ID
	}
	p.Parameters = append(p.Parameters, prm)
}

// Parameter qualifies the value of a property.
type Parameter struct {
	ID         int64         `json:"id,omitempty"`
	Type       ParameterType `json:"type"`
	Value      string        `json:"value"`
	PropertyID int64         `json:"property_id,omitempty"`
}
