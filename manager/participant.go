package manager

import (
	"context"
	"strconv"

	"github.com/cavabunga/cavabunga/ical"
)

// AddParticipant creates a new participant. The payload must not carry an id
// and the username must be non-empty and not already taken.
func (m *Manager) AddParticipant(ctx context.Context, p *ical.Participant) error {
	if p.UserName == "" {
		return conflictf("participant username cannot be empty")
	}
	if p.ID != 0 {
		return conflictf("new participant cannot have an id, use update instead")
	}
	exists, err := m.CheckParticipantExistsByUserName(ctx, p.UserName)
	if err != nil {
		return err
	}
	if exists {
		return conflictf("participant with username %q already exists", p.UserName)
	}

	id, err := m.participants.SaveParticipant(ctx, p)
	if err != nil {
		return err
	}
	p.ID = id
	m.logger.Info("participant created", "id", id, "user_name", p.UserName)
	return nil
}

// GetParticipantByID returns the participant with the given id.
func (m *Manager) GetParticipantByID(ctx context.Context, id int64) (*ical.Participant, error) {
	exists, err := m.CheckParticipantExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundf("participant with id %d could not be found", id)
	}
	return m.participants.FindParticipantByID(ctx, id)
}

// GetParticipantByUserName returns the participant with the given username.
func (m *Manager) GetParticipantByUserName(ctx context.Context, userName string) (*ical.Participant, error) {
	exists, err := m.CheckParticipantExistsByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundf("participant with username %q could not be found", userName)
	}
	return m.participants.FindParticipantByUserName(ctx, userName)
}

// GetParticipantByKey resolves key first as a username and, failing that, as
// a numeric id. A key that is neither a known username nor parseable as a
// number is a conflict.
func (m *Manager) GetParticipantByKey(ctx context.Context, key string) (*ical.Participant, error) {
	p, err := m.GetParticipantByUserName(ctx, key)
	if err == nil {
		return p, nil
	}

	id, convErr := strconv.ParseInt(key, 10, 64)
	if convErr != nil {
		return nil, conflictf("participant key %q is neither a known username nor a numeric id", key)
	}
	return m.GetParticipantByID(ctx, id)
}

// ListParticipants returns all participants. An empty store is a not-found
// condition, matching the list semantics of every other entity.
func (m *Manager) ListParticipants(ctx context.Context) ([]*ical.Participant, error) {
	participants, err := m.participants.FindAllParticipants(ctx)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, notFoundf("no participant found")
	}
	return participants, nil
}

// ListParticipantsByType returns all participants of the given type.
func (m *Manager) ListParticipantsByType(ctx context.Context, t ical.ParticipantType) ([]*ical.Participant, error) {
	participants, err := m.participants.FindParticipantsByType(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, notFoundf("no participant found with type %s", t)
	}
	return participants, nil
}

// UpdateParticipant replaces the participant stored under id. The payload may
// carry the same id or none at all; any other id is rejected.
func (m *Manager) UpdateParticipant(ctx context.Context, id int64, p *ical.Participant) error {
	exists, err := m.CheckParticipantExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("participant with id %d could not be found", id)
	}
	if p.ID != 0 && p.ID != id {
		return conflictf("participant payload has id %d but update targets id %d", p.ID, id)
	}

	p.ID = id
	if _, err := m.participants.SaveParticipant(ctx, p); err != nil {
		return err
	}
	m.logger.Info("participant updated", "id", id)
	return nil
}

// DeleteParticipantByID removes the participant with the given id. Components
// owned by the participant are not cascaded by this layer.
func (m *Manager) DeleteParticipantByID(ctx context.Context, id int64) error {
	exists, err := m.CheckParticipantExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("participant with id %d could not be found", id)
	}
	if err := m.participants.DeleteParticipant(ctx, id); err != nil {
		return err
	}
	m.logger.Info("participant deleted", "id", id)
	return nil
}

// DeleteParticipantByUserName removes the participant with the given username.
func (m *Manager) DeleteParticipantByUserName(ctx context.Context, userName string) error {
	exists, err := m.CheckParticipantExistsByUserName(ctx, userName)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundf("participant with username %q could not be found", userName)
	}
	if err := m.participants.DeleteParticipantByUserName(ctx, userName); err != nil {
		return err
	}
	m.logger.Info("participant deleted", "user_name", userName)
	return nil
}
