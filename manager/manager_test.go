package manager_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/manager"
	"github.com/cavabunga/cavabunga/storage/memory"
)

func newManager(t *testing.T) (*manager.Manager, *memory.Store) {
	t.Helper()
	st := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return manager.New(st, st, st, st, logger), st
}

// addParticipant is a test fixture helper; failures abort the test.
func addParticipant(t *testing.T, m *manager.Manager, userName string) *ical.Participant {
	t.Helper()
	p := &ical.Participant{UserName: userName, Type: ical.ParticipantUser}
	require.NoError(t, m.AddParticipant(context.Background(), p))
	return p
}

// addComponent creates a component owned by userName, optionally under parent.
func addComponent(t *testing.T, m *manager.Manager, userName string, componentType ical.ComponentType, parentID *int64) *ical.Component {
	t.Helper()
	c := &ical.Component{Type: componentType}
	require.NoError(t, m.AddComponent(context.Background(), c, userName, parentID))
	return c
}

func addProperty(t *testing.T, m *manager.Manager, userName string, componentID int64, propertyType ical.PropertyType, value string) *ical.Property {
	t.Helper()
	p := &ical.Property{Type: propertyType, Value: value}
	require.NoError(t, m.AddProperty(context.Background(), p, userName, componentID), "adding property")
	return p
}
