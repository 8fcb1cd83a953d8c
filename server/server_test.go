package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/manager"
	"github.com/cavabunga/cavabunga/server"
	"github.com/cavabunga/cavabunga/storage/memory"
)

func newServer(t *testing.T) *server.Server {
	t.Helper()
	st := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := manager.New(st, st, st, st, logger)
	return server.New(m, logger)
}

func do(t *testing.T, srv *server.Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func createParticipant(t *testing.T, srv *server.Server, userName string) ical.Participant {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/participants", ical.Participant{UserName: userName, Type: ical.ParticipantUser})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[ical.Participant](t, rec)
}

func createComponent(t *testing.T, srv *server.Server, owner string, componentType ical.ComponentType, parentID *int64) ical.Component {
	t.Helper()
	target := "/components?owner=" + owner
	if parentID != nil {
		target = fmt.Sprintf("%s&parent=%d", target, *parentID)
	}
	rec := do(t, srv, http.MethodPost, target, ical.Component{Type: componentType})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[ical.Component](t, rec)
}

func TestParticipantLifecycle(t *testing.T) {
	srv := newServer(t)

	alice := createParticipant(t, srv, "alice")
	assert.NotZero(t, alice.ID)

	// Duplicate username.
	rec := do(t, srv, http.MethodPost, "/participants", ical.Participant{UserName: "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[server.ErrorResponse](t, rec)
	assert.NotEmpty(t, body.Message)

	// Lookup by username and by id through the same path segment.
	rec = do(t, srv, http.MethodGet, "/participants/alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/participants/%d", alice.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/participants/nobody99", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPut, fmt.Sprintf("/participants/%d", alice.ID), ical.Participant{UserName: "alice2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodDelete, fmt.Sprintf("/participants/%d", alice.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/participants", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListParticipantsByTypeQuery(t *testing.T) {
	srv := newServer(t)
	createParticipant(t, srv, "alice")

	rec := do(t, srv, http.MethodGet, "/participants?type=USER", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ical.Participant](t, rec), 1)

	rec = do(t, srv, http.MethodGet, "/participants?type=GROUP", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComponentLifecycle(t *testing.T) {
	srv := newServer(t)
	createParticipant(t, srv, "alice")

	root := createComponent(t, srv, "alice", ical.ComponentCalendar, nil)
	child := createComponent(t, srv, "alice", ical.ComponentEvent, &root.ID)

	// Missing owner is rejected before anything is written.
	rec := do(t, srv, http.MethodPost, "/components?owner=bob", ical.Component{Type: ical.ComponentEvent})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/components/%d", root.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ical.Component](t, rec)
	require.Len(t, got.Components, 1)
	assert.Equal(t, child.ID, got.Components[0].ID)

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/components?parent=%d", root.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ical.Component](t, rec), 1)

	rec = do(t, srv, http.MethodGet, "/components?owner=alice&type=EVENT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ical.Component](t, rec), 1)

	rec = do(t, srv, http.MethodPut, fmt.Sprintf("/components/%d", child.ID), ical.Component{Type: ical.ComponentTodo, ParentID: &root.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodDelete, fmt.Sprintf("/components/%d", child.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/components/%d", child.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportComponentCalendar(t *testing.T) {
	srv := newServer(t)
	createParticipant(t, srv, "alice")
	root := createComponent(t, srv, "alice", ical.ComponentCalendar, nil)
	createComponent(t, srv, "alice", ical.ComponentEvent, &root.ID)

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/components/%d/calendar", root.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	out := rec.Body.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "BEGIN:VEVENT")

	rec = do(t, srv, http.MethodGet, "/components/999/calendar", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPropertyEndpoints(t *testing.T) {
	srv := newServer(t)
	createParticipant(t, srv, "alice")
	createParticipant(t, srv, "bob")
	root := createComponent(t, srv, "alice", ical.ComponentCalendar, nil)

	// The component query parameter is mandatory.
	rec := do(t, srv, http.MethodPost, "/properties?owner=alice", ical.Property{Type: ical.PropertySummary, Value: "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Asserting the wrong owner is a conflict.
	rec = do(t, srv, http.MethodPost, fmt.Sprintf("/properties?owner=bob&component=%d", root.ID), ical.Property{Type: ical.PropertySummary, Value: "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, fmt.Sprintf("/properties?owner=alice&component=%d", root.ID), ical.Property{Type: ical.PropertySummary, Value: "x"})
	require.Equal(t, http.StatusCreated, rec.Code)
	prop := decode[ical.Property](t, rec)

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/properties?component=%d", root.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ical.Property](t, rec), 1)

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/properties?component=%d&type=SUMMARY", root.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPut, fmt.Sprintf("/properties/%d", prop.ID), ical.Property{Type: ical.PropertySummary, Value: "y", ComponentID: root.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodDelete, fmt.Sprintf("/properties/%d", prop.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestParameterEndpoints(t *testing.T) {
	srv := newServer(t)
	createParticipant(t, srv, "alice")
	root := createComponent(t, srv, "alice", ical.ComponentCalendar, nil)

	rec := do(t, srv, http.MethodPost, fmt.Sprintf("/properties?owner=alice&component=%d", root.ID), ical.Property{Type: ical.PropertySummary, Value: "x"})
	require.Equal(t, http.StatusCreated, rec.Code)
	prop := decode[ical.Property](t, rec)

	// Both the component and property query parameters are mandatory.
	rec = do(t, srv, http.MethodPost, fmt.Sprintf("/parameters?owner=alice&component=%d", root.ID), ical.Parameter{Type: ical.ParameterLanguage, Value: "en"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, fmt.Sprintf("/parameters?owner=alice&component=%d&property=%d", root.ID, prop.ID), ical.Parameter{Type: ical.ParameterLanguage, Value: "en"})
	require.Equal(t, http.StatusCreated, rec.Code)
	prm := decode[ical.Parameter](t, rec)

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/parameters?property=%d", prop.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ical.Parameter](t, rec), 1)

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/parameters/%d", prm.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPut, fmt.Sprintf("/parameters/%d", prm.ID), ical.Parameter{Type: ical.ParameterLanguage, Value: "tr", PropertyID: prop.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodDelete, fmt.Sprintf("/parameters/%d", prm.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMalformedRequests(t *testing.T) {
	srv := newServer(t)

	// Non-numeric path ids.
	rec := do(t, srv, http.MethodDelete, "/components/abc", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Non-numeric query ids.
	rec = do(t, srv, http.MethodGet, "/components?parent=abc", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Broken JSON body.
	req := httptest.NewRequest(http.MethodPost, "/participants", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}
