// Package postgres implements the four entity stores over PostgreSQL using
// database/sql and the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/storage"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Store implements storage.ParticipantStore, storage.ComponentStore,
// storage.PropertyStore and storage.ParameterStore over a shared connection
// pool. The pool is injected; the store never opens or closes it.
type Store struct {
	db *sql.DB
}

// New creates a Store on top of an open connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL with the given connection string and verifies
// the connection.
func Open(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func notFound(message string) error {
	return &storage.Error{Type: storage.ErrNotFound, Message: message}
}

func storeErr(message string, err error) error {
	return &storage.Error{Type: storage.ErrInvalidInput, Message: message, Err: err}
}

// Participant operations

func (s *Store) SaveParticipant(ctx context.Context, p *ical.Participant) (int64, error) {
	if p.ID == 0 {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO participants (user_name, type) VALUES ($1, $2) RETURNING id`,
			p.UserName, string(p.Type),
		).Scan(&p.ID)
		if err != nil {
			return 0, storeErr("inserting participant", err)
		}
		return p.ID, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE participants SET user_name = $1, type = $2 WHERE id = $3`,
		p.UserName, string(p.Type), p.ID,
	)
	if err != nil {
		return 0, storeErr("updating participant", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, notFound(fmt.Sprintf("participant with id %d not found for update", p.ID))
	}
	return p.ID, nil
}

func (s *Store) FindParticipantByID(ctx context.Context, id int64) (*ical.Participant, error) {
	return s.scanParticipant(ctx,
		`SELECT id, user_name, type, created_at FROM participants WHERE id = $1`, id)
}

func (s *Store) FindParticipantByUserName(ctx context.Context, userName string) (*ical.Participant, error) {
	return s.scanParticipant(ctx,
		`SELECT id, user_name, type, created_at FROM participants WHERE user_name = $1`, userName)
}

func (s *Store) scanParticipant(ctx context.Context, query string, arg any) (*ical.Participant, error) {
	p := &ical.Participant{}
	var typ string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.UserName, &typ, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound("participant not found")
	}
	if err != nil {
		return nil, storeErr("querying participant", err)
	}
	p.Type = ical.ParticipantType(typ)

	components, err := s.FindComponentsByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Components = components
	return p, nil
}

func (s *Store) FindAllParticipants(ctx context.Context) ([]*ical.Participant, error) {
	return s.queryParticipants(ctx,
		`SELECT id, user_name, type, created_at FROM participants ORDER BY id`)
}

func (s *Store) FindParticipantsByType(ctx context.Context, t ical.ParticipantType) ([]*ical.Participant, error) {
	return s.queryParticipants(ctx,
		`SELECT id, user_name, type, created_at FROM participants WHERE type = $1 ORDER BY id`, string(t))
}

func (s *Store) queryParticipants(ctx context.Context, query string, args ...any) ([]*ical.Participant, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("querying participants", err)
	}
	defer rows.Close()

	var out []*ical.Participant
	for rows.Next() {
		p := &ical.Participant{}
		var typ string
		if err := rows.Scan(&p.ID, &p.UserName, &typ, &p.CreatedAt); err != nil {
			return nil, storeErr("scanning participant row", err)
		}
		p.Type = ical.ParticipantType(typ)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating participant rows", err)
	}
	return out, nil
}

func (s *Store) DeleteParticipant(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM participants WHERE id = $1`, "participant", id)
}

func (s *Store) DeleteParticipantByUserName(ctx context.Context, userName string) error {
	return s.deleteRow(ctx, `DELETE FROM participants WHERE user_name = $1`, "participant", userName)
}

func (s *Store) CountParticipantsByID(ctx context.Context, id int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM participants WHERE id = $1`, id)
}

func (s *Store) CountParticipantsByUserName(ctx context.Context, userName string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM participants WHERE user_name = $1`, userName)
}

// Component operations

func (s *Store) SaveComponent(ctx context.Context, c *ical.Component) (int64, error) {
	parentID := sql.NullInt64{}
	if c.ParentID != nil {
		parentID = sql.NullInt64{Int64: *c.ParentID, Valid: true}
	}
	ownerID := sql.NullInt64{}
	if c.OwnerID != 0 {
		ownerID = sql.NullInt64{Int64: c.OwnerID, Valid: true}
	}

	if c.ID == 0 {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO components (type, owner_id, parent_id) VALUES ($1, $2, $3) RETURNING id`,
			string(c.Type), ownerID, parentID,
		).Scan(&c.ID)
		if err != nil {
			return 0, storeErr("inserting component", err)
		}
		return c.ID, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE components SET type = $1, owner_id = $2, parent_id = $3 WHERE id = $4`,
		string(c.Type), ownerID, parentID, c.ID,
	)
	if err != nil {
		return 0, storeErr("updating component", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, notFound(fmt.Sprintf("component with id %d not found for update", c.ID))
	}
	return c.ID, nil
}

const componentColumns = `id, type, owner_id, parent_id, created_at`

func (s *Store) FindComponentByID(ctx context.Context, id int64) (*ical.Component, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+componentColumns+` FROM components WHERE id = $1`, id)
	c, err := scanComponent(row)
	if err == sql.ErrNoRows {
		return nil, notFound("component not found")
	}
	if err != nil {
		return nil, storeErr("querying component", err)
	}

	children, err := s.FindComponentsByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Components = children

	properties, err := s.FindPropertiesByComponent(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Properties = properties
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (*ical.Component, error) {
	c := &ical.Component{}
	var typ string
	var ownerID, parentID sql.NullInt64
	if err := row.Scan(&c.ID, &typ, &ownerID, &parentID, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Type = ical.ComponentType(typ)
	if ownerID.Valid {
		c.OwnerID = ownerID.Int64
	}
	if parentID.Valid {
		id := parentID.Int64
		c.ParentID = &id
	}
	return c, nil
}

func (s *Store) FindAllComponents(ctx context.Context) ([]*ical.Component, error) {
	return s.queryComponents(ctx,
		`SELECT `+componentColumns+` FROM components ORDER BY id`)
}

func (s *Store) FindComponentsByParent(ctx context.Context, parentID int64) ([]*ical.Component, error) {
	return s.queryComponents(ctx,
		`SELECT `+componentColumns+` FROM components WHERE parent_id = $1 ORDER BY id`, parentID)
}

func (s *Store) FindComponentsByParentAndType(ctx context.Context, parentID int64, t ical.ComponentType) ([]*ical.Component, error) {
	return s.queryComponents(ctx,
		`SELECT `+componentColumns+` FROM components WHERE parent_id = $1 AND type = $2 ORDER BY id`, parentID, string(t))
}

func (s *Store) FindComponentsByOwner(ctx context.Context, ownerID int64) ([]*ical.Component, error) {
	return s.queryComponents(ctx,
		`SELECT `+componentColumns+` FROM components WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (s *Store) FindComponentsByOwnerAndType(ctx context.Context, ownerID int64, t ical.ComponentType) ([]*ical.Component, error) {
	return s.queryComponents(ctx,
		`SELECT `+componentColumns+` FROM components WHERE owner_id = $1 AND type = $2 ORDER BY id`, ownerID, string(t))
}

func (s *Store) FindComponentsByType(ctx context.Context, t ical.ComponentType) ([]*ical.Component, error) {
	return s.queryComponents(ctx,
		`SELECT `+componentColumns+` FROM components WHERE type = $1 ORDER BY id`, string(t))
}

func (s *Store) queryComponents(ctx context.Context, query string, args ...any) ([]*ical.Component, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("querying components", err)
	}
	defer rows.Close()

	var out []*ical.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, storeErr("scanning component row", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating component rows", err)
	}
	return out, nil
}

func (s *Store) DeleteComponent(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM components WHERE id = $1`, "component", id)
}

func (s *Store) CountComponentsByID(ctx context.Context, id int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM components WHERE id = $1`, id)
}

func (s *Store) CountComponentsByParent(ctx context.Context, parentID int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM components WHERE parent_id = $1`, parentID)
}

func (s *Store) CountComponentsByParentAndType(ctx context.Context, parentID int64, t ical.ComponentType) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM components WHERE parent_id = $1 AND type = $2`, parentID, string(t))
}

func (s *Store) CountComponentsByOwnerAndType(ctx context.Context, ownerID int64, t ical.ComponentType) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM components WHERE owner_id = $1 AND type = $2`, ownerID, string(t))
}

func (s *Store) CountComponentsByIDAndOwner(ctx context.Context, id, ownerID int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM components WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

// Property operations

func (s *Store) SaveProperty(ctx context.Context, p *ical.Property) (int64, error) {
	if p.ID == 0 {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO properties (type, value, component_id) VALUES ($1, $2, $3) RETURNING id`,
			string(p.Type), p.Value, p.ComponentID,
		).Scan(&p.ID)
		if err != nil {
			return 0, storeErr("inserting property", err)
		}
		return p.ID, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE properties SET type = $1, value = $2, component_id = $3 WHERE id = $4`,
		string(p.Type), p.Value, p.ComponentID, p.ID,
	)
	if err != nil {
		return 0, storeErr("updating property", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, notFound(fmt.Sprintf("property with id %d not found for update", p.ID))
	}
	return p.ID, nil
}

func (s *Store) FindPropertyByID(ctx context.Context, id int64) (*ical.Property, error) {
	p := &ical.Property{}
	var typ string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, value, component_id FROM properties WHERE id = $1`, id,
	).Scan(&p.ID, &typ, &p.Value, &p.ComponentID)
	if err == sql.ErrNoRows {
		return nil, notFound("property not found")
	}
	if err != nil {
		return nil, storeErr("querying property", err)
	}
	p.Type = ical.PropertyType(typ)

	parameters, err := s.FindParametersByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Parameters = parameters
	return p, nil
}

func (s *Store) FindAllProperties(ctx context.Context) ([]*ical.Property, error) {
	return s.queryProperties(ctx,
		`SELECT id, type, value, component_id FROM properties ORDER BY id`)
}

func (s *Store) FindPropertiesByComponent(ctx context.Context, componentID int64) ([]*ical.Property, error) {
	return s.queryProperties(ctx,
		`SELECT id, type, value, component_id FROM properties WHERE component_id = $1 ORDER BY id`, componentID)
}

func (s *Store) FindPropertiesByComponentAndType(ctx context.Context, componentID int64, t ical.PropertyType) ([]*ical.Property, error) {
	return s.queryProperties(ctx,
		`SELECT id, type, value, component_id FROM properties WHERE component_id = $1 AND type = $2 ORDER BY id`, componentID, string(t))
}

func (s *Store) FindPropertiesByType(ctx context.Context, t ical.PropertyType) ([]*ical.Property, error) {
	return s.queryProperties(ctx,
		`SELECT id, type, value, component_id FROM properties WHERE type = $1 ORDER BY id`, string(t))
}

func (s *Store) queryProperties(ctx context.Context, query string, args ...any) ([]*ical.Property, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("querying properties", err)
	}
	defer rows.Close()

	var out []*ical.Property
	for rows.Next() {
		p := &ical.Property{}
		var typ string
		if err := rows.Scan(&p.ID, &typ, &p.Value, &p.ComponentID); err != nil {
			return nil, storeErr("scanning property row", err)
		}
		p.Type = ical.PropertyType(typ)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating property rows", err)
	}
	return out, nil
}

func (s *Store) DeleteProperty(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM properties WHERE id = $1`, "property", id)
}

func (s *Store) CountPropertiesByID(ctx context.Context, id int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM properties WHERE id = $1`, id)
}

func (s *Store) CountPropertiesByComponent(ctx context.Context, componentID int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM properties WHERE component_id = $1`, componentID)
}

// Parameter operations

func (s *Store) SaveParameter(ctx context.Context, p *ical.Parameter) (int64, error) {
	if p.ID == 0 {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO parameters (type, value, property_id) VALUES ($1, $2, $3) RETURNING id`,
			string(p.Type), p.Value, p.PropertyID,
		).Scan(&p.ID)
		if err != nil {
			return 0, storeErr("inserting parameter", err)
		}
		return p.ID, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE parameters SET type = $1, value = $2, property_id = $3 WHERE id = $4`,
		string(p.Type), p.Value, p.PropertyID, p.ID,
	)
	if err != nil {
		return 0, storeErr("updating parameter", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, notFound(fmt.Sprintf("parameter with id %d not found for update", p.ID))
	}
	return p.ID, nil
}

func (s *Store) FindParameterByID(ctx context.Context, id int64) (*ical.Parameter, error) {
	p := &ical.Parameter{}
	var typ string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, value, property_id FROM parameters WHERE id = $1`, id,
	).Scan(&p.ID, &typ, &p.Value, &p.PropertyID)
	if err == sql.ErrNoRows {
		return nil, notFound("parameter not found")
	}
	if err != nil {
		return nil, storeErr("querying parameter", err)
	}
	p.Type = ical.ParameterType(typ)
	return p, nil
}

func (s *Store) FindAllParameters(ctx context.Context) ([]*ical.Parameter, error) {
	return s.queryParameters(ctx,
		`SELECT id, type, value, property_id FROM parameters ORDER BY id`)
}

func (s *Store) FindParametersByProperty(ctx context.Context, propertyID int64) ([]*ical.Parameter, error) {
	return s.queryParameters(ctx,
		`SELECT id, type, value, property_id FROM parameters WHERE property_id = $1 ORDER BY id`, propertyID)
}

func (s *Store) FindParametersByPropertyAndType(ctx context.Context, propertyID int64, t ical.ParameterType) ([]*ical.Parameter, error) {
	return s.queryParameters(ctx,
		`SELECT id, type, value, property_id FROM parameters WHERE property_id = $1 AND type = $2 ORDER BY id`, propertyID, string(t))
}

func (s *Store) FindParametersByType(ctx context.Context, t ical.ParameterType) ([]*ical.Parameter, error) {
	return s.queryParameters(ctx,
		`SELECT id, type, value, property_id FROM parameters WHERE type = $1 ORDER BY id`, string(t))
}

func (s *Store) queryParameters(ctx context.Context, query string, args ...any) ([]*ical.Parameter, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("querying parameters", err)
	}
	defer rows.Close()

	var out []*ical.Parameter
	for rows.Next() {
		p := &ical.Parameter{}
		var typ string
		if err := rows.Scan(&p.ID, &typ, &p.Value, &p.PropertyID); err != nil {
			return nil, storeErr("scanning parameter row", err)
		}
		p.Type = ical.ParameterType(typ)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating parameter rows", err)
	}
	return out, nil
}

func (s *Store) DeleteParameter(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM parameters WHERE id = $1`, "parameter", id)
}

func (s *Store) CountParametersByID(ctx context.Context, id int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM parameters WHERE id = $1`, id)
}

func (s *Store) CountParametersByProperty(ctx context.Context, propertyID int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM parameters WHERE property_id = $1`, propertyID)
}

// Shared helpers

func (s *Store) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, storeErr("counting rows", err)
	}
	return n, nil
}

func (s *Store) deleteRow(ctx context.Context, query, kind string, arg any) error {
	res, err := s.db.ExecContext(ctx, query, arg)
	if err != nil {
		return storeErr("deleting "+kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("reading rows affected", err)
	}
	if n == 0 {
		return notFound(kind + " not found")
	}
	return nil
}
