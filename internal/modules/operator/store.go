// README: Operator stores; in-memory fixtures or PostgreSQL.
package operator

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charterdesk/internal/types"
)

var ErrNotFound = errors.New("operator not found")

type Store interface {
	Get(ctx context.Context, id types.ID) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
}

type MemoryStore struct {
	mu        sync.RWMutex
	operators map[types.ID]Profile
}

func NewMemoryStore(profiles ...Profile) *MemoryStore {
	s := &MemoryStore{operators: make(map[types.ID]Profile, len(profiles))}
	for _, p := range profiles {
		s.operators[p.ID] = p
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id types.ID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.operators[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.HomeBases = append([]string(nil), p.HomeBases...)
	return &p, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Profile, 0, len(s.operators))
	for _, p := range s.operators {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id types.ID) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, home_bases, safety_notes, typical_turn_minutes, contact
		FROM operators
		WHERE id = $1`, string(id),
	)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, home_bases, safety_notes, typical_turn_minutes, contact
		FROM operators
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Upsert is used by the seed command.
func (s *PostgresStore) Upsert(ctx context.Context, p Profile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO operators (id, name, home_bases, safety_notes, typical_turn_minutes, contact)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			home_bases = EXCLUDED.home_bases,
			safety_notes = EXCLUDED.safety_notes,
			typical_turn_minutes = EXCLUDED.typical_turn_minutes,
			contact = EXCLUDED.contact`,
		string(p.ID), p.Name, p.HomeBases, p.SafetyNotes, p.TypicalTurnMinutes, p.Contact,
	)
	return err
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		p  Profile
		id string
	)
	if err := row.Scan(&id, &p.Name, &p.HomeBases, &p.SafetyNotes, &p.TypicalTurnMinutes, &p.Contact); err != nil {
		return nil, err
	}
	p.ID = types.ID(id)
	return &p, nil
}
