// README: Rate stores; in-memory fixtures or PostgreSQL.
package pricing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charterdesk/internal/types"
)

var (
	ErrNoRate          = errors.New("no rate for aircraft type")
	ErrNoRepositionFee = errors.New("no reposition fee for operator")
)

type RateStore interface {
	// BaseRate is the flight rate in GBP for an aircraft type.
	BaseRate(ctx context.Context, aircraftType string) (int64, error)
	// RepositionFee is the operator's flat fee in GBP.
	RepositionFee(ctx context.Context, operatorID types.ID) (int64, error)
}

type MemoryRates struct {
	mu         sync.RWMutex
	rates      map[string]int64
	reposition map[types.ID]int64
}

func NewMemoryRates(rates map[string]int64, reposition map[types.ID]int64) *MemoryRates {
	m := &MemoryRates{
		rates:      make(map[string]int64, len(rates)),
		reposition: make(map[types.ID]int64, len(reposition)),
	}
	for k, v := range rates {
		m.rates[strings.ToLower(k)] = v
	}
	for k, v := range reposition {
		m.reposition[k] = v
	}
	return m
}

// BaseRate matches the type case-insensitively, then falls back to the single
// rate whose type contains the query ("G550" -> "Gulfstream G550").
func (m *MemoryRates) BaseRate(_ context.Context, aircraftType string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(aircraftType))
	if q == "" {
		return 0, ErrNoRate
	}
	if v, ok := m.rates[q]; ok {
		return v, nil
	}
	var (
		found int64
		hits  int
	)
	for k, v := range m.rates {
		if strings.Contains(k, q) {
			found = v
			hits++
		}
	}
	if hits != 1 {
		return 0, ErrNoRate
	}
	return found, nil
}

func (m *MemoryRates) RepositionFee(_ context.Context, operatorID types.ID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.reposition[operatorID]
	if !ok {
		return 0, ErrNoRepositionFee
	}
	return v, nil
}

type PostgresRates struct {
	db *pgxpool.Pool
}

func NewPostgresRates(db *pgxpool.Pool) *PostgresRates {
	return &PostgresRates{db: db}
}

func (s *PostgresRates) BaseRate(ctx context.Context, aircraftType string) (int64, error) {
	q := strings.TrimSpace(aircraftType)
	if q == "" {
		return 0, ErrNoRate
	}
	var rate int64
	err := s.db.QueryRow(ctx, `
		SELECT base_rate_gbp
		FROM aircraft_rates
		WHERE lower(aircraft_type) = lower($1)
		   OR strpos(lower(aircraft_type), lower($1)) > 0
		ORDER BY (lower(aircraft_type) = lower($1)) DESC, aircraft_type
		LIMIT 1`, q,
	).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoRate
	}
	return rate, err
}

func (s *PostgresRates) RepositionFee(ctx context.Context, operatorID types.ID) (int64, error) {
	var fee int64
	err := s.db.QueryRow(ctx, `
		SELECT reposition_fee_gbp
		FROM operator_fees
		WHERE operator_id = $1`, string(operatorID),
	).Scan(&fee)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoRepositionFee
	}
	return fee, err
}

// UpsertRate and UpsertFee are used by the seed command.
func (s *PostgresRates) UpsertRate(ctx context.Context, aircraftType string, rate int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO aircraft_rates (aircraft_type, base_rate_gbp)
		VALUES ($1, $2)
		ON CONFLICT (aircraft_type) DO UPDATE SET base_rate_gbp = EXCLUDED.base_rate_gbp`,
		aircraftType, rate,
	)
	return err
}

func (s *PostgresRates) UpsertFee(ctx context.Context, operatorID types.ID, fee int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO operator_fees (operator_id, reposition_fee_gbp)
		VALUES ($1, $2)
		ON CONFLICT (operator_id) DO UPDATE SET reposition_fee_gbp = EXCLUDED.reposition_fee_gbp`,
		string(operatorID), fee,
	)
	return err
}
