package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkudasheva/paper-broker/internal/domain"
	"github.com/mkudasheva/paper-broker/internal/port"
)

var _ port.OrderRepository = (*Repo)(nil)
var _ port.CandleSource = (*Repo)(nil)

// Repo implements the order repository and candle source on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo connects a pool to dsn. Call Close when finished.
func NewRepo(ctx context.Context, dsn string) (*Repo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &Repo{pool: pool}, nil
}

func NewRepoWithPool(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// SaveOrder upserts the order, replacing the stored row only when its
// version matches the one the caller read. A stale write returns
// domain.ErrVersionConflict; on success the order's version advances.
func (r *Repo) SaveOrder(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return errors.New("pg: nil order")
	}
	trades, err := json.Marshal(o.Trades)
	if err != nil {
		return fmt.Errorf("pg: marshal trades: %w", err)
	}
	otherParams, err := json.Marshal(o.OtherParameters)
	if err != nil {
		return fmt.Errorf("pg: marshal other_parameters: %w", err)
	}
	fullData, err := json.Marshal(o.FullData)
	if err != nil {
		return fmt.Errorf("pg: marshal full_data: %w", err)
	}

	next := o.Version + 1
	now := time.Now()
	res, err := r.pool.Exec(ctx, `
INSERT INTO orders(id, external_id, instrument_type, symbol, direction, type, status,
  price1, price2, price3, quantity_amount, quantity_unit, time_in_force,
  submission_timestamp, execution_timestamp, cancellation_timestamp,
  trades, other_parameters, full_data, version, created_at, updated_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
ON CONFLICT (id) DO UPDATE SET
  external_id = EXCLUDED.external_id,
  status = EXCLUDED.status,
  submission_timestamp = EXCLUDED.submission_timestamp,
  execution_timestamp = EXCLUDED.execution_timestamp,
  cancellation_timestamp = EXCLUDED.cancellation_timestamp,
  trades = EXCLUDED.trades,
  other_parameters = EXCLUDED.other_parameters,
  full_data = EXCLUDED.full_data,
  version = EXCLUDED.version,
  updated_at = EXCLUDED.updated_at
WHERE orders.version = EXCLUDED.version - 1
`, o.ID, o.ExternalID, string(o.InstrumentType), o.Symbol, string(o.Direction), string(o.Type), string(o.Status),
		o.Price1, o.Price2, o.Price3, o.Quantity.Amount, string(o.Quantity.Unit), string(o.TimeInForce),
		o.SubmissionTimestamp, o.ExecutionTimestamp, o.CancellationTimestamp,
		trades, otherParams, fullData, next, o.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("pg: save order: %w", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s version %d", domain.ErrVersionConflict, o.ID, o.Version)
	}
	o.Version = next
	o.UpdatedAt = now
	return nil
}

func (r *Repo) OrderByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, selectOrder+` WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return o, err
}

func (r *Repo) OrdersByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]*domain.Order, error) {
	set := make([]string, len(statuses))
	for i, s := range statuses {
		set[i] = string(s)
	}
	rows, err := r.pool.Query(ctx, selectOrder+` WHERE status = ANY($1) ORDER BY created_at ASC`, set)
	if err != nil {
		return nil, fmt.Errorf("pg: orders by status: %w", err)
	}
	defer rows.Close()

	var res []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

const selectOrder = `
SELECT id, external_id, instrument_type, symbol, direction, type, status,
  price1, price2, price3, quantity_amount, quantity_unit, time_in_force,
  submission_timestamp, execution_timestamp, cancellation_timestamp,
  trades, other_parameters, full_data, version, created_at, updated_at
FROM orders`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                                  domain.Order
		instrumentType, direction, typ     string
		status, unit, tif                  string
		trades, otherParams, fullData      []byte
		submission, execution, cancelledAt *time.Time
	)
	err := row.Scan(&o.ID, &o.ExternalID, &instrumentType, &o.Symbol, &direction, &typ, &status,
		&o.Price1, &o.Price2, &o.Price3, &o.Quantity.Amount, &unit, &tif,
		&submission, &execution, &cancelledAt,
		&trades, &otherParams, &fullData, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.InstrumentType = domain.InstrumentType(instrumentType)
	o.Direction = domain.Direction(direction)
	o.Type = domain.OrderType(typ)
	o.Status = domain.OrderStatus(status)
	o.Quantity.Unit = domain.QuantityUnit(unit)
	o.TimeInForce = domain.TimeInForce(tif)
	o.SubmissionTimestamp = submission
	o.ExecutionTimestamp = execution
	o.CancellationTimestamp = cancelledAt
	if len(trades) > 0 {
		if err := json.Unmarshal(trades, &o.Trades); err != nil {
			return nil, fmt.Errorf("pg: unmarshal trades: %w", err)
		}
	}
	if len(otherParams) > 0 {
		if err := json.Unmarshal(otherParams, &o.OtherParameters); err != nil {
			return nil, fmt.Errorf("pg: unmarshal other_parameters: %w", err)
		}
	}
	if len(fullData) > 0 {
		if err := json.Unmarshal(fullData, &o.FullData); err != nil {
			return nil, fmt.Errorf("pg: unmarshal full_data: %w", err)
		}
	}
	return &o, nil
}

// CandlesSince returns the candles for symbol at the given interval whose
// window contains since or opens after it, ascending by open timestamp.
func (r *Repo) CandlesSince(ctx context.Context, symbol string, intervalMinutes int, since time.Time) ([]domain.Candle, error) {
	rows, err := r.pool.Query(ctx, `
SELECT symbol, interval_minutes, open_timestamp, close_timestamp, open, high, low, close
FROM candles
WHERE symbol = $1 AND interval_minutes = $2
  AND ((open_timestamp <= $3 AND close_timestamp >= $3) OR open_timestamp >= $3)
ORDER BY open_timestamp ASC
`, symbol, intervalMinutes, since)
	if err != nil {
		return nil, fmt.Errorf("pg: candles since: %w", err)
	}
	defer rows.Close()

	var res []domain.Candle
	for rows.Next() {
		var c domain.Candle
		if err := rows.Scan(&c.Symbol, &c.IntervalMinutes, &c.OpenTimestamp, &c.CloseTimestamp,
			&c.Open, &c.High, &c.Low, &c.Close); err != nil {
			return nil, fmt.Errorf("pg: scan candle: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
