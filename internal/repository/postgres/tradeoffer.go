package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/service/trade"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on pending (offered_game_id, requested_game_id) pairs.
const uniqueViolation = "23505"

// TradeOfferRepo implements trade.Repository against PostgreSQL.
type TradeOfferRepo struct{ db *sql.DB }

// NewTradeOfferRepo creates a Postgres-backed trade offer repository.
func NewTradeOfferRepo(db *sql.DB) *TradeOfferRepo { return &TradeOfferRepo{db: db} }

const offerColumns = `id, offered_game_id, requested_game_id, offerer_id, receiver_id, status, created_at, updated_at`

func scanOffer(row interface{ Scan(...interface{}) error }, o *domain.TradeOffer) error {
	return row.Scan(
		&o.ID, &o.OfferedGameID, &o.RequestedGameID, &o.OffererID, &o.ReceiverID,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
}

func (r *TradeOfferRepo) Get(ctx context.Context, id int64) (*domain.TradeOffer, error) {
	o := &domain.TradeOffer{}
	err := scanOffer(r.db.QueryRowContext(ctx, `
		SELECT `+offerColumns+`
		FROM trade_offers
		WHERE id = $1
	`, id), o)
	if err == sql.ErrNoRows {
		return nil, trade.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trade offer: %w", err)
	}
	return o, nil
}

func (r *TradeOfferRepo) List(ctx context.Context, f trade.ListFilter) ([]domain.TradeOffer, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	q := `SELECT ` + offerColumns + ` FROM trade_offers`
	args := []interface{}{}
	idx := 1
	if f.Status != "" {
		q += fmt.Sprintf(" WHERE status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	q += fmt.Sprintf(" ORDER BY id ASC OFFSET $%d LIMIT $%d", idx, idx+1)
	args = append(args, f.Skip, limit)

	return r.queryOffers(ctx, q, args...)
}

func (r *TradeOfferRepo) ListByOfferer(ctx context.Context, userID int64, f trade.ListFilter) ([]domain.TradeOffer, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	return r.queryOffers(ctx, `
		SELECT `+offerColumns+`
		FROM trade_offers
		WHERE offerer_id = $1
		ORDER BY id ASC OFFSET $2 LIMIT $3
	`, userID, f.Skip, limit)
}

func (r *TradeOfferRepo) ListByReceiver(ctx context.Context, userID int64, f trade.ListFilter) ([]domain.TradeOffer, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	return r.queryOffers(ctx, `
		SELECT `+offerColumns+`
		FROM trade_offers
		WHERE receiver_id = $1
		ORDER BY id ASC OFFSET $2 LIMIT $3
	`, userID, f.Skip, limit)
}

func (r *TradeOfferRepo) queryOffers(ctx context.Context, q string, args ...interface{}) ([]domain.TradeOffer, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trade offers: %w", err)
	}
	defer rows.Close()

	var out []domain.TradeOffer
	for rows.Next() {
		var o domain.TradeOffer
		if err := scanOffer(rows, &o); err != nil {
			return nil, fmt.Errorf("scan trade offer: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *TradeOfferRepo) PendingExists(ctx context.Context, offeredGameID, requestedGameID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM trade_offers
			WHERE offered_game_id = $1 AND requested_game_id = $2 AND status = 'pending'
		)
	`, offeredGameID, requestedGameID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending offer: %w", err)
	}
	return exists, nil
}

func (r *TradeOfferRepo) Create(ctx context.Context, o *domain.TradeOffer) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO trade_offers
			(offered_game_id, requested_game_id, offerer_id, receiver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'pending', NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, o.OfferedGameID, o.RequestedGameID, o.OffererID, o.ReceiverID).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return trade.ErrDuplicatePending
	}
	if err != nil {
		return fmt.Errorf("create trade offer: %w", err)
	}
	o.Status = domain.OfferPending
	return nil
}

// TransitionStatus is the engine's compare-and-set: the UPDATE only matches
// while the row is still pending, so of any number of concurrent calls the
// database lets exactly one through. Losers re-read the row to report the
// status the winner left behind.
func (r *TradeOfferRepo) TransitionStatus(ctx context.Context, id int64, target domain.TradeOfferStatus) (*domain.TradeOffer, error) {
	o := &domain.TradeOffer{}
	err := scanOffer(r.db.QueryRowContext(ctx, `
		UPDATE trade_offers
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+offerColumns+`
	`, id, target), o)
	if err == nil {
		return o, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("transition trade offer: %w", err)
	}

	var current domain.TradeOfferStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM trade_offers WHERE id = $1`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, trade.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read trade offer status: %w", err)
	}
	return nil, &trade.StateError{Target: target, Current: current}
}
