package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/service/game"
)

// GameRepo implements game.Repository against PostgreSQL. It also serves as
// the trade service's GameReader for live ownership lookups.
type GameRepo struct{ db *sql.DB }

// NewGameRepo creates a Postgres-backed game repository.
func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{db: db} }

const gameColumns = `id, name, publisher, year_published, gaming_system, condition, previous_owners, owner_id`

func scanGame(row interface{ Scan(...interface{}) error }, g *domain.VideoGame) error {
	return row.Scan(
		&g.ID, &g.Name, &g.Publisher, &g.YearPublished, &g.GamingSystem,
		&g.Condition, &g.PreviousOwners, &g.OwnerID,
	)
}

func (r *GameRepo) Get(ctx context.Context, id int64) (*domain.VideoGame, error) {
	g := &domain.VideoGame{}
	err := scanGame(r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM video_games
		WHERE id = $1
	`, id), g)
	if err == sql.ErrNoRows {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// GetGame satisfies trade.GameReader.
func (r *GameRepo) GetGame(ctx context.Context, id int64) (*domain.VideoGame, error) {
	return r.Get(ctx, id)
}

func (r *GameRepo) List(ctx context.Context, f game.ListFilter) ([]domain.VideoGame, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	return r.queryGames(ctx, `
		SELECT `+gameColumns+`
		FROM video_games
		ORDER BY id ASC OFFSET $1 LIMIT $2
	`, f.Skip, limit)
}

func (r *GameRepo) ListByOwner(ctx context.Context, ownerID int64, f game.ListFilter) ([]domain.VideoGame, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	return r.queryGames(ctx, `
		SELECT `+gameColumns+`
		FROM video_games
		WHERE owner_id = $1
		ORDER BY id ASC OFFSET $2 LIMIT $3
	`, ownerID, f.Skip, limit)
}

func (r *GameRepo) queryGames(ctx context.Context, q string, args ...interface{}) ([]domain.VideoGame, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []domain.VideoGame
	for rows.Next() {
		var g domain.VideoGame
		if err := scanGame(rows, &g); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GameRepo) Create(ctx context.Context, g *domain.VideoGame) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO video_games
			(name, publisher, year_published, gaming_system, condition, previous_owners, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, g.Name, g.Publisher, g.YearPublished, g.GamingSystem, g.Condition, g.PreviousOwners, g.OwnerID).
		Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

func (r *GameRepo) Update(ctx context.Context, id int64, u game.UpdateFields) (*domain.VideoGame, error) {
	sets := []string{}
	args := []interface{}{id}
	idx := 2

	add := func(col string, v interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, v)
		idx++
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Publisher != nil {
		add("publisher", *u.Publisher)
	}
	if u.YearPublished != nil {
		add("year_published", *u.YearPublished)
	}
	if u.GamingSystem != nil {
		add("gaming_system", *u.GamingSystem)
	}
	if u.Condition != nil {
		add("condition", *u.Condition)
	}
	if u.PreviousOwners != nil {
		add("previous_owners", *u.PreviousOwners)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	q := "UPDATE video_games SET "
	for i, s := range sets {
		if i > 0 {
			q += ", "
		}
		q += s
	}
	q += " WHERE id = $1 RETURNING " + gameColumns

	g := &domain.VideoGame{}
	err := scanGame(r.db.QueryRowContext(ctx, q, args...), g)
	if err == sql.ErrNoRows {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}
	return g, nil
}

func (r *GameRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM video_games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}
