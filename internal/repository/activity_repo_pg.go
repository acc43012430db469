package repository

import (
	"context"
	"encoding/json"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error)
}

type PGActivityRepository struct {
	db DB
}

func NewActivityRepository(db DB) ActivityRepository {
	return &PGActivityRepository{db: db}
}

func (r *PGActivityRepository) Append(ctx context.Context, entry *domain.ActivityLog) error {
	return insertActivity(ctx, r.db, entry)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// insertActivity runs on the pool or inside a caller's transaction.
func insertActivity(ctx context.Context, q rowQuerier, entry *domain.ActivityLog) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return q.QueryRow(ctx, `INSERT INTO activity_logs (actor_id, action, metadata) VALUES ($1, $2, $3) RETURNING id, created_at`,
		entry.ActorID, entry.Action, raw).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *PGActivityRepository) List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	rows, err := r.db.Query(ctx, `SELECT id, actor_id, action, metadata, created_at FROM activity_logs
		ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ActivityLog, 0)
	for rows.Next() {
		var e domain.ActivityLog
		var raw []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ ActivityRepository = (*PGActivityRepository)(nil)
