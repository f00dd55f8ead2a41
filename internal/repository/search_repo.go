package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"srt-booking/internal/domain"
)

type SearchRepository interface {
	Create(ctx context.Context, record domain.SearchRecord) error
	ListByOwner(ctx context.Context, ownerHash string, limit int) ([]domain.SearchRecord, error)
}

type PgSearchRepository struct {
	pool *pgxpool.Pool
}

func NewPgSearchRepository(pool *pgxpool.Pool) *PgSearchRepository {
	return &PgSearchRepository{pool: pool}
}

func (r *PgSearchRepository) Create(ctx context.Context, record domain.SearchRecord) error {
	const query = `
		INSERT INTO train_searches (id, owner_hash, departure_code, arrival_code, travel_date, result_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.OwnerHash,
		record.DepartureCode,
		record.ArrivalCode,
		record.TravelDate,
		record.ResultCount,
		record.CreatedAt,
	)
	return err
}

func (r *PgSearchRepository) ListByOwner(ctx context.Context, ownerHash string, limit int) ([]domain.SearchRecord, error) {
	const query = `
		SELECT id, owner_hash, departure_code, arrival_code, travel_date, result_count, created_at
		FROM train_searches
		WHERE owner_hash = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerHash, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SearchRecord
	for rows.Next() {
		var rec domain.SearchRecord
		err = rows.Scan(
			&rec.ID,
			&rec.OwnerHash,
			&rec.DepartureCode,
			&rec.ArrivalCode,
			&rec.TravelDate,
			&rec.ResultCount,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// MemorySearchRepository se usa cuando no hay DATABASE_URL configurada.
type MemorySearchRepository struct {
	mu      sync.Mutex
	records []domain.SearchRecord
	max     int
}

func NewMemorySearchRepository(max int) *MemorySearchRepository {
	if max <= 0 {
		max = 1000
	}
	return &MemorySearchRepository{max: max}
}

func (r *MemorySearchRepository) Create(_ context.Context, record domain.SearchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	if over := len(r.records) - r.max; over > 0 {
		r.records = append([]domain.SearchRecord(nil), r.records[over:]...)
	}
	return nil
}

func (r *MemorySearchRepository) ListByOwner(_ context.Context, ownerHash string, limit int) ([]domain.SearchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SearchRecord
	for _, rec := range r.records {
		if rec.OwnerHash == ownerHash {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
