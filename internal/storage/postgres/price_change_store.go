package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

// PriceChangeStore implements storage.PriceChangeStore using PostgreSQL.
type PriceChangeStore struct {
	pool *Pool
}

// NewPriceChangeStore creates a new PriceChangeStore.
func NewPriceChangeStore(pool *Pool) *PriceChangeStore {
	return &PriceChangeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PriceChangeStore = (*PriceChangeStore)(nil)

const insertPriceChangeQuery = `
	INSERT INTO price_change_records (
		record_id, run_id,
		product_name, pack_size, sale_type, raw_sale_type,
		old_price, new_price, prices_valid,
		category, price_ratio_pct, has_ratio, zero_base
	) VALUES (
		$1, $2,
		$3, $4, $5, $6,
		$7, $8, $9,
		$10, $11, $12, $13
	)
`

// Insert adds one classified record. Returns ErrDuplicateKey if record_id exists.
func (s *PriceChangeStore) Insert(ctx context.Context, recordID, runID string, rec *domain.ClassifiedRecord) error {
	if recordID == "" || rec == nil || rec.Record == nil {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertPriceChangeQuery, insertArgs(recordID, runID, rec)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert price change record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *PriceChangeStore) InsertBulk(ctx context.Context, runID string, recs map[string]*domain.ClassifiedRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Deterministic insertion order for map input.
	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := recs[id]
		if id == "" || rec == nil || rec.Record == nil {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertPriceChangeQuery, insertArgs(id, runID, rec)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert price change record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertArgs(recordID, runID string, rec *domain.ClassifiedRecord) []any {
	r := rec.Record
	return []any{
		recordID, runID,
		r.ProductName, r.PackSize, string(r.SaleType), r.RawSaleType,
		r.OldPrice.String(), r.NewPrice.String(), r.PricesValid,
		string(rec.Category), rec.PriceRatioPct, rec.HasRatio, rec.ZeroBase,
	}
}

const selectPriceChangeColumns = `
	product_name, pack_size, sale_type, raw_sale_type,
	old_price, new_price, prices_valid,
	category, price_ratio_pct, has_ratio, zero_base
`

// GetByID retrieves one record. Returns ErrNotFound if not exists.
func (s *PriceChangeStore) GetByID(ctx context.Context, recordID string) (*domain.ClassifiedRecord, error) {
	query := `SELECT ` + selectPriceChangeColumns + ` FROM price_change_records WHERE record_id = $1`

	rec, err := scanClassified(s.pool.QueryRow(ctx, query, recordID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get price change record by id: %w", err)
	}
	return rec, nil
}

// GetByRunID retrieves all records of one run, in insertion order.
func (s *PriceChangeStore) GetByRunID(ctx context.Context, runID string) ([]*domain.ClassifiedRecord, error) {
	query := `SELECT ` + selectPriceChangeColumns + ` FROM price_change_records WHERE run_id = $1 ORDER BY seq ASC`
	return s.queryClassified(ctx, query, runID)
}

// GetByCategory retrieves all records of one category across runs.
func (s *PriceChangeStore) GetByCategory(ctx context.Context, category domain.ChangeCategory) ([]*domain.ClassifiedRecord, error) {
	query := `SELECT ` + selectPriceChangeColumns + ` FROM price_change_records WHERE category = $1 ORDER BY seq ASC`
	return s.queryClassified(ctx, query, string(category))
}

func (s *PriceChangeStore) queryClassified(ctx context.Context, query string, arg any) ([]*domain.ClassifiedRecord, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query price change records: %w", err)
	}
	defer rows.Close()

	var result []*domain.ClassifiedRecord
	for rows.Next() {
		rec, err := scanClassified(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price change record: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price change records: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClassified(row rowScanner) (*domain.ClassifiedRecord, error) {
	var (
		rec                domain.PriceRecord
		saleType, category string
		oldPrice, newPrice string
		out                domain.ClassifiedRecord
	)

	err := row.Scan(
		&rec.ProductName, &rec.PackSize, &saleType, &rec.RawSaleType,
		&oldPrice, &newPrice, &rec.PricesValid,
		&category, &out.PriceRatioPct, &out.HasRatio, &out.ZeroBase,
	)
	if err != nil {
		return nil, err
	}

	rec.SaleType = domain.SaleType(saleType)
	if rec.OldPrice, err = decimal.NewFromString(oldPrice); err != nil {
		return nil, fmt.Errorf("parse old_price: %w", err)
	}
	if rec.NewPrice, err = decimal.NewFromString(newPrice); err != nil {
		return nil, fmt.Errorf("parse new_price: %w", err)
	}

	out.Record = &rec
	out.Category = domain.ChangeCategory(category)
	return &out, nil
}
