// Package idhash computes deterministic identifiers for records and runs.
package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"pricelab/internal/domain"
)

// ComputeRecordID computes a deterministic record_id.
// Formula: base58(SHA256(product|pack_size|sale_type|old|new)[:16])
// Two identical report rows hash to the same ID, which is what makes
// the price-change stores append-only safe across re-ingestion.
func ComputeRecordID(r *domain.PriceRecord) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s",
		r.ProductName,
		r.PackSize,
		string(r.SaleType),
		r.OldPrice.String(),
		r.NewPrice.String(),
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}

// ComputeRunID computes a deterministic run_id for a pipeline run.
// Formula: base58(SHA256(source|started_unix_ms)[:16])
func ComputeRunID(source string, started time.Time) string {
	data := fmt.Sprintf("%s|%d", source, started.UnixMilli())

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}
