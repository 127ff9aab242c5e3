package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront_bot/internal/domain"
)

// insertBatchSize keeps one INSERT well under the 65535 bind parameter limit.
const insertBatchSize = 1000

const productColumns = 6

// ProductStore is the per-context product cache.
type ProductStore struct {
	db *sqlx.DB
}

func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ReplaceAll swaps the cached catalog of contextID for products. Run it
// inside TransactionManager.WithTransaction so readers never observe the
// delete without the inserts.
func (s *ProductStore) ReplaceAll(ctx context.Context, contextID string, products []domain.Product) error {
	exec := GetExecutor(ctx, s.db)

	if _, err := exec.ExecContext(ctx, "DELETE FROM products WHERE context_id = $1", contextID); err != nil {
		return err
	}

	for start := 0; start < len(products); start += insertBatchSize {
		end := min(start+insertBatchSize, len(products))
		if err := s.insertBatch(ctx, exec, contextID, start, products[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (s *ProductStore) insertBatch(ctx context.Context, exec sqlx.ExtContext, contextID string, offset int, products []domain.Product) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO products (context_id, position, unique_id, title, price, currency) VALUES ")
	valueArgs := make([]interface{}, 0, len(products)*productColumns)

	for i, p := range products {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 1; c <= productColumns; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*productColumns + c))
		}
		sb.WriteString(")")
		valueArgs = append(valueArgs, contextID, offset+i, p.UniqueID, p.Title, p.Price, p.Currency)
	}

	_, err := exec.ExecContext(ctx, sb.String(), valueArgs...)
	return err
}

// ReadAll returns the cached catalog of contextID in storage order.
func (s *ProductStore) ReadAll(ctx context.Context, contextID string) ([]domain.Product, error) {
	query := `
		SELECT context_id, title, unique_id, price, currency
		FROM products
		WHERE context_id = $1
		ORDER BY position`

	products := []domain.Product{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &products, query, contextID)
	if err != nil {
		return nil, err
	}
	return products, nil
}
