package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockAdjuster receives quantity movements when tracked product lines post.
// Inventory itself lives outside this engine; implementations forward to it.
type StockAdjuster interface {
	// AdjustQuantity applies a signed quantity delta to a product.
	AdjustQuantity(ctx context.Context, ownerID string, productID string, delta decimal.Decimal) error
}

// NoopStockAdjuster satisfies StockAdjuster for deployments without an
// inventory system attached.
type NoopStockAdjuster struct{}

// AdjustQuantity does nothing.
func (NoopStockAdjuster) AdjustQuantity(ctx context.Context, ownerID string, productID string, delta decimal.Decimal) error {
	return nil
}
