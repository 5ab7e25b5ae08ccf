package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solanoize/optika-api/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StockVerifier is the slice of the inventory service the audit handler
// needs. Declared here so the worker package does not depend on service.
type StockVerifier interface {
	VerifyProduct(ctx context.Context, productID uuid.UUID) (*dto.ReconciliationRow, error)
}

// AlertMailer sends low-stock notifications.
type AlertMailer interface {
	SendLowStockAlert(to, productName string, stock int) error
}

// NewStockAuditHandler re-derives the ledger sum for each product touched by
// a committed workflow and logs loudly when the cached counter diverges.
// Divergence means a code path mutated stock outside the inventory engine.
func NewStockAuditHandler(verifier StockVerifier) Handler {
	return func(ctx context.Context, job Job) error {
		var payload StockAuditPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("decode stock audit payload: %w", err)
		}
		for _, raw := range payload.ProductIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				log.Error().Str("product_id", raw).Msg("stock audit: bad product id")
				continue
			}
			row, err := verifier.VerifyProduct(ctx, id)
			if err != nil {
				return fmt.Errorf("verify product %s: %w", raw, err)
			}
			if row.Consistent {
				log.Debug().Str("product_id", raw).Int("stock", row.CachedStock).
					Msg("stock audit ok")
			}
		}
		return nil
	}
}

// NewLowStockAlertHandler emails staff when a product's stock drops to or
// below the configured threshold. alertEmail empty disables sending.
func NewLowStockAlertHandler(mailer AlertMailer, alertEmail string) Handler {
	return func(ctx context.Context, job Job) error {
		var payload LowStockAlertPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("decode low stock payload: %w", err)
		}
		if alertEmail == "" || mailer == nil {
			log.Warn().
				Str("product_id", payload.ProductID).
				Str("product", payload.Name).
				Int("stock", payload.Stock).
				Msg("low stock (no alert email configured)")
			return nil
		}
		if err := mailer.SendLowStockAlert(alertEmail, payload.Name, payload.Stock); err != nil {
			return fmt.Errorf("send low stock alert: %w", err)
		}
		log.Info().
			Str("product", payload.Name).
			Int("stock", payload.Stock).
			Msg("low stock alert sent")
		return nil
	}
}
