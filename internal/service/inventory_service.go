package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solanoize/optika-api/internal/apierror"
	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/model"
	"github.com/solanoize/optika-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SourceDoc constants for ledger entries that do not originate from an
// order or purchase document.
const (
	SourceInitialStock    = "Initial Stock"
	SourceStockAdjustment = "Stock Adjustment"
)

// InventoryService is the inventory engine: the only code allowed to append
// ledger entries and to touch the cached stock counter, always both at once
// and always inside one transaction. The Tx methods run inside a
// caller-owned transaction; any error aborts the whole workflow.
type InventoryService interface {
	// InitializeStockTx writes the INIT movement for a freshly created
	// product. The cached stock is already set from creation input and is
	// not re-touched here.
	InitializeStockTx(tx *gorm.DB, p *model.Product) error

	// MoveOutForOrderTx writes one OUT movement per order line and
	// decrements each product's cached stock by the line quantity.
	// Stock sufficiency is enforced upstream, under the row locks the
	// order workflow holds.
	MoveOutForOrderTx(tx *gorm.DB, order *model.Order, items []model.OrderItem) error

	// MoveInForPurchaseTx writes one IN movement per purchase line and
	// increments each product's cached stock.
	MoveInForPurchaseTx(tx *gorm.DB, purchase *model.Purchase, items []model.PurchaseItem) error

	// CreateAdjustment records a manual correction: the StockAdjustment
	// row, one ADJUSTMENT movement with the signed difference, and the
	// stock delta, atomically.
	CreateAdjustment(ctx context.Context, userID uuid.UUID, req dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error)
	ListAdjustments(ctx context.Context, productID *uuid.UUID, page, limit int) ([]dto.AdjustmentResponse, int64, error)

	// CurrentStock computes the signed ledger sum for a product. This is
	// the authoritative reconciliation value — audit path, never the
	// read used inside a workflow.
	CurrentStock(ctx context.Context, productID uuid.UUID) (int, error)

	// VerifyProduct compares the ledger sum against the cached counter.
	VerifyProduct(ctx context.Context, productID uuid.UUID) (*dto.ReconciliationRow, error)

	// Reconcile runs VerifyProduct across the whole catalog.
	Reconcile(ctx context.Context) ([]dto.ReconciliationRow, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	GetMovement(ctx context.Context, id uuid.UUID) (*dto.MovementResponse, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	adjRepo      repository.StockAdjustmentRepository
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	adjRepo repository.StockAdjustmentRepository,
) InventoryService {
	return &inventoryService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		adjRepo:      adjRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *inventoryService) InitializeStockTx(tx *gorm.DB, p *model.Product) error {
	mov := &model.StockMovement{
		ProductID:    p.ID,
		MovementType: model.MovementInit,
		Quantity:     p.Stock,
		SourceDoc:    SourceInitialStock,
		Note:         fmt.Sprintf("Initial stock of product %s", p.Name),
		Date:         time.Now(),
		UserID:       p.UserID,
	}
	return s.movementRepo.CreateTx(tx, mov)
}

func (s *inventoryService) MoveOutForOrderTx(tx *gorm.DB, order *model.Order, items []model.OrderItem) error {
	now := time.Now()
	movements := make([]model.StockMovement, 0, len(items))
	for _, item := range items {
		movements = append(movements, model.StockMovement{
			ProductID:    item.ProductID,
			MovementType: model.MovementOut,
			Quantity:     item.Quantity,
			SourceDoc:    order.OrderNumber,
			Note:         fmt.Sprintf("Order Number #%s", order.OrderNumber),
			Date:         now,
			UserID:       order.UserID,
		})
	}
	if err := s.movementRepo.CreateBatchTx(tx, movements); err != nil {
		return err
	}
	for _, item := range items {
		if err := s.productRepo.UpdateStockTx(tx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *inventoryService) MoveInForPurchaseTx(tx *gorm.DB, purchase *model.Purchase, items []model.PurchaseItem) error {
	now := time.Now()
	movements := make([]model.StockMovement, 0, len(items))
	for _, item := range items {
		movements = append(movements, model.StockMovement{
			ProductID:    item.ProductID,
			MovementType: model.MovementIn,
			Quantity:     item.Quantity,
			SourceDoc:    purchase.PurchaseNumber,
			Note:         fmt.Sprintf("Purchase Number #%s", purchase.PurchaseNumber),
			Date:         now,
			UserID:       purchase.UserID,
		})
	}
	if err := s.movementRepo.CreateBatchTx(tx, movements); err != nil {
		return err
	}
	for _, item := range items {
		if err := s.productRepo.UpdateStockTx(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *inventoryService) CreateAdjustment(ctx context.Context, userID uuid.UUID, req dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}

	verr := apierror.NewValidation()
	if req.QuantityDifference == 0 {
		verr.Add("quantity_difference", "Quantity difference must not be 0.")
		return nil, verr
	}

	var adjustment model.StockAdjustment
	var stockAfter int
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productRepo.FindByIDForUpdate(tx, productID)
		if err != nil {
			return err
		}

		stockAfter = p.Stock + req.QuantityDifference
		if stockAfter < 0 {
			verr.Add("quantity_difference", fmt.Sprintf(
				"Difference %d would drive stock below 0 (current stock %d).",
				req.QuantityDifference, p.Stock))
			return verr
		}

		adjustment = model.StockAdjustment{
			ProductID:          productID,
			QuantityDifference: req.QuantityDifference,
			UserID:             userID,
		}
		if err := s.adjRepo.CreateTx(tx, &adjustment); err != nil {
			return err
		}

		note := req.Note
		if note == "" {
			note = fmt.Sprintf("Manual adjustment of product %s", p.Name)
		}
		mov := &model.StockMovement{
			ProductID:    productID,
			MovementType: model.MovementAdjustment,
			Quantity:     req.QuantityDifference,
			SourceDoc:    SourceStockAdjustment,
			Note:         note,
			Date:         time.Now(),
			UserID:       userID,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return err
		}

		return s.productRepo.UpdateStockTx(tx, productID, req.QuantityDifference)
	})
	if txErr != nil {
		return nil, txErr
	}

	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.AdjustmentResponse{
		ID:                 adjustment.ID.String(),
		Product:            p.Name,
		QuantityDifference: adjustment.QuantityDifference,
		Stock:              p.Stock,
		User:               userLabel(p.User),
		CreatedAt:          adjustment.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *inventoryService) ListAdjustments(ctx context.Context, productID *uuid.UUID, page, limit int) ([]dto.AdjustmentResponse, int64, error) {
	adjustments, total, err := s.adjRepo.List(ctx, productID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		name := ""
		stock := 0
		if a.Product != nil {
			name = a.Product.Name
			stock = a.Product.Stock
		}
		out = append(out, dto.AdjustmentResponse{
			ID:                 a.ID.String(),
			Product:            name,
			QuantityDifference: a.QuantityDifference,
			Stock:              stock,
			User:               userLabel(a.User),
			CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, total, nil
}

func (s *inventoryService) CurrentStock(ctx context.Context, productID uuid.UUID) (int, error) {
	return s.movementRepo.SumByProduct(ctx, productID)
}

func (s *inventoryService) VerifyProduct(ctx context.Context, productID uuid.UUID) (*dto.ReconciliationRow, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.movementRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	row := &dto.ReconciliationRow{
		ProductID:   p.ID.String(),
		Name:        p.Name,
		CachedStock: p.Stock,
		LedgerStock: ledger,
		Consistent:  p.Stock == ledger,
	}
	if !row.Consistent {
		log.Error().
			Str("product_id", row.ProductID).
			Int("cached_stock", row.CachedStock).
			Int("ledger_stock", row.LedgerStock).
			Msg("stock counter diverged from ledger sum")
	}
	return row, nil
}

func (s *inventoryService) Reconcile(ctx context.Context) ([]dto.ReconciliationRow, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.ReconciliationRow, 0, len(products))
	for _, p := range products {
		row, err := s.VerifyProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	repoFilter, err := toMovementRepoFilter(filter)
	if err != nil {
		return nil, err
	}
	movements, total, err := s.movementRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, *movementToResponse(&m))
	}
	return &dto.MovementListResponse{
		Data:  items,
		Total: total,
		Page:  repoFilter.Page,
		Limit: repoFilter.Limit,
	}, nil
}

func (s *inventoryService) GetMovement(ctx context.Context, id uuid.UUID) (*dto.MovementResponse, error) {
	m, err := s.movementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return movementToResponse(m), nil
}

func toMovementRepoFilter(filter dto.MovementFilter) (repository.MovementFilter, error) {
	out := repository.MovementFilter{
		SourceDoc: filter.SourceDoc,
		Search:    filter.Search,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit < 1 || out.Limit > 200 {
		out.Limit = 50
	}
	if filter.ProductID != "" {
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return out, fmt.Errorf("invalid product_id: %w", err)
		}
		out.ProductID = &pid
	}
	if filter.Type != "" {
		t := model.MovementType(filter.Type)
		if !t.Valid() {
			return out, fmt.Errorf("unknown movement type %q", filter.Type)
		}
		out.Type = t
	}
	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return out, fmt.Errorf("invalid from date: %w", err)
		}
		out.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return out, fmt.Errorf("invalid to date: %w", err)
		}
		// inclusive upper bound
		end := to.Add(24*time.Hour - time.Nanosecond)
		out.To = &end
	}
	return out, nil
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	product := ""
	if m.Product != nil {
		product = m.Product.Name
	}
	return &dto.MovementResponse{
		ID:           m.ID.String(),
		Product:      product,
		MovementType: string(m.MovementType),
		Quantity:     m.Quantity,
		SourceDoc:    m.SourceDoc,
		Note:         m.Note,
		Date:         m.Date.Format(time.RFC3339),
		User:         userLabel(m.User),
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}

func userLabel(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
