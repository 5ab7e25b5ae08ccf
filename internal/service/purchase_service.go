package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solanoize/optika-api/internal/apierror"
	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/model"
	"github.com/solanoize/optika-api/internal/repository"
	"github.com/solanoize/optika-api/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PurchaseService creates and reads supplier purchases. The inbound mirror
// of orders: quantities only, no money, no stock sufficiency concern — and
// the same atomicity, header plus items plus IN movements plus increments
// in one transaction.
type PurchaseService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	GetByNumber(ctx context.Context, purchaseNumber string) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	inventory    InventoryService
	dispatcher   *worker.Dispatcher
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	inventory InventoryService,
	dispatcher *worker.Dispatcher,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		inventory:    inventory,
		dispatcher:   dispatcher,
	}
}

func (s *purchaseService) Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	verr := apierror.NewValidation()

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		verr.Add("date", "Date must be in YYYY-MM-DD format.")
	}

	exists, err := s.purchaseRepo.ExistsByNumber(ctx, req.PurchaseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		verr.Add("purchase_number", fmt.Sprintf("Purchase number %s already exists.", req.PurchaseNumber))
	}

	if len(req.Items) == 0 {
		verr.Add("purchase_items", "At least one purchase item is required.")
	}

	seen := make(map[string]bool, len(req.Items))
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for i, item := range req.Items {
		field := fmt.Sprintf("purchase_items.%d", i)

		if seen[item.ProductID] {
			verr.Add(field, "Product appears more than once in the purchase.")
			continue
		}
		seen[item.ProductID] = true

		if item.Quantity <= 0 {
			verr.Add(field, "Quantity must be greater than 0.")
			continue
		}

		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			verr.Add(field, "Product id must be a valid UUID.")
			continue
		}
		if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.Add(field, "Product does not exist.")
			} else {
				verr.Add(field, "Product could not be loaded.")
			}
			continue
		}
		productIDs = append(productIDs, productID)
	}

	if verr.HasErrors() {
		return nil, verr
	}

	purchase := &model.Purchase{
		PurchaseNumber: req.PurchaseNumber,
		Date:           date,
		UserID:         userID,
	}
	for i, item := range req.Items {
		purchase.Items = append(purchase.Items, model.PurchaseItem{
			ProductID: productIDs[i],
			Quantity:  item.Quantity,
		})
	}

	txErr := runTx(ctx, s.purchaseRepo.DB(), func(tx *gorm.DB) error {
		if err := s.purchaseRepo.CreateTx(tx, purchase); err != nil {
			return err
		}
		return s.inventory.MoveInForPurchaseTx(tx, purchase, purchase.Items)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("purchase_number", purchase.PurchaseNumber).
		Int("items", len(purchase.Items)).
		Msg("purchase created")

	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, id.String())
	}
	s.dispatcher.EnqueueStockAudit(ctx, ids)

	created, err := s.purchaseRepo.FindByNumber(ctx, purchase.PurchaseNumber)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(created), nil
}

func (s *purchaseService) GetByNumber(ctx context.Context, purchaseNumber string) (*dto.PurchaseResponse, error) {
	p, err := s.purchaseRepo.FindByNumber(ctx, purchaseNumber)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(p), nil
}

func (s *purchaseService) List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	purchases, total, err := s.purchaseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, *purchaseToResponse(&p))
	}
	return &dto.PurchaseListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.PurchaseItemResponse{
			Product:   name,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.PurchaseResponse{
		ID:             p.ID.String(),
		PurchaseNumber: p.PurchaseNumber,
		Date:           p.Date.Format(dateLayout),
		User:           userLabel(p.User),
		Items:          items,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}
