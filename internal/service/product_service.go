package service

import (
	"context"
	"time"

	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/model"
	"github.com/solanoize/optika-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductService manages the catalog. Creation seeds the ledger with the
// INIT movement; updates never touch stock — that path belongs to orders,
// purchases and adjustments.
type ProductService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	inventory   InventoryService
}

func NewProductService(productRepo repository.ProductRepository, inventory InventoryService) ProductService {
	return &productService{productRepo: productRepo, inventory: inventory}
}

// Create inserts the product and its INIT movement in one transaction, so a
// product can never exist without the ledger entry that anchors its stock.
func (s *productService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Name:   req.Name,
		Unit:   req.Unit,
		Stock:  req.Stock,
		Price:  req.Price,
		UserID: userID,
	}

	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		if err := s.productRepo.CreateTx(tx, p); err != nil {
			return err
		}
		return s.inventory.InitializeStockTx(tx, p)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("product_id", p.ID.String()).Str("name", p.Name).
		Int("stock", p.Stock).Msg("product created")

	created, err := s.productRepo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return productToResponse(created), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *productToResponse(&p))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Unit = req.Unit
	p.Price = req.Price
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Unit:      p.Unit,
		Stock:     p.Stock,
		Price:     p.Price,
		User:      userLabel(p.User),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
