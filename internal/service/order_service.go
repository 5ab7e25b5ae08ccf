package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

const dateLayout = "2006-01-02"

// OrderService creates and reads sales orders. Creation is all-or-nothing:
// the order header, its items, the OUT ledger entries and the stock
// decrements commit in one transaction, or nothing is written at all.
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetByNumber(ctx context.Context, orderNumber string) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	inventory    InventoryService
	dispatcher   *worker.Dispatcher
	lowStockAt   int
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	inventory InventoryService,
	dispatcher *worker.Dispatcher,
	lowStockAt int,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		inventory:    inventory,
		dispatcher:   dispatcher,
		lowStockAt:   lowStockAt,
	}
}

// orderLine pairs a request line with its resolved product for the
// pre-flight checks. Product state is re-read under lock inside the
// transaction before anything is written.
type orderLine struct {
	productID uuid.UUID
	req       dto.OrderItemRequest
	product   *model.Product
}

// Create validates the whole request, collecting every failed check into one
// field-keyed error map, then commits the order atomically. Validation
// failures never leave partial writes behind.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	verr := apierror.NewValidation()

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		verr.Add("date", "Date must be in YYYY-MM-DD format.")
	}

	exists, err := s.orderRepo.ExistsByNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		verr.Add("order_number", fmt.Sprintf("Order number %s already exists.", req.OrderNumber))
	}

	var customerID uuid.UUID
	if customerID, err = uuid.Parse(req.CustomerID); err != nil {
		verr.Add("customer_id", "Customer id must be a valid UUID.")
	} else if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verr.Add("customer_id", "Customer does not exist.")
		} else {
			return nil, err
		}
	}

	if len(req.Items) == 0 {
		verr.Add("order_items", "At least one order item is required.")
	}

	lines, sumSubtotals := s.checkItems(ctx, req.Items, verr)

	if req.Total != sumSubtotals && len(lines) == len(req.Items) {
		verr.Add("total", fmt.Sprintf(
			"Total %d does not match the sum of subtotals %d.", req.Total, sumSubtotals))
	}
	if req.PaidAmount < req.Total {
		verr.Add("paid_amount", fmt.Sprintf(
			"Paid amount %d is less than total %d.", req.PaidAmount, req.Total))
	}
	if req.ChangeAmount != req.PaidAmount-req.Total {
		verr.Add("change_amount", fmt.Sprintf(
			"Change amount %d does not equal paid amount minus total (%d).",
			req.ChangeAmount, req.PaidAmount-req.Total))
	}

	if verr.HasErrors() {
		return nil, verr
	}

	order := &model.Order{
		OrderNumber:  req.OrderNumber,
		Date:         date,
		CustomerID:   customerID,
		Total:        req.Total,
		PaidAmount:   req.PaidAmount,
		ChangeAmount: req.ChangeAmount,
		UserID:       userID,
	}
	for _, line := range lines {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: line.productID,
			Quantity:  line.req.Quantity,
			Price:     line.req.Price,
			Subtotal:  line.req.Subtotal,
		})
	}

	// Stock left per product after the decrement, captured under lock for
	// the post-commit low stock alerts.
	remaining := make(map[uuid.UUID]orderLine, len(lines))

	txErr := runTx(ctx, s.orderRepo.DB(), func(tx *gorm.DB) error {
		// Locks are taken in product id order so two concurrent multi-line
		// orders cannot deadlock on each other's rows.
		sorted := make([]orderLine, len(lines))
		copy(sorted, lines)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].productID.String() < sorted[j].productID.String()
		})

		for _, line := range sorted {
			p, err := s.productRepo.FindByIDForUpdate(tx, line.productID)
			if err != nil {
				return err
			}
			// Re-check under lock: the pre-flight read was not serialized
			// against concurrent orders.
			if p.Stock < line.req.Quantity {
				verr.Add("order_items", fmt.Sprintf(
					"Insufficient stock for product %s: requested %d, available %d.",
					p.Name, line.req.Quantity, p.Stock))
			}
			if p.Price != line.req.Price {
				verr.Add("order_items", fmt.Sprintf(
					"Price of product %s has changed: submitted %d, current %d.",
					p.Name, line.req.Price, p.Price))
			}
			line.product = p
			remaining[line.productID] = line
		}
		if verr.HasErrors() {
			return verr
		}

		if err := s.orderRepo.CreateTx(tx, order); err != nil {
			return err
		}
		return s.inventory.MoveOutForOrderTx(tx, order, order.Items)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Int("items", len(order.Items)).
		Int64("total", order.Total).
		Msg("order created")

	s.afterCommit(ctx, remaining)

	created, err := s.orderRepo.FindByNumber(ctx, order.OrderNumber)
	if err != nil {
		return nil, err
	}
	return orderToResponse(created), nil
}

// checkItems runs the per-line pre-flight checks and returns the resolved
// lines plus the sum of submitted subtotals. Every failure is appended to
// verr; a line that fails resolution is left out of the result.
func (s *orderService) checkItems(ctx context.Context, items []dto.OrderItemRequest, verr *apierror.ValidationError) ([]orderLine, int64) {
	seen := make(map[string]bool, len(items))
	lines := make([]orderLine, 0, len(items))
	var sum int64

	for i, item := range items {
		field := fmt.Sprintf("order_items.%d", i)

		if seen[item.ProductID] {
			verr.Add(field, "Product appears more than once in the order.")
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
		p, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.Add(field, "Product does not exist.")
				continue
			}
			verr.Add(field, "Product could not be loaded.")
			continue
		}

		if item.Price != p.Price {
			verr.Add(field, fmt.Sprintf(
				"Price of product %s has changed: submitted %d, current %d.",
				p.Name, item.Price, p.Price))
		}
		if item.Subtotal != item.Price*int64(item.Quantity) {
			verr.Add(field, fmt.Sprintf(
				"Subtotal %d does not equal price %d times quantity %d.",
				item.Subtotal, item.Price, item.Quantity))
		}
		if p.Stock < item.Quantity {
			verr.Add(field, fmt.Sprintf(
				"Insufficient stock for product %s: requested %d, available %d.",
				p.Name, item.Quantity, p.Stock))
		}

		sum += item.Subtotal
		lines = append(lines, orderLine{productID: productID, req: item, product: p})
	}
	return lines, sum
}

// afterCommit enqueues the background jobs that follow a successful order:
// a ledger audit of the touched products and low stock alerts where the
// decrement crossed the threshold.
func (s *orderService) afterCommit(ctx context.Context, lines map[uuid.UUID]orderLine) {
	ids := make([]string, 0, len(lines))
	for id, line := range lines {
		ids = append(ids, id.String())
		if line.product == nil {
			continue
		}
		left := line.product.Stock - line.req.Quantity
		if left <= s.lowStockAt {
			s.dispatcher.EnqueueLowStockAlert(ctx, id.String(), line.product.Name, left)
		}
	}
	s.dispatcher.EnqueueStockAudit(ctx, ids)
}

func (s *orderService) GetByNumber(ctx context.Context, orderNumber string) (*dto.OrderResponse, error) {
	o, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return orderToResponse(o), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *orderToResponse(&o))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	customer := ""
	if o.Customer != nil {
		customer = o.Customer.Name
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			Product:   name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.OrderResponse{
		ID:           o.ID.String(),
		OrderNumber:  o.OrderNumber,
		Date:         o.Date.Format(dateLayout),
		Customer:     customer,
		Total:        o.Total,
		PaidAmount:   o.PaidAmount,
		ChangeAmount: o.ChangeAmount,
		User:         userLabel(o.User),
		Items:        items,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    o.UpdatedAt.Format(time.RFC3339),
	}
}
