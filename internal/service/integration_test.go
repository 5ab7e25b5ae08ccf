//go:build integration

package service

// Integration tests against real Postgres via testcontainers.
// Run with: go test -tags integration ./internal/service/... -v
//
// The concurrency test here cannot run against the in-memory stubs: it
// exercises the SELECT ... FOR UPDATE row locks that serialize competing
// check-then-decrement sequences.

import (
	"context"
	"sync"
	"testing"

	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/infra"
	"github.com/solanoize/optika-api/internal/model"
	"github.com/solanoize/optika-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type integrationEnv struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	inventorySvc InventoryService
	orderSvc     OrderService
	purchaseSvc  PurchaseService
	productSvc   ProductService
	userID       uuid.UUID
	customerID   uuid.UUID
}

func setupIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("optika_test"),
		tcPostgres.WithUsername("optika"),
		tcPostgres.WithPassword("optika"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	adjustmentRepo := repository.NewStockAdjustmentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)

	inventorySvc := NewInventoryService(productRepo, movementRepo, adjustmentRepo)
	orderSvc := NewOrderService(orderRepo, productRepo, customerRepo, inventorySvc, nil, 0)
	purchaseSvc := NewPurchaseService(purchaseRepo, productRepo, inventorySvc, nil)
	productSvc := NewProductService(productRepo, inventorySvc)

	user := &model.User{Username: "tester", Name: "Tester", PasswordHash: "x", Role: "admin"}
	require.NoError(t, userRepo.Create(ctx, user))

	customer := &model.Customer{Name: "alice", Phone: "555", Email: "a@example.com", Address: "Main St", UserID: user.ID}
	require.NoError(t, customerRepo.Create(ctx, customer))

	return &integrationEnv{
		db:           db,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		inventorySvc: inventorySvc,
		orderSvc:     orderSvc,
		purchaseSvc:  purchaseSvc,
		productSvc:   productSvc,
		userID:       user.ID,
		customerID:   customer.ID,
	}
}

func (e *integrationEnv) createProduct(t *testing.T, name string, stock int, price int64) uuid.UUID {
	t.Helper()
	resp, err := e.productSvc.Create(context.Background(), e.userID, dto.CreateProductRequest{
		Name: name, Unit: "pcs", Stock: stock, Price: price,
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

// TestConcurrentOrders_NoOversell races two orders that each want all the
// remaining stock. The row lock must let exactly one through.
func TestConcurrentOrders_NoOversell(t *testing.T) {
	env := setupIntegrationEnv(t)
	ctx := context.Background()
	id := env.createProduct(t, "Frame Classic", 5, 100)

	makeOrder := func(number string) error {
		_, err := env.orderSvc.Create(ctx, env.userID, dto.CreateOrderRequest{
			OrderNumber: number, Date: "2026-08-30", CustomerID: env.customerID.String(),
			Total: 500, PaidAmount: 500, ChangeAmount: 0,
			Items: []dto.OrderItemRequest{{ProductID: id.String(), Quantity: 5, Price: 100, Subtotal: 500}},
		})
		return err
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); errs[0] = makeOrder("RACE-1") }()
	go func() { defer wg.Done(); errs[1] = makeOrder("RACE-2") }()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the competing orders may commit")

	p, err := env.productRepo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock, "stock must never go negative")

	row, err := env.inventorySvc.VerifyProduct(ctx, id)
	require.NoError(t, err)
	assert.True(t, row.Consistent)
}

// TestWorkflowChain_LedgerMatchesCounter runs create → order → purchase →
// adjustment against real Postgres and reconciles after each step.
func TestWorkflowChain_LedgerMatchesCounter(t *testing.T) {
	env := setupIntegrationEnv(t)
	ctx := context.Background()
	id := env.createProduct(t, "Lens Premium", 10, 100)

	_, err := env.orderSvc.Create(ctx, env.userID, dto.CreateOrderRequest{
		OrderNumber: "ORD-I1", Date: "2026-08-30", CustomerID: env.customerID.String(),
		Total: 300, PaidAmount: 500, ChangeAmount: 200,
		Items: []dto.OrderItemRequest{{ProductID: id.String(), Quantity: 3, Price: 100, Subtotal: 300}},
	})
	require.NoError(t, err)

	_, err = env.purchaseSvc.Create(ctx, env.userID, dto.CreatePurchaseRequest{
		PurchaseNumber: "PUR-I1", Date: "2026-08-30",
		Items: []dto.PurchaseItemRequest{{ProductID: id.String(), Quantity: 20}},
	})
	require.NoError(t, err)

	_, err = env.inventorySvc.CreateAdjustment(ctx, env.userID, dto.CreateAdjustmentRequest{
		ProductID: id.String(), QuantityDifference: -2,
	})
	require.NoError(t, err)

	p, err := env.productRepo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Stock)

	row, err := env.inventorySvc.VerifyProduct(ctx, id)
	require.NoError(t, err)
	assert.True(t, row.Consistent)
	assert.Equal(t, 25, row.LedgerStock)
}

// TestRejectedOrder_NoPartialWrites verifies atomicity against the real
// database: a stale price aborts the transaction with nothing persisted.
func TestRejectedOrder_NoPartialWrites(t *testing.T) {
	env := setupIntegrationEnv(t)
	ctx := context.Background()
	id := env.createProduct(t, "Cleaning Kit", 10, 100)

	_, err := env.orderSvc.Create(ctx, env.userID, dto.CreateOrderRequest{
		OrderNumber: "ORD-I2", Date: "2026-08-30", CustomerID: env.customerID.String(),
		Total: 270, PaidAmount: 270, ChangeAmount: 0,
		Items: []dto.OrderItemRequest{{ProductID: id.String(), Quantity: 3, Price: 90, Subtotal: 270}},
	})
	require.Error(t, err)

	p, err := env.productRepo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)

	movements, _, err := env.movementRepo.List(ctx, repository.MovementFilter{
		ProductID: &id, Type: model.MovementOut,
	})
	require.NoError(t, err)
	assert.Empty(t, movements)
}
