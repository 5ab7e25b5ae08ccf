package service

import (
	"context"
	"testing"

	"github.com/solanoize/optika-api/internal/apierror"
	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventorySvc() (InventoryService, *stubProductRepo, *stubMovementRepo, *stubAdjustmentRepo) {
	productRepo := newStubProductRepo()
	movementRepo := &stubMovementRepo{}
	adjRepo := &stubAdjustmentRepo{}
	return NewInventoryService(productRepo, movementRepo, adjRepo), productRepo, movementRepo, adjRepo
}

func TestInitializeStock_WritesInitMovement(t *testing.T) {
	svc, productRepo, movementRepo, _ := buildInventorySvc()
	p := seedProduct(productRepo, "Frame Classic", 10, 100)

	require.NoError(t, svc.InitializeStockTx(nil, p))

	movements := movementRepo.byProduct(p.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementInit, movements[0].MovementType)
	assert.Equal(t, 10, movements[0].Quantity)
	assert.Equal(t, "Initial Stock", movements[0].SourceDoc)
	assert.Equal(t, "Initial stock of product Frame Classic", movements[0].Note)

	// The INIT entry alone reproduces the cached stock
	sum, err := svc.CurrentStock(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Stock, sum)
}

func TestCurrentStock_SignedAggregation(t *testing.T) {
	svc, productRepo, movementRepo, _ := buildInventorySvc()
	p := seedProduct(productRepo, "Frame Classic", 0, 100)

	// INIT +10, IN +20, OUT 3 (stored positive, subtracts), ADJUSTMENT -2
	for _, m := range []model.StockMovement{
		{ProductID: p.ID, MovementType: model.MovementInit, Quantity: 10},
		{ProductID: p.ID, MovementType: model.MovementIn, Quantity: 20},
		{ProductID: p.ID, MovementType: model.MovementOut, Quantity: 3},
		{ProductID: p.ID, MovementType: model.MovementAdjustment, Quantity: -2},
	} {
		mov := m
		require.NoError(t, movementRepo.CreateTx(nil, &mov))
	}

	sum, err := svc.CurrentStock(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, sum)
}

func TestCreateAdjustment_AppliesSignedDifference(t *testing.T) {
	svc, productRepo, movementRepo, adjRepo := buildInventorySvc()
	p := seedProduct(productRepo, "Frame Classic", 10, 100)
	userID := uuid.New()

	resp, err := svc.CreateAdjustment(context.Background(), userID, dto.CreateAdjustmentRequest{
		ProductID:          p.ID.String(),
		QuantityDifference: -3,
		Note:               "shelf count came up short",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Stock)
	assert.Equal(t, -3, resp.QuantityDifference)

	assert.Equal(t, 7, productRepo.products[p.ID].Stock)
	require.Len(t, adjRepo.adjustments, 1)

	movements := movementRepo.byProduct(p.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementAdjustment, movements[0].MovementType)
	assert.Equal(t, -3, movements[0].Quantity)
	assert.Equal(t, "Stock Adjustment", movements[0].SourceDoc)
	assert.Equal(t, "shelf count came up short", movements[0].Note)
}

func TestCreateAdjustment_RejectsBelowZero(t *testing.T) {
	svc, productRepo, movementRepo, adjRepo := buildInventorySvc()
	p := seedProduct(productRepo, "Frame Classic", 4, 100)

	_, err := svc.CreateAdjustment(context.Background(), uuid.New(), dto.CreateAdjustmentRequest{
		ProductID:          p.ID.String(),
		QuantityDifference: -5,
	})
	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["quantity_difference"][0], "below 0")

	assert.Equal(t, 4, productRepo.products[p.ID].Stock)
	assert.Empty(t, movementRepo.movements)
	assert.Empty(t, adjRepo.adjustments)
}

func TestCreateAdjustment_RejectsZeroDifference(t *testing.T) {
	svc, productRepo, _, _ := buildInventorySvc()
	p := seedProduct(productRepo, "Frame Classic", 4, 100)

	_, err := svc.CreateAdjustment(context.Background(), uuid.New(), dto.CreateAdjustmentRequest{
		ProductID:          p.ID.String(),
		QuantityDifference: 0,
	})
	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity_difference")
}

func TestVerifyProduct_DetectsDivergence(t *testing.T) {
	svc, productRepo, movementRepo, _ := buildInventorySvc()
	p := seedProduct(productRepo, "Frame Classic", 10, 100)

	mov := model.StockMovement{ProductID: p.ID, MovementType: model.MovementInit, Quantity: 10}
	require.NoError(t, movementRepo.CreateTx(nil, &mov))

	row, err := svc.VerifyProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, row.Consistent)

	// Simulate a counter corrupted outside the inventory engine
	productRepo.products[p.ID].Stock = 12

	row, err = svc.VerifyProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, row.Consistent)
	assert.Equal(t, 12, row.CachedStock)
	assert.Equal(t, 10, row.LedgerStock)
}

func TestReconcile_CoversAllProducts(t *testing.T) {
	svc, productRepo, movementRepo, _ := buildInventorySvc()
	p1 := seedProduct(productRepo, "Frame Classic", 5, 100)
	p2 := seedProduct(productRepo, "Lens Premium", 3, 250)

	for _, m := range []model.StockMovement{
		{ProductID: p1.ID, MovementType: model.MovementInit, Quantity: 5},
		{ProductID: p2.ID, MovementType: model.MovementInit, Quantity: 4},
	} {
		mov := m
		require.NoError(t, movementRepo.CreateTx(nil, &mov))
	}

	rows, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	consistent := map[string]bool{}
	for _, row := range rows {
		consistent[row.Name] = row.Consistent
	}
	assert.True(t, consistent["Frame Classic"])
	assert.False(t, consistent["Lens Premium"])
}

func TestListMovements_RejectsUnknownType(t *testing.T) {
	svc, _, _, _ := buildInventorySvc()

	_, err := svc.ListMovements(context.Background(), dto.MovementFilter{Type: "TRANSFER"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown movement type")
}
