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

func buildPurchaseSvc() (PurchaseService, *stubPurchaseRepo, *stubProductRepo, *stubMovementRepo) {
	productRepo := newStubProductRepo()
	purchaseRepo := newStubPurchaseRepo()
	movementRepo := &stubMovementRepo{}
	inventorySvc := NewInventoryService(productRepo, movementRepo, &stubAdjustmentRepo{})

	svc := NewPurchaseService(purchaseRepo, productRepo, inventorySvc, nil)
	return svc, purchaseRepo, productRepo, movementRepo
}

func TestCreatePurchase_IncrementsStockAndWritesLedger(t *testing.T) {
	svc, purchaseRepo, productRepo, movementRepo := buildPurchaseSvc()
	p := seedProduct(productRepo, "Frame Classic", 7, 100)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		PurchaseNumber: "PUR-1",
		Date:           "2026-08-30",
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PUR-1", resp.PurchaseNumber)

	// Cached stock incremented: 7 + 20 = 27
	assert.Equal(t, 27, productRepo.products[p.ID].Stock)

	movements := movementRepo.byProduct(p.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementIn, movements[0].MovementType)
	assert.Equal(t, 20, movements[0].Quantity)
	assert.Equal(t, "PUR-1", movements[0].SourceDoc)
	assert.Equal(t, "Purchase Number #PUR-1", movements[0].Note)

	stored, err := purchaseRepo.FindByNumber(context.Background(), "PUR-1")
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestCreatePurchase_UnknownProductRejectedWithoutSideEffects(t *testing.T) {
	svc, purchaseRepo, productRepo, movementRepo := buildPurchaseSvc()
	p := seedProduct(productRepo, "Frame Classic", 7, 100)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		PurchaseNumber: "PUR-2",
		Date:           "2026-08-30",
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 5},
			{ProductID: uuid.NewString(), Quantity: 5},
		},
	})
	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["purchase_items.1"][0], "does not exist")

	// All-or-nothing: the valid line was not applied either
	assert.Empty(t, purchaseRepo.purchases)
	assert.Empty(t, movementRepo.movements)
	assert.Equal(t, 7, productRepo.products[p.ID].Stock)
}

func TestCreatePurchase_DuplicateNumber(t *testing.T) {
	svc, _, productRepo, _ := buildPurchaseSvc()
	p := seedProduct(productRepo, "Frame Classic", 7, 100)

	req := dto.CreatePurchaseRequest{
		PurchaseNumber: "PUR-3",
		Date:           "2026-08-30",
		Items:          []dto.PurchaseItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	}
	_, err := svc.Create(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), req)
	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["purchase_number"][0], "already exists")
}

func TestCreatePurchase_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _, productRepo, _ := buildPurchaseSvc()
	p := seedProduct(productRepo, "Frame Classic", 7, 100)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		PurchaseNumber: "PUR-4",
		Date:           "2026-08-30",
		Items:          []dto.PurchaseItemRequest{{ProductID: p.ID.String(), Quantity: 0}},
	})
	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["purchase_items.0"][0], "greater than 0")
}

func TestCreatePurchase_EmptyItems(t *testing.T) {
	svc, _, _, _ := buildPurchaseSvc()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		PurchaseNumber: "PUR-5",
		Date:           "2026-08-30",
	})
	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "purchase_items")
}
