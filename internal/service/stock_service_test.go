package service

import (
	"context"
	"testing"

	"flourerp/internal/apperror"
	"flourerp/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stockFixture struct {
	svc        StockTransferService
	stock      *fakeStockRepo
	inventory  *fakeInventoryRepo
	activities *fakeActivityRepo
}

func newStockFixture() *stockFixture {
	stock := newFakeStockRepo()
	inventory := newFakeInventoryRepo()
	activities := &fakeActivityRepo{}
	svc := NewStockTransferService(stock, inventory, activities, &fakeTxManager{}, nil, zap.NewNop())
	return &stockFixture{svc: svc, stock: stock, inventory: inventory, activities: activities}
}

func (f *stockFixture) seedInventory(t *testing.T, product, branch string, kg int64) {
	t.Helper()
	require.NoError(t, f.inventory.Create(context.Background(), &model.InventoryItem{
		Name:     product,
		BranchID: branch,
		Quantity: decimal.NewFromInt(kg),
	}))
}

func (f *stockFixture) stockKg(t *testing.T, product, branch string) decimal.Decimal {
	t.Helper()
	item, err := f.inventory.FindByProductAndBranch(context.Background(), product, branch)
	require.NoError(t, err)
	return item.Quantity
}

func createStockRequest(t *testing.T, f *stockFixture, customize func(*CreateStockRequest)) *model.StockTransferRequest {
	t.Helper()
	req := CreateStockRequest{
		SourceBranch:      "main",
		DestinationBranch: "branch-2",
		ProductName:       "Premium Flour",
		PackageSize:       "50kg",
		Quantity:          decimal.NewFromInt(10),
		RequestedBy:       "sales1",
	}
	if customize != nil {
		customize(&req)
	}
	r, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return r
}

func TestCreateNormalizesQuantity(t *testing.T) {
	tests := []struct {
		name        string
		packageSize string
		quantity    int64
		wantKg      string
	}{
		{"50kg packages", "50kg", 10, "500"},
		{"25kg packages", "25kg", 4, "100"},
		{"unparseable falls back to 50kg", "large sack", 3, "150"},
		{"empty defaults to 50kg", "", 2, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStockFixture()
			r := createStockRequest(t, f, func(req *CreateStockRequest) {
				req.PackageSize = tt.packageSize
				req.Quantity = decimal.NewFromInt(tt.quantity)
			})

			assert.True(t, r.QuantityKg.Equal(decimal.RequireFromString(tt.wantKg)),
				"got %s kg", r.QuantityKg)
			assert.True(t, r.TotalWeight.Equal(r.QuantityKg))
		})
	}
}

func TestCreateSeedsWorkflowHistory(t *testing.T) {
	f := newStockFixture()
	r := createStockRequest(t, f, nil)

	assert.Equal(t, model.TransferPendingAdminApproval, r.Status)
	assert.Regexp(t, `^SR-\d{8}-\d{5}$`, r.RequestNumber)
	require.Len(t, r.WorkflowHistory, 1)
	assert.Equal(t, model.StageCreated, r.WorkflowHistory[0].Stage)
	assert.Equal(t, "sales1", r.WorkflowHistory[0].By)
	assert.Equal(t, model.TransferPendingAdminApproval.String(), r.WorkflowHistory[0].Status)
	assert.Nil(t, r.DispatchStatus, "branch transfers have no dispatch sub-status")
}

func TestCreateCustomerDelivery(t *testing.T) {
	f := newStockFixture()
	info := `{"name":"Bakery Yosef","phone":"0911-000000"}`
	r := createStockRequest(t, f, func(req *CreateStockRequest) {
		req.IsCustomerDelivery = true
		req.CustomerInfo = &info
	})

	require.NotNil(t, r.DispatchStatus)
	assert.Equal(t, model.DispatchPending, *r.DispatchStatus)
}

func TestFullTransferLifecycle(t *testing.T) {
	f := newStockFixture()
	f.seedInventory(t, "Premium Flour", "main", 1000)
	r := createStockRequest(t, f, nil)
	id := r.ID.String()
	ctx := context.Background()

	r, err := f.svc.ApproveAsAdmin(ctx, id, StockApprovalRequest{ApprovedBy: "admin1"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferPendingManagerApproval, r.Status)
	assert.True(t, r.InventoryReserved)
	assert.False(t, r.InventoryDeducted, "approval reserves, never deducts")

	r, err = f.svc.ApproveAsManager(ctx, id, StockApprovalRequest{ApprovedBy: "manager1"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferPendingFulfillment, r.Status)

	r, err = f.svc.Fulfill(ctx, id, FulfillStockRequest{FulfilledBy: "store1"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferReadyForPickup, r.Status)
	assert.True(t, r.InventoryDeducted)
	assert.True(t, f.stockKg(t, "Premium Flour", "main").Equal(decimal.NewFromInt(500)),
		"1000kg minus 500kg requested")

	r, err = f.svc.GateVerify(ctx, id, GateVerifyRequest{
		VerifiedBy:     "guard1",
		GatePassNumber: "GP-042",
		VehicleNumber:  "AA-12345",
		DriverName:     "Dawit",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransferInTransit, r.Status)
	assert.Equal(t, "GP-042", r.GatePassNumber)

	r, err = f.svc.ConfirmDelivery(ctx, id, ConfirmDeliveryRequest{ConfirmedBy: "sales2"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferConfirmed, r.Status)
	assert.Equal(t, "good", r.Condition, "condition defaults to good")

	// Every transition appended exactly one history entry
	require.Len(t, r.WorkflowHistory, 6)
	stages := make([]string, 0, len(r.WorkflowHistory))
	for _, e := range r.WorkflowHistory {
		stages = append(stages, e.Stage)
	}
	assert.Equal(t, []string{
		model.StageCreated,
		model.StageAdminApproval,
		model.StageManagerApproval,
		model.StageFulfillment,
		model.StageGateVerification,
		model.StageDeliveryConfirmation,
	}, stages)

	// Each entry mirrors the record's status right after that transition
	statuses := make([]string, 0, len(r.WorkflowHistory))
	for _, e := range r.WorkflowHistory {
		statuses = append(statuses, e.Status)
	}
	assert.Equal(t, []string{
		model.TransferPendingAdminApproval.String(),
		model.TransferPendingManagerApproval.String(),
		model.TransferPendingFulfillment.String(),
		model.TransferReadyForPickup.String(),
		model.TransferInTransit.String(),
		model.TransferConfirmed.String(),
	}, statuses)

	fulfillEntry := r.WorkflowHistory[3]
	require.NotNil(t, fulfillEntry.InventoryDeducted)
	assert.True(t, *fulfillEntry.InventoryDeducted)
}

func TestTransitionsOutOfOrderFail(t *testing.T) {
	f := newStockFixture()
	r := createStockRequest(t, f, nil)
	id := r.ID.String()
	ctx := context.Background()

	_, err := f.svc.ApproveAsManager(ctx, id, StockApprovalRequest{ApprovedBy: "manager1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	_, err = f.svc.Fulfill(ctx, id, FulfillStockRequest{FulfilledBy: "store1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	_, err = f.svc.GateVerify(ctx, id, GateVerifyRequest{VerifiedBy: "guard1", GatePassNumber: "GP-1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	_, err = f.svc.ConfirmDelivery(ctx, id, ConfirmDeliveryRequest{ConfirmedBy: "sales1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestFulfillReplayDeductsOnce(t *testing.T) {
	f := newStockFixture()
	f.seedInventory(t, "Premium Flour", "main", 1000)
	r := createStockRequest(t, f, nil)
	id := r.ID.String()
	ctx := context.Background()

	_, err := f.svc.ApproveAsAdmin(ctx, id, StockApprovalRequest{ApprovedBy: "admin1"})
	require.NoError(t, err)
	_, err = f.svc.ApproveAsManager(ctx, id, StockApprovalRequest{ApprovedBy: "manager1"})
	require.NoError(t, err)
	_, err = f.svc.Fulfill(ctx, id, FulfillStockRequest{FulfilledBy: "store1"})
	require.NoError(t, err)

	_, err = f.svc.Fulfill(ctx, id, FulfillStockRequest{FulfilledBy: "store1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	assert.True(t, f.stockKg(t, "Premium Flour", "main").Equal(decimal.NewFromInt(500)),
		"replayed fulfillment must not deduct again")
}

func TestFulfillWithoutInventoryRow(t *testing.T) {
	// Unknown product/branch: the transition proceeds but records that nothing was
	// deducted.
	f := newStockFixture()
	r := createStockRequest(t, f, nil)
	id := r.ID.String()
	ctx := context.Background()

	_, err := f.svc.ApproveAsAdmin(ctx, id, StockApprovalRequest{ApprovedBy: "admin1"})
	require.NoError(t, err)
	_, err = f.svc.ApproveAsManager(ctx, id, StockApprovalRequest{ApprovedBy: "manager1"})
	require.NoError(t, err)

	r, err = f.svc.Fulfill(ctx, id, FulfillStockRequest{FulfilledBy: "store1"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferReadyForPickup, r.Status)
	assert.False(t, r.InventoryDeducted)
}

func TestDispatchRequiresCustomerDelivery(t *testing.T) {
	f := newStockFixture()
	r := createStockRequest(t, f, nil)

	_, err := f.svc.Dispatch(context.Background(), r.ID.String(), DispatchRequest{DispatchedBy: "manager1"})
	assert.ErrorIs(t, err, apperror.ErrNotACustomerDelivery)
}

func TestDispatchCustomerDelivery(t *testing.T) {
	f := newStockFixture()
	r := createStockRequest(t, f, func(req *CreateStockRequest) {
		req.IsCustomerDelivery = true
	})

	dispatched, err := f.svc.Dispatch(context.Background(), r.ID.String(), DispatchRequest{
		DispatchedBy:  "manager1",
		DriverName:    "Dawit",
		VehicleNumber: "AA-12345",
	})
	require.NoError(t, err)

	require.NotNil(t, dispatched.DispatchStatus)
	assert.Equal(t, model.DispatchDispatched, *dispatched.DispatchStatus)
	assert.Equal(t, model.TransferPendingAdminApproval, dispatched.Status,
		"dispatch must not advance the approval chain")

	last := dispatched.WorkflowHistory[len(dispatched.WorkflowHistory)-1]
	assert.Equal(t, model.StageDispatched, last.Stage)
	assert.Equal(t, model.DispatchDispatched, last.Status)
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	f := newStockFixture()
	f.seedInventory(t, "Premium Flour", "main", 1000)
	r := createStockRequest(t, f, nil)
	id := r.ID.String()
	ctx := context.Background()

	_, err := f.svc.ApproveAsAdmin(ctx, id, StockApprovalRequest{ApprovedBy: "admin1"})
	require.NoError(t, err)
	_, err = f.svc.ApproveAsManager(ctx, id, StockApprovalRequest{ApprovedBy: "manager1"})
	require.NoError(t, err)
	_, err = f.svc.Fulfill(ctx, id, FulfillStockRequest{FulfilledBy: "store1"})
	require.NoError(t, err)
	_, err = f.svc.GateVerify(ctx, id, GateVerifyRequest{VerifiedBy: "guard1", GatePassNumber: "GP-1"})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, id, CancelStockRequest{CancelledBy: "manager1", Reason: "truck breakdown"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferCancelled, cancelled.Status)
	assert.Equal(t, "truck breakdown", cancelled.CancellationReason)
}

func TestCancelConfirmedFails(t *testing.T) {
	f := newStockFixture()
	r := createStockRequest(t, f, nil)
	id := r.ID.String()
	ctx := context.Background()

	_, err := f.svc.ApproveAsAdmin(ctx, id, StockApprovalRequest{ApprovedBy: "admin1"})
	require.NoError(t, err)
	_, err = f.svc.ApproveAsManager(ctx, id, StockApprovalRequest{ApprovedBy: "manager1"})
	require.NoError(t, err)
	_, err = f.svc.Fulfill(ctx, id, FulfillStockRequest{FulfilledBy: "store1"})
	require.NoError(t, err)
	_, err = f.svc.GateVerify(ctx, id, GateVerifyRequest{VerifiedBy: "guard1", GatePassNumber: "GP-1"})
	require.NoError(t, err)
	_, err = f.svc.ConfirmDelivery(ctx, id, ConfirmDeliveryRequest{ConfirmedBy: "sales1"})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, id, CancelStockRequest{CancelledBy: "manager1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	// Cancel twice fails too
	r2 := createStockRequest(t, f, nil)
	_, err = f.svc.Cancel(ctx, r2.ID.String(), CancelStockRequest{CancelledBy: "manager1"})
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, r2.ID.String(), CancelStockRequest{CancelledBy: "manager1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}
