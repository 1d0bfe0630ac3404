package service

import (
	"context"
	"fmt"

	"flourerp/internal/apperror"
	"flourerp/internal/model"
	"flourerp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes. They reproduce the repository contracts the services
// rely on: ErrNotFound on missing rows, version-checked updates returning ErrConflict,
// and sequential request numbers.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- requisitions ---

type fakeRequisitionRepo struct {
	items map[uuid.UUID]*model.PurchaseRequisition
	seq   int
}

func newFakeRequisitionRepo() *fakeRequisitionRepo {
	return &fakeRequisitionRepo{items: make(map[uuid.UUID]*model.PurchaseRequisition)}
}

func (f *fakeRequisitionRepo) Create(_ context.Context, req *model.PurchaseRequisition) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	cp := *req
	f.items[req.ID] = &cp
	return nil
}

func (f *fakeRequisitionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseRequisition, error) {
	stored, ok := f.items[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeRequisitionRepo) List(_ context.Context, filter repository.RequisitionFilter) ([]model.PurchaseRequisition, error) {
	var out []model.PurchaseRequisition
	for _, r := range f.items {
		if filter.Status != "" && r.Status.String() != filter.Status {
			continue
		}
		if filter.BranchID != "" && r.BranchID != filter.BranchID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRequisitionRepo) UpdateVersioned(_ context.Context, req *model.PurchaseRequisition) error {
	stored, ok := f.items[req.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	if stored.Version != req.Version {
		return apperror.ErrConflict
	}
	req.Version++
	cp := *req
	f.items[req.ID] = &cp
	return nil
}

func (f *fakeRequisitionRepo) NextRequestNumber(_ context.Context) (string, error) {
	f.seq++
	return fmt.Sprintf("PR-20260515-%05d", f.seq), nil
}

// --- stock requests ---

type fakeStockRepo struct {
	items map[uuid.UUID]*model.StockTransferRequest
	seq   int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[uuid.UUID]*model.StockTransferRequest)}
}

func (f *fakeStockRepo) Create(_ context.Context, req *model.StockTransferRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	cp := *req
	f.items[req.ID] = &cp
	return nil
}

func (f *fakeStockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockTransferRequest, error) {
	stored, ok := f.items[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeStockRepo) List(_ context.Context, filter repository.StockRequestFilter) ([]model.StockTransferRequest, error) {
	var out []model.StockTransferRequest
	for _, r := range f.items {
		if filter.Status != "" && r.Status.String() != filter.Status {
			continue
		}
		if filter.SourceBranch != "" && r.SourceBranch != filter.SourceBranch {
			continue
		}
		if filter.IsCustomerDelivery != nil && r.IsCustomerDelivery != *filter.IsCustomerDelivery {
			continue
		}
		if filter.DispatchStatus != "" && (r.DispatchStatus == nil || *r.DispatchStatus != filter.DispatchStatus) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStockRepo) UpdateVersioned(_ context.Context, req *model.StockTransferRequest) error {
	stored, ok := f.items[req.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	if stored.Version != req.Version {
		return apperror.ErrConflict
	}
	req.Version++
	cp := *req
	f.items[req.ID] = &cp
	return nil
}

func (f *fakeStockRepo) NextRequestNumber(_ context.Context) (string, error) {
	f.seq++
	return fmt.Sprintf("SR-20260515-%05d", f.seq), nil
}

// --- inventory ---

type fakeInventoryRepo struct {
	// keyed by product|branch
	stock map[string]decimal.Decimal
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{stock: make(map[string]decimal.Decimal)}
}

func invKey(productName, branchID string) string {
	return productName + "|" + branchID
}

func (f *fakeInventoryRepo) Create(_ context.Context, item *model.InventoryItem) error {
	f.stock[invKey(item.Name, item.BranchID)] = item.Quantity
	return nil
}

func (f *fakeInventoryRepo) FindByProductAndBranch(_ context.Context, productName, branchID string) (*model.InventoryItem, error) {
	qty, ok := f.stock[invKey(productName, branchID)]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &model.InventoryItem{Name: productName, BranchID: branchID, Quantity: qty}, nil
}

func (f *fakeInventoryRepo) List(_ context.Context, branchID string) ([]model.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventoryRepo) Deduct(_ context.Context, productName, branchID string, quantityKg decimal.Decimal) (bool, error) {
	key := invKey(productName, branchID)
	qty, ok := f.stock[key]
	if !ok {
		return false, nil
	}
	f.stock[key] = qty.Sub(quantityKg)
	return true, nil
}

// --- payments ---

type fakePaymentRepo struct {
	payments []model.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePaymentRepo) List(_ context.Context, limit int) ([]model.Payment, error) {
	return f.payments, nil
}

// --- activity log ---

type fakeActivityRepo struct {
	entries []model.ActivityLog
}

func (f *fakeActivityRepo) Log(_ context.Context, entry *model.ActivityLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(_ context.Context, limit int) ([]model.ActivityLog, error) {
	return f.entries, nil
}

func (f *fakeActivityRepo) last() *model.ActivityLog {
	if len(f.entries) == 0 {
		return nil
	}
	return &f.entries[len(f.entries)-1]
}

// --- financial controls ---

type fakeControlsRepo struct {
	controls *model.FinancialControls
}

func (f *fakeControlsRepo) GetOrCreate(_ context.Context) (*model.FinancialControls, error) {
	if f.controls == nil {
		f.controls = model.DefaultFinancialControls()
		f.controls.ID = uuid.New()
	}
	cp := *f.controls
	return &cp, nil
}

func (f *fakeControlsRepo) UpdateVersioned(_ context.Context, controls *model.FinancialControls) error {
	if f.controls == nil || f.controls.Version != controls.Version {
		return apperror.ErrConflict
	}
	controls.Version++
	cp := *controls
	f.controls = &cp
	return nil
}
