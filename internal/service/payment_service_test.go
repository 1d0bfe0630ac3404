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

type paymentFixture struct {
	*requisitionFixture
	svc      PaymentService
	payments *fakePaymentRepo
}

func newPaymentFixture() *paymentFixture {
	base := newRequisitionFixture()
	payments := &fakePaymentRepo{}
	svc := NewPaymentService(payments, base.requisitions, base.activities, &fakeTxManager{}, nil, zap.NewNop())
	return &paymentFixture{requisitionFixture: base, svc: svc, payments: payments}
}

func TestProcessPaymentCompletesRequisition(t *testing.T) {
	f := newPaymentFixture()
	r := createRequisition(t, f.requisitionFixture, 2500)

	_, err := f.requisitionFixture.svc.ApproveAsAdmin(context.Background(), r.ID.String(), ApproveRequisitionRequest{ApprovedBy: "admin1"})
	require.NoError(t, err)

	payment, err := f.svc.ProcessPayment(context.Background(), r.ID.String(), ProcessPaymentRequest{
		PaymentMethod:   "bank_transfer",
		BankName:        "CBE",
		ReferenceNumber: "TX-1001",
		ProcessedBy:     "finance1",
	})
	require.NoError(t, err)

	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(2500)), "payment amount copies the estimated cost")
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, r.ID, payment.RequisitionID)

	stored, err := f.requisitionFixture.svc.GetByID(context.Background(), r.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.RequisitionCompleted, stored.Status)
	require.NotNil(t, stored.PaymentID)
	assert.Equal(t, payment.ID, *stored.PaymentID)
	assert.NotNil(t, stored.CompletedAt)

	activity := f.activities.last()
	require.NotNil(t, activity)
	assert.Equal(t, model.ActionPayment, activity.Action)
	assert.Contains(t, activity.Description, "Admin approved")
}

func TestProcessPaymentOwnerApproved(t *testing.T) {
	f := newPaymentFixture()
	r := createRequisition(t, f.requisitionFixture, 75000)

	_, err := f.requisitionFixture.svc.ApproveAsOwner(context.Background(), r.ID.String(), ApproveRequisitionRequest{ApprovedBy: "owner1"})
	require.NoError(t, err)

	_, err = f.svc.ProcessPayment(context.Background(), r.ID.String(), ProcessPaymentRequest{
		PaymentMethod: "cash",
		ProcessedBy:   "finance1",
	})
	require.NoError(t, err)

	activity := f.activities.last()
	require.NotNil(t, activity)
	assert.Contains(t, activity.Description, "Owner approved")
}

func TestProcessPaymentPendingFails(t *testing.T) {
	f := newPaymentFixture()
	r := createRequisition(t, f.requisitionFixture, 2500)

	_, err := f.svc.ProcessPayment(context.Background(), r.ID.String(), ProcessPaymentRequest{
		PaymentMethod: "cash",
		ProcessedBy:   "finance1",
	})
	assert.ErrorIs(t, err, apperror.ErrNotApproved)
	assert.Empty(t, f.payments.payments, "no payment record on a refused payout")
}

func TestProcessPaymentTwiceFails(t *testing.T) {
	f := newPaymentFixture()
	r := createRequisition(t, f.requisitionFixture, 2500)

	_, err := f.requisitionFixture.svc.ApproveAsAdmin(context.Background(), r.ID.String(), ApproveRequisitionRequest{ApprovedBy: "admin1"})
	require.NoError(t, err)

	_, err = f.svc.ProcessPayment(context.Background(), r.ID.String(), ProcessPaymentRequest{PaymentMethod: "cash", ProcessedBy: "finance1"})
	require.NoError(t, err)

	_, err = f.svc.ProcessPayment(context.Background(), r.ID.String(), ProcessPaymentRequest{PaymentMethod: "cash", ProcessedBy: "finance1"})
	assert.ErrorIs(t, err, apperror.ErrNotApproved)
	assert.Len(t, f.payments.payments, 1)
}

func TestProcessPaymentUnknownRequisition(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.ProcessPayment(context.Background(), "00000000-0000-0000-0000-000000000001", ProcessPaymentRequest{
		PaymentMethod: "cash",
		ProcessedBy:   "finance1",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
