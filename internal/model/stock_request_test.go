package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   TransferStatus
		to     TransferStatus
		wantOK bool
	}{
		{"admin approval advances to manager", TransferPendingAdminApproval, TransferPendingManagerApproval, true},
		{"manager approval advances to fulfillment", TransferPendingManagerApproval, TransferPendingFulfillment, true},
		{"fulfillment advances to pickup", TransferPendingFulfillment, TransferReadyForPickup, true},
		{"gate verify advances to transit", TransferReadyForPickup, TransferInTransit, true},
		{"delivery confirmation completes", TransferInTransit, TransferConfirmed, true},
		{"cannot skip manager approval", TransferPendingAdminApproval, TransferPendingFulfillment, false},
		{"cannot fulfill twice", TransferReadyForPickup, TransferReadyForPickup, false},
		{"cannot confirm from pickup", TransferReadyForPickup, TransferConfirmed, false},
		{"confirmed is terminal", TransferConfirmed, TransferInTransit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransferStatusCancellation(t *testing.T) {
	cancellable := []TransferStatus{
		TransferPendingAdminApproval, TransferPendingManagerApproval,
		TransferPendingFulfillment, TransferReadyForPickup, TransferInTransit,
	}
	for _, s := range cancellable {
		assert.True(t, s.CanTransitionTo(TransferCancelled), "%s should be cancellable", s)
	}
	assert.False(t, TransferConfirmed.CanTransitionTo(TransferCancelled))
	assert.False(t, TransferCancelled.CanTransitionTo(TransferCancelled))
}

func TestWorkflowHistoryAppendOnly(t *testing.T) {
	req := &StockTransferRequest{
		Status: TransferPendingAdminApproval,
		WorkflowHistory: WorkflowHistory{
			{Stage: StageCreated, Timestamp: time.Now(), By: "Alem", Status: string(TransferPendingAdminApproval)},
		},
	}

	req.Status = TransferPendingManagerApproval
	req.AppendHistory(WorkflowEntry{
		Stage:     StageAdminApproval,
		Timestamp: time.Now(),
		By:        "Admin",
		Status:    string(req.Status),
	})

	require.Len(t, req.WorkflowHistory, 2)
	assert.Equal(t, StageCreated, req.WorkflowHistory[0].Stage)
	assert.Equal(t, string(TransferPendingManagerApproval), req.WorkflowHistory[1].Status)
}

func TestWorkflowHistoryScanRoundTrip(t *testing.T) {
	h := WorkflowHistory{
		{Stage: StageCreated, By: "Alem", Status: string(TransferPendingAdminApproval)},
		{Stage: StageAdminApproval, By: "Admin", Status: string(TransferPendingManagerApproval), Notes: "ok"},
	}

	v, err := h.Value()
	require.NoError(t, err)

	var got WorkflowHistory
	require.NoError(t, got.Scan([]byte(v.(string))))
	require.Len(t, got, 2)
	assert.Equal(t, "Admin", got[1].By)
	assert.Equal(t, "ok", got[1].Notes)
}
