package routing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	threshold := decimal.NewFromInt(50000)

	tests := []struct {
		name   string
		amount decimal.Decimal
		want   Tier
	}{
		{"small amount routes to admin", decimal.NewFromInt(2500), TierAdmin},
		{"amount equal to threshold routes to admin", decimal.NewFromInt(50000), TierAdmin},
		{"one cent above threshold routes to owner", decimal.NewFromFloat(50000.01), TierOwner},
		{"large amount routes to owner", decimal.NewFromInt(75000), TierOwner},
		{"zero routes to admin", decimal.Zero, TierAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.amount, threshold))
		})
	}
}

func TestRouteCustomThreshold(t *testing.T) {
	threshold := decimal.NewFromInt(10000)

	assert.Equal(t, TierAdmin, Route(decimal.NewFromInt(10000), threshold))
	assert.Equal(t, TierOwner, Route(decimal.NewFromInt(10001), threshold))
}
