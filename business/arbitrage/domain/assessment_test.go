package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRiskThresholdsClassify(t *testing.T) {
	thresholds := DefaultRiskThresholds()
	d := decimal.RequireFromString

	tests := []struct {
		name      string
		margin    string
		slippage  string
		priceDiff string
		want      RiskLevel
	}{
		{"comfortable_margin", "0.05", "0.005", "0.05", RiskLow},
		{"thin_margin_forces_high", "0.009", "0.005", "0.05", RiskHigh},
		{"heavy_slippage_forces_high", "0.05", "0.021", "0.05", RiskHigh},
		{"thin_spread_forces_high", "0.05", "0.005", "0.019", RiskHigh},
		{"moderate_margin_is_medium", "0.02", "0.005", "0.05", RiskMedium},
		{"moderate_slippage_is_medium", "0.05", "0.011", "0.05", RiskMedium},
		{"high_beats_medium", "0.009", "0.011", "0.05", RiskHigh},
		{"boundaries_are_exclusive", "0.01", "0.02", "0.02", RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := thresholds.Classify(d(tt.margin), d(tt.slippage), d(tt.priceDiff))
			if got != tt.want {
				t.Errorf("Classify(%s, %s, %s) = %s, want %s", tt.margin, tt.slippage, tt.priceDiff, got, tt.want)
			}
		})
	}
}
