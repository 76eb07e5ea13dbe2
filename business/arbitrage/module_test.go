package arbitrage

import (
	"testing"

	"github.com/fd1az/defi-agents/internal/token"
)

func TestParsePairs(t *testing.T) {
	registry := token.DefaultRegistry()

	tests := []struct {
		name    string
		specs   []string
		want    []string
		wantErr bool
	}{
		{
			name:  "defaults",
			specs: []string{"WETH-USDC", "ETH-USDT", "WBTC-DAI"},
			want:  []string{"WETH-USDC", "ETH-USDT", "WBTC-DAI"},
		},
		{
			name:  "case_insensitive",
			specs: []string{"weth-usdc"},
			want:  []string{"WETH-USDC"},
		},
		{
			name:    "missing_separator",
			specs:   []string{"WETHUSDC"},
			wantErr: true,
		},
		{
			name:    "unknown_token",
			specs:   []string{"WETH-DOGE"},
			wantErr: true,
		},
		{
			name:  "empty",
			specs: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := parsePairs(tt.specs, registry)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePairs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(pairs) != len(tt.want) {
				t.Fatalf("parsed %d pairs, want %d", len(pairs), len(tt.want))
			}
			for i, want := range tt.want {
				if pairs[i].String() != want {
					t.Errorf("pairs[%d] = %s, want %s", i, pairs[i], want)
				}
			}
		})
	}
}
