package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestNewTokenNormalizesSymbol(t *testing.T) {
	tok := New("weth", "Wrapped Ether", "weth", AddrWETH, 18)
	if tok.Symbol() != "WETH" {
		t.Errorf("Symbol() = %s, want WETH", tok.Symbol())
	}
}

func TestNewTokenPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"empty_symbol", func() { New("", "x", "x", common.Address{}, 18) }},
		{"absurd_decimals", func() { New("X", "x", "x", common.Address{}, 31) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestTokenNameFallsBackToSymbol(t *testing.T) {
	tok := New("ABC", "", "", common.Address{}, 18)
	if tok.Name() != "ABC" {
		t.Errorf("Name() = %s, want ABC", tok.Name())
	}
}

func TestTokenIsNative(t *testing.T) {
	if !ETH.IsNative() {
		t.Error("ETH should be native")
	}
	if WETH.IsNative() {
		t.Error("WETH should not be native")
	}
}

func TestRegistryLookupCaseInsensitive(t *testing.T) {
	r := DefaultRegistry()

	for _, symbol := range []string{"WETH", "weth", "Weth"} {
		tok, ok := r.Get(symbol)
		if !ok {
			t.Fatalf("Get(%q) not found", symbol)
		}
		if tok != WETH {
			t.Errorf("Get(%q) returned wrong token %s", symbol, tok)
		}
	}

	if _, ok := r.Get("DOGE"); ok {
		t.Error("Get(DOGE) found an unregistered token")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	r.Register(WETH)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	r.Register(WETH)
}

func TestDefaultRegistryContents(t *testing.T) {
	r := DefaultRegistry()
	if r.Count() != 6 {
		t.Errorf("Count() = %d, want 6", r.Count())
	}
	for _, symbol := range []string{"ETH", "WETH", "USDC", "USDT", "DAI", "WBTC"} {
		if _, ok := r.Get(symbol); !ok {
			t.Errorf("default registry missing %s", symbol)
		}
	}
}

func TestMustGetPanicsOnUnknown(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r.MustGet("NOPE")
}
