// Package token holds metadata for the tokens the agents can scan.
// Tokens are identified by symbol; the registry maps symbols to price
// source identifiers and on-chain addresses.
package token

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Token describes a tradeable asset.
type Token struct {
	symbol      string
	name        string
	coingeckoID string
	address     common.Address
	decimals    uint8
}

// New creates a Token. Panics on empty symbol or suspicious decimals;
// tokens are constructed at startup from static tables.
func New(symbol, name, coingeckoID string, address common.Address, decimals uint8) *Token {
	if symbol == "" {
		panic("token: empty symbol")
	}
	if decimals > 30 {
		panic("token: suspicious decimals (>30)")
	}
	return &Token{
		symbol:      strings.ToUpper(symbol),
		name:        name,
		coingeckoID: coingeckoID,
		address:     address,
		decimals:    decimals,
	}
}

// Symbol returns the ticker symbol (e.g. "WETH").
func (t *Token) Symbol() string { return t.symbol }

// Name returns the human-readable name.
func (t *Token) Name() string {
	if t.name == "" {
		return t.symbol
	}
	return t.name
}

// CoinGeckoID returns the identifier used by the CoinGecko price API.
func (t *Token) CoinGeckoID() string { return t.coingeckoID }

// Address returns the ERC20 contract address (zero for native coins).
func (t *Token) Address() common.Address { return t.address }

// Decimals returns the number of decimal places.
func (t *Token) Decimals() uint8 { return t.decimals }

// IsNative reports whether this is a chain-native coin.
func (t *Token) IsNative() bool { return t.address == (common.Address{}) }

func (t *Token) String() string { return t.symbol }

// Registry is a thread-safe registry of known tokens.
type Registry struct {
	mu       sync.RWMutex
	bySymbol map[string]*Token
}

// NewRegistry creates an empty token registry.
func NewRegistry() *Registry {
	return &Registry{bySymbol: make(map[string]*Token)}
}

// Register adds a token. Panics if the symbol is already registered.
func (r *Registry) Register(t *Token) {
	if t == nil {
		panic("token: cannot register nil token")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bySymbol[t.symbol]; exists {
		panic(fmt.Sprintf("token: %s already registered", t.symbol))
	}
	r.bySymbol[t.symbol] = t
}

// Get retrieves a token by symbol (case-insensitive).
func (r *Registry) Get(symbol string) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.bySymbol[strings.ToUpper(symbol)]
	return t, ok
}

// MustGet retrieves a token by symbol, panicking if unknown.
func (r *Registry) MustGet(symbol string) *Token {
	t, ok := r.Get(symbol)
	if !ok {
		panic(fmt.Sprintf("token: %s not found in registry", symbol))
	}
	return t
}

// Symbols returns all registered symbols.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.bySymbol))
	for s := range r.bySymbol {
		out = append(out, s)
	}
	return out
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySymbol)
}
