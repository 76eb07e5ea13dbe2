package token

import "github.com/ethereum/go-ethereum/common"

// Well-known token addresses on Ethereum Mainnet.
var (
	AddrWETH = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	AddrUSDC = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	AddrUSDT = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	AddrDAI  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	AddrWBTC = common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599")
)

// Well-known tokens (pre-created instances).
var (
	ETH  = New("ETH", "Ethereum", "ethereum", common.Address{}, 18)
	WETH = New("WETH", "Wrapped Ether", "weth", AddrWETH, 18)
	USDC = New("USDC", "USD Coin", "usd-coin", AddrUSDC, 6)
	USDT = New("USDT", "Tether USD", "tether", AddrUSDT, 6)
	DAI  = New("DAI", "Dai Stablecoin", "dai", AddrDAI, 18)
	WBTC = New("WBTC", "Wrapped Bitcoin", "wrapped-bitcoin", AddrWBTC, 8)
)

// DefaultRegistry returns a registry pre-populated with the tokens the
// scanner watches by default.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ETH)
	r.Register(WETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	r.Register(WBTC)
	return r
}
