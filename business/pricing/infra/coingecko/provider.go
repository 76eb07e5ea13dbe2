// Package coingecko implements the pricing Source against the CoinGecko
// HTTP API, falling back to DexScreener per token when CoinGecko is
// unavailable or does not know the token.
package coingecko

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/apperror"
	"github.com/fd1az/defi-agents/internal/circuitbreaker"
	"github.com/fd1az/defi-agents/internal/httpclient"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/ratelimit"
	"github.com/fd1az/defi-agents/internal/token"
)

const (
	sourceCoinGecko   = "coingecko"
	sourceDexScreener = "dexscreener"
)

// ProviderConfig holds the provider's tunables.
type ProviderConfig struct {
	BaseURL        string // e.g. https://api.coingecko.com/api/v3
	FallbackURL    string // e.g. https://api.dexscreener.com/latest/dex
	RequestTimeout time.Duration
	RatePerSecond  float64 // CoinGecko free tier allows ~10-30 req/min
}

// Provider fetches USD prices from CoinGecko with DexScreener fallback.
type Provider struct {
	config   ProviderConfig
	client   httpclient.Client
	fallback httpclient.Client
	limiter  *ratelimit.Limiter
	cb       *circuitbreaker.CircuitBreaker[map[string]decimal.Decimal]
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

// NewProvider creates a CoinGecko-backed price provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 2
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(sourceCoinGecko),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("failed to create coingecko http client"))
	}

	fallback, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(sourceDexScreener),
		httpclient.WithBaseURL(cfg.FallbackURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("failed to create dexscreener http client"))
	}

	return &Provider{
		config:   cfg,
		client:   client,
		fallback: fallback,
		limiter:  ratelimit.NewWithBurst(cfg.RatePerSecond, 1),
		cb:       circuitbreaker.New[map[string]decimal.Decimal](circuitbreaker.DefaultConfig(sourceCoinGecko)),
		logger:   log,
		tracer:   otel.Tracer("pricing.coingecko"),
	}, nil
}

// Name implements app.Source.
func (p *Provider) Name() string { return sourceCoinGecko }

// FetchPrices implements app.Source. Both legs are priced via
// CoinGecko in one call; any leg CoinGecko cannot price is retried
// against DexScreener before the pair is given up on.
func (p *Provider) FetchPrices(ctx context.Context, pair domain.Pair) (*domain.PriceObservation, error) {
	ctx, span := p.tracer.Start(ctx, "pricing.fetch",
		trace.WithAttributes(attribute.String("pair", pair.String())),
	)
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}

	source := sourceCoinGecko
	prices, err := p.cb.Execute(func() (map[string]decimal.Decimal, error) {
		return p.simplePrice(ctx, pair.TokenA, pair.TokenB)
	})
	if err != nil {
		p.logger.Warn(ctx, "coingecko lookup failed, trying dexscreener", "pair", pair.String(), "error", err)
		span.AddEvent("fallback", trace.WithAttributes(attribute.String("source", sourceDexScreener)))
		prices, err = p.dexScreenerPrices(ctx, pair.TokenA, pair.TokenB)
		source = sourceDexScreener
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "all price sources failed")
		return nil, apperror.New(apperror.CodePriceFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext(pair.String()))
	}

	priceA, okA := prices[pair.TokenA.Symbol()]
	priceB, okB := prices[pair.TokenB.Symbol()]
	if !okA || !okB || !priceA.IsPositive() || !priceB.IsPositive() {
		span.SetStatus(codes.Error, "incomplete quote")
		return nil, apperror.New(apperror.CodeInvalidPriceQuote, apperror.WithContext(pair.String()))
	}

	span.SetStatus(codes.Ok, "fetched")
	return domain.NewPriceObservation(pair, priceA, priceB, source), nil
}

// simplePrice calls /simple/price for both tokens at once.
func (p *Provider) simplePrice(ctx context.Context, tokens ...*token.Token) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(tokens))
	for _, t := range tokens {
		ids = append(ids, t.CoinGeckoID())
	}

	var result map[string]map[string]float64
	resp, err := p.client.NewRequest().
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetQueryParam("vs_currencies", "usd").
		SetResult(&result).
		Get(ctx, "/simple/price")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	prices := make(map[string]decimal.Decimal, len(tokens))
	for _, t := range tokens {
		quote, ok := result[t.CoinGeckoID()]
		if !ok {
			return nil, fmt.Errorf("coingecko has no quote for %s", t.Symbol())
		}
		usd, ok := quote["usd"]
		if !ok {
			return nil, fmt.Errorf("coingecko quote for %s has no usd price", t.Symbol())
		}
		prices[t.Symbol()] = decimal.NewFromFloat(usd)
	}
	return prices, nil
}

// dexScreenerPair mirrors the subset of the DexScreener token payload we read.
type dexScreenerPair struct {
	PriceUSD string `json:"priceUsd"`
}

type dexScreenerResponse struct {
	Pairs []dexScreenerPair `json:"pairs"`
}

// dexScreenerPrices resolves each token individually by contract
// address. Native coins are priced through their wrapped form.
func (p *Provider) dexScreenerPrices(ctx context.Context, tokens ...*token.Token) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(tokens))
	for _, t := range tokens {
		addr := t.Address()
		if t.IsNative() {
			addr = token.AddrWETH
		}

		var result dexScreenerResponse
		resp, err := p.fallback.NewRequest().
			SetResult(&result).
			Get(ctx, "/tokens/"+addr.Hex())
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("dexscreener returned status %d", resp.StatusCode)
		}
		if len(result.Pairs) == 0 {
			return nil, fmt.Errorf("dexscreener has no pairs for %s", t.Symbol())
		}

		price, err := decimal.NewFromString(result.Pairs[0].PriceUSD)
		if err != nil {
			return nil, fmt.Errorf("dexscreener price for %s is malformed: %w", t.Symbol(), err)
		}
		prices[t.Symbol()] = price
	}
	return prices, nil
}
