// Package dashboard aggregates summary tiles from several API endpoints in
// parallel. A failed source degrades its own tile only; the rest render.
package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
)

const cacheKey = "dashboard:summary"

// Gateway supplies the figures behind the dashboard tiles.
type Gateway interface {
	ListReturns(ctx context.Context, limit, offset int) ([]erpapi.ReturnDocument, error)
	ListPurchaseOrders(ctx context.Context, status string, limit, offset int) ([]erpapi.PurchaseOrder, error)
	ListGatePasses(ctx context.Context, limit, offset int) ([]erpapi.GatePass, error)
	SearchProducts(ctx context.Context, query string, limit, offset int) ([]erpapi.Product, error)
}

// Tile is one dashboard figure. Degraded tiles keep their last-known zero
// values and carry an error message instead.
type Tile struct {
	Count    int     `json:"count"`
	Amount   float64 `json:"amount,omitempty"`
	Degraded bool    `json:"degraded,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Summary is the full dashboard payload.
type Summary struct {
	RecentReturns  Tile      `json:"recent_returns"`
	OpenPurchases  Tile      `json:"open_purchases"`
	GatePassesOpen Tile      `json:"gate_passes"`
	Products       Tile      `json:"products"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Service builds dashboard summaries.
type Service struct {
	logger  *slog.Logger
	gateway Gateway
	cache   *redis.Client
	ttl     time.Duration
}

// NewService builds Service instance. A nil cache disables summary caching.
func NewService(logger *slog.Logger, gateway Gateway, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{logger: logger, gateway: gateway, cache: cache, ttl: ttl}
}

// Summary returns the cached summary when fresh, otherwise rebuilds it.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached Summary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}
	return s.Rebuild(ctx)
}

// Rebuild fetches every tile in parallel and stores the result.
func (s *Service) Rebuild(ctx context.Context) (*Summary, error) {
	summary := &Summary{GeneratedAt: time.Now()}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	tile := func(fetch func(context.Context) (Tile, error), assign func(*Summary, Tile)) {
		g.Go(func() error {
			t, err := fetch(gctx)
			if err != nil {
				s.logger.Warn("dashboard tile degraded", slog.Any("error", err))
				t = Tile{Degraded: true, Error: "unavailable"}
			}
			mu.Lock()
			assign(summary, t)
			mu.Unlock()
			// tile failures never fail the whole summary
			return nil
		})
	}

	tile(func(ctx context.Context) (Tile, error) {
		docs, err := s.gateway.ListReturns(ctx, 50, 0)
		if err != nil {
			return Tile{}, err
		}
		var total float64
		for _, d := range docs {
			total += d.GrandTotal
		}
		return Tile{Count: len(docs), Amount: total}, nil
	}, func(sum *Summary, t Tile) { sum.RecentReturns = t })

	tile(func(ctx context.Context) (Tile, error) {
		orders, err := s.gateway.ListPurchaseOrders(ctx, "OPEN", 50, 0)
		if err != nil {
			return Tile{}, err
		}
		var total float64
		for _, o := range orders {
			total += o.GrandTotal
		}
		return Tile{Count: len(orders), Amount: total}, nil
	}, func(sum *Summary, t Tile) { sum.OpenPurchases = t })

	tile(func(ctx context.Context) (Tile, error) {
		passes, err := s.gateway.ListGatePasses(ctx, 50, 0)
		if err != nil {
			return Tile{}, err
		}
		return Tile{Count: len(passes)}, nil
	}, func(sum *Summary, t Tile) { sum.GatePassesOpen = t })

	tile(func(ctx context.Context) (Tile, error) {
		products, err := s.gateway.SearchProducts(ctx, "", 100, 0)
		if err != nil {
			return Tile{}, err
		}
		return Tile{Count: len(products)}, nil
	}, func(sum *Summary, t Tile) { sum.Products = t })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.ttl).Err()
		}
	}
	return summary, nil
}
