package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/api"
	"github.com/foodgram/foodgram-server/internal/config"
	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/metrics"
	"github.com/foodgram/foodgram-server/internal/ratelimit"
	"github.com/foodgram/foodgram-server/internal/service"
)

// RateLimiterHandle wraps the per-client limiter. Limiter is nil when
// rate limiting is disabled.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client request limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.RateLimit.PerMinute == 0 {
		log.Info("Rate limiting disabled by configuration")
		return &RateLimiterHandle{}, nil
	}

	log.Info("Rate limiting enabled", "per_minute", cfg.RateLimit.PerMinute)
	return &RateLimiterHandle{Limiter: ratelimit.PerMinute(cfg.RateLimit.PerMinute)}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	recipeImages := do.MustInvoke[*images.Storage](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = do.MustInvoke[*metrics.Metrics](i)
	}

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		User:         do.MustInvoke[*service.UserService](i),
		Tag:          do.MustInvoke[*service.TagService](i),
		Ingredient:   do.MustInvoke[*service.IngredientService](i),
		Recipe:       do.MustInvoke[*service.RecipeService](i),
		Favorite:     do.MustInvoke[*service.FavoriteService](i),
		ShoppingCart: do.MustInvoke[*service.ShoppingCartService](i),
		Subscription: do.MustInvoke[*service.SubscriptionService](i),
		Search:       do.MustInvoke[*service.SearchService](i),
	}
	storage := &api.StorageServices{RecipeImages: recipeImages}

	handler := api.NewServer(storeHandle.Store, services, storage, cfg, m, limiter.Limiter, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
