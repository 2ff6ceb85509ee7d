package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mdsabbir/vaxchain/api"
	"github.com/mdsabbir/vaxchain/config"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	campaigns *api.CampaignHandler,
	bookings *api.BookingHandler,
	reviews *api.ReviewHandler,
	payments *api.PaymentHandler,
) error {
	router := api.NewRouter(cfg, campaigns, bookings, reviews, payments)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
