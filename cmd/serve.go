package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Vasu1712/vibe-rooms-backend/internal/api/stream"
	"github.com/Vasu1712/vibe-rooms-backend/internal/api/vibes"
	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/composer"
	"github.com/Vasu1712/vibe-rooms-backend/internal/middleware"
	"github.com/Vasu1712/vibe-rooms-backend/internal/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	c := catalog.Default()
	b, err := buildBackend(ctx, cfg, c, logger)
	if err != nil {
		return err
	}
	defer b.close()

	hub := ws.NewHub(logger)

	router := mux.NewRouter()
	vibes.RegisterVibeRoutes(router, &vibes.VibeHandler{
		Catalog:     c,
		Interpreter: b.interpreter,
		Composer:    composer.New(c),
		Hub:         hub,
		Logger:      logger,
	})
	stream.RegisterStreamRoutes(router, &stream.StreamHandler{
		Catalog:        c,
		Interpreter:    b.interpreter,
		Hub:            hub,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	var handler http.Handler = router
	handler = middleware.CORS(cfg.Server.AllowedOrigins, logger)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	if b.memCache != nil {
		g.Go(func() error {
			purgeLoop(ctx, b.memCache, logger)
			return nil
		})
	}
	g.Go(func() error {
		logger.Info("server started", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
