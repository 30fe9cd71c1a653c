package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/completion"
	"github.com/Vasu1712/vibe-rooms-backend/internal/config"
	"github.com/Vasu1712/vibe-rooms-backend/internal/interpreter"
	"github.com/Vasu1712/vibe-rooms-backend/internal/storage/memory"
	"github.com/Vasu1712/vibe-rooms-backend/internal/storage/valkey"
)

// purgeEvery is how often expired in-process cache entries are dropped.
const purgeEvery = time.Minute

// backend is the interpreter plus whatever it holds open.
type backend struct {
	interpreter *interpreter.Interpreter
	memCache    *memory.CompletionStore // Set when the in-process cache is used
	close       func()
}

// buildBackend wires the completer, its cache and the interpreter from cfg.
func buildBackend(ctx context.Context, cfg config.Config, c *catalog.Catalog, logger *zap.Logger) (*backend, error) {
	b := &backend{close: func() {}}

	completer, err := completion.New(ctx, cfg.CompletionOptions())
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}

	if !completion.IsDisabled(completer) && cfg.Cache.Enabled {
		var cache completion.Cache
		if cfg.Cache.ValkeyAddr != "" {
			store, err := valkey.NewCompletionStore(ctx, cfg.Cache.ValkeyAddr, logger)
			if err != nil {
				return nil, fmt.Errorf("completion cache: %w", err)
			}
			b.close = store.Close
			cache = store
			logger.Info("completion cache: valkey", zap.String("addr", cfg.Cache.ValkeyAddr))
		} else {
			b.memCache = memory.NewCompletionStore()
			cache = b.memCache
			logger.Info("completion cache: in-process")
		}
		completer = completion.NewCached(completer, cache, cfg.CacheTTL(), logger)
	}
	logger.Info("completion provider", zap.String("name", completer.Name()))

	b.interpreter = interpreter.New(c,
		interpreter.WithCompleter(completer),
		interpreter.WithTimeout(cfg.CompletionTimeout()),
		interpreter.WithLogger(logger),
	)
	return b, nil
}

// purgeLoop drops expired in-process cache entries until ctx is done.
func purgeLoop(ctx context.Context, store *memory.CompletionStore, logger *zap.Logger) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := store.Purge(); n > 0 {
				logger.Debug("purged expired completions", zap.Int("count", n))
			}
		}
	}
}
