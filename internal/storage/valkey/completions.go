package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
	"go.uber.org/zap"
)

// CompletionStore keeps completion text in a Valkey (or Redis) server so
// several service instances share one cache.
type CompletionStore struct {
	client valkey.Client
	logger *zap.Logger
}

// NewCompletionStore connects to the server at addr and verifies it with a
// PING.
func NewCompletionStore(ctx context.Context, addr string, logger *zap.Logger) (*CompletionStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to valkey at %s: %w", addr, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("connected to valkey completion cache", zap.String("addr", addr))
	return NewCompletionStoreFromClient(client, logger), nil
}

// NewCompletionStoreFromClient wraps an existing client.
func NewCompletionStoreFromClient(client valkey.Client, logger *zap.Logger) *CompletionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionStore{client: client, logger: logger}
}

// Get returns the stored value for key, or ok=false when it is absent.
func (s *CompletionStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key with the given ttl, truncated to whole seconds.
// A ttl under one second stores it without expiry.
func (s *CompletionStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var cmd valkey.Completed
	if secs := int64(ttl / time.Second); secs > 0 {
		cmd = s.client.B().Set().Key(key).Value(value).ExSeconds(secs).Build()
	} else {
		cmd = s.client.B().Set().Key(key).Value(value).Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *CompletionStore) Close() {
	s.client.Close()
}
