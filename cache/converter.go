// Package cache remembers successful conversions so a repeated literal on the
// immediate path does not cost a round trip against a rate-limited service.
package cache

import (
	"context"

	"go.uber.org/zap"

	"saythenumber/shared/types"
)

// Store is a literal -> word form lookup
type Store interface {
	Get(ctx context.Context, literal string) (string, bool, error)
	Set(ctx context.Context, literal, words string) error
}

// Converter is the conversion service being wrapped
type Converter interface {
	ConvertNow(ctx context.Context, literal string) (*types.Envelope, error)
	ConvertWithDelay(ctx context.Context, literal string) (*types.Envelope, error)
}

// CachingConverter answers the immediate path from the store when it can and
// records every "ok" answer from either path. The delayed path always goes to
// the service. Store errors are logged and never fail a conversion.
type CachingConverter struct {
	next   Converter
	store  Store
	logger *zap.Logger
}

// NewCachingConverter wraps next with store
func NewCachingConverter(next Converter, store Store, logger *zap.Logger) *CachingConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingConverter{next: next, store: store, logger: logger}
}

// ConvertNow implements Converter
func (c *CachingConverter) ConvertNow(ctx context.Context, literal string) (*types.Envelope, error) {
	words, ok, err := c.store.Get(ctx, literal)
	switch {
	case err != nil:
		c.logger.Warn("Cache lookup failed", zap.String("literal", literal), zap.Error(err))
	case ok:
		c.logger.Debug("Cache hit", zap.String("literal", literal))
		return &types.Envelope{Status: types.StatusOK, NumInEnglish: words}, nil
	}

	env, err := c.next.ConvertNow(ctx, literal)
	c.remember(ctx, literal, env, err)
	return env, err
}

// ConvertWithDelay implements Converter
func (c *CachingConverter) ConvertWithDelay(ctx context.Context, literal string) (*types.Envelope, error) {
	env, err := c.next.ConvertWithDelay(ctx, literal)
	c.remember(ctx, literal, env, err)
	return env, err
}

func (c *CachingConverter) remember(ctx context.Context, literal string, env *types.Envelope, err error) {
	if err != nil || env == nil || env.Status != types.StatusOK {
		return
	}
	if err := c.store.Set(ctx, literal, env.NumInEnglish); err != nil {
		c.logger.Warn("Cache write failed", zap.String("literal", literal), zap.Error(err))
	}
}
