package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited spaces calls to next so that no more than rpm requests start
// per minute.
type RateLimited struct {
	next    Client
	limiter *rate.Limiter
}

// NewRateLimited wraps next. rpm <= 0 returns next unchanged.
func NewRateLimited(next Client, rpm float64) Client {
	if rpm <= 0 {
		return next
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rpm/60.0), 1)}
}

func (r *RateLimited) Infer(ctx context.Context, prompt string, images []string) (Reply, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Reply{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.next.Infer(ctx, prompt, images)
}
