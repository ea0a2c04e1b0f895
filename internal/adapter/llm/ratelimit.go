package llm

import (
	"context"

	"golang.org/x/time/rate"

	"koordinator/internal/domain"
)

// RateLimitedClassifier throttles calls to inner with a token bucket. A call
// that would wait past its context deadline fails with domain.ErrRateLimit.
type RateLimitedClassifier struct {
	inner   domain.Classifier
	limiter *rate.Limiter
}

var _ domain.Classifier = (*RateLimitedClassifier)(nil)

// NewRateLimitedClassifier allows rps calls per second with the given burst.
func NewRateLimitedClassifier(inner domain.Classifier, rps float64, burst int) *RateLimitedClassifier {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClassifier{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Classify implements domain.Classifier.
func (r *RateLimitedClassifier) Classify(ctx context.Context, utterance string) (*domain.ClassifierReply, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, domain.WrapOp("RateLimit.Classify", ctx.Err())
		}
		return nil, domain.NewDomainError("RateLimit.Classify", domain.ErrRateLimit, err.Error())
	}
	return r.inner.Classify(ctx, utterance)
}

// Name implements domain.Classifier.
func (r *RateLimitedClassifier) Name() string { return r.inner.Name() }
