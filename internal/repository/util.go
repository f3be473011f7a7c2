package repository

import (
	"context"
	"errors"
	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"
	"net/http"
	"time"
)

const (
	tooManyRequestsRetries = 3
	tooManyRequestsWait    = 5 * time.Second
)

func search(ctx context.Context, searchService *elastic.SearchService) (*elastic.SearchResult, error) {
	for attempt := 0; ; attempt++ {
		result, err := searchService.Do(ctx)
		if !isTooManyRequests(err) || attempt == tooManyRequestsRetries {
			return result, err
		}

		zap.L().Warn("Elastic: 429 (Too Many Requests)")
		select {
		case <-time.After(tooManyRequestsWait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func isTooManyRequests(err error) bool {
	var e *elastic.Error
	return errors.As(err, &e) && e.Status == http.StatusTooManyRequests
}
