package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/helper"
	"github.com/ZilDuck/lazy-marketplace/internal/log"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type Service interface {
	GetAssetMetadata(ctx context.Context, tokenUri string) (map[string]interface{}, error)
}

type service struct {
	client *retryablehttp.Client
	hosts  []string
}

var (
	ErrInvalidMetadataUri  = errors.New("invalid metadata uri")
	ErrMetadataUnavailable = errors.New("metadata unavailable")
)

func NewClient(retries int, timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = log.HttpLogger{}

	return client
}

func NewMetadataService(client *retryablehttp.Client, hosts []string) Service {
	return service{client, hosts}
}

// GetAssetMetadata fetches the metadata document behind tokenUri from the
// first gateway that serves it.
func (s service) GetAssetMetadata(ctx context.Context, tokenUri string) (map[string]interface{}, error) {
	urls := helper.GatewayUrls(s.hosts, tokenUri)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMetadataUri, tokenUri)
	}

	var lastErr error
	for _, uri := range urls {
		md, err := s.fetch(ctx, uri)
		if err == nil {
			return md, nil
		}

		zap.L().With(zap.Error(err), zap.String("uri", uri)).Warn("Metadata: Gateway failed")
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, lastErr)
}

func (s service) fetch(ctx context.Context, uri string) (map[string]interface{}, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	var md map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &md); err != nil {
		return nil, err
	}

	return md, nil
}
