package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ZilDuck/lazy-marketplace/internal/log"
	"github.com/ZilDuck/lazy-marketplace/internal/marketplace"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// A Client represents a JSON RPC client (over HTTP(s)) of the daemon.
type Client struct {
	url        string
	httpClient *retryablehttp.Client
	timeout    time.Duration
	debug      bool
	nextId     int64
}

var (
	ErrMissingUrl    = errors.New("bad call missing argument url")
	ErrEmptyResponse = errors.New("empty rpc response")
)

func NewClient(url string, timeout int, debug bool) (*Client, error) {
	if len(url) == 0 {
		return nil, ErrMissingUrl
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.HttpLogger{}
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = time.Second

	return &Client{
		url:        url,
		httpClient: retryClient,
		timeout:    time.Duration(timeout) * time.Second,
		debug:      debug,
	}, nil
}

// Call invokes method with a single params object and decodes the result
// into result. Domain failures come back as *RPCError.
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	id := atomic.AddInt64(&c.nextId, 1)

	rawParams := json.RawMessage("[]")
	if params != nil {
		var err error
		if rawParams, err = json.Marshal([]interface{}{params}); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(rpcRequest{
		JsonRpc: jsonrpcVersion,
		Method:  method,
		Params:  rawParams,
		Id:      json.RawMessage(fmt.Sprintf("%d", id)),
	})
	if err != nil {
		return err
	}

	zap.L().With(zap.String("request", method)).Debug("RPC: Request")
	if c.debug {
		zap.L().With(zap.ByteString("request", payload)).Debug("RPC: Request")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json;charset=utf-8")
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("RPC: Failure")
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if c.debug {
		zap.L().With(zap.ByteString("response", data)).Debug("RPC: Response")
	}

	var rr rpcResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return fmt.Errorf("rpc response (%s): %w", resp.Status, err)
	}
	if rr.Error != nil {
		return rr.Error
	}
	if result == nil {
		return nil
	}
	if len(rr.Result) == 0 {
		return ErrEmptyResponse
	}

	return json.Unmarshal(rr.Result, result)
}

func (c *Client) ListItem(ctx context.Context, p ListParams) (*Receipt, error) {
	var receipt Receipt
	if err := c.Call(ctx, "marketplace_listItem", p, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) CancelListing(ctx context.Context, p ListParams) (*Receipt, error) {
	var receipt Receipt
	if err := c.Call(ctx, "marketplace_cancelListing", p, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) BuyItem(ctx context.Context, p BuyItemParams) (*Receipt, error) {
	var receipt Receipt
	if err := c.Call(ctx, "marketplace_buyItem", p, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) BuyInGameAsset(ctx context.Context, p BuyInGameAssetParams) (*Receipt, error) {
	var receipt Receipt
	if err := c.Call(ctx, "marketplace_buyInGameAsset", p, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) GetListing(ctx context.Context, p ListingParams) (*entity.Listing, error) {
	var listing entity.Listing
	if err := c.Call(ctx, "marketplace_getListing", p, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) GetConfig(ctx context.Context) (*marketplace.Config, error) {
	var cfg marketplace.Config
	if err := c.Call(ctx, "marketplace_getConfig", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) GetAsset(ctx context.Context, tokenId uint64) (*entity.Asset, error) {
	var asset entity.Asset
	if err := c.Call(ctx, "staff_getAsset", TokenParams{TokenId: tokenId}, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) Credit(ctx context.Context, p CreditParams) (*BalanceResult, error) {
	var balance BalanceResult
	if err := c.Call(ctx, "ledger_credit", p, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// Receipt is a committed unit of work as returned over the wire.
type Receipt struct {
	ID     string            `json:"id"`
	Time   time.Time         `json:"time"`
	Events []json.RawMessage `json:"events"`
}

func (r Receipt) EventTypes() []event.Type {
	types := make([]event.Type, 0, len(r.Events))
	for _, raw := range r.Events {
		var meta entity.EventMeta
		if err := json.Unmarshal(raw, &meta); err == nil {
			types = append(types, meta.EventType)
		}
	}
	return types
}
