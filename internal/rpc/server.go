package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/asset"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/marketplace"
	"github.com/ZilDuck/lazy-marketplace/internal/registry"
	"github.com/ZilDuck/lazy-marketplace/internal/repository"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"io"
	"net/http"
	"time"
)

const (
	maxBodySize    = 1 << 20
	historyTimeout = 30 * time.Second
)

type handler func(params json.RawMessage) (interface{}, error)

type Server struct {
	engine   *marketplace.Engine
	registry *registry.Registry
	ledger   *ledger.Ledger
	assets   asset.Server
	methods  map[string]handler
}

var (
	ErrInvalidParams = errors.New("invalid params")
)

// NewServer exposes the marketplace and the staff registry. devMode adds the
// ledger_* and staff_mint/staff_approve methods used to seed a local ledger.
func NewServer(engine *marketplace.Engine, registry *registry.Registry, l *ledger.Ledger, assets asset.Server, devMode bool) *Server {
	s := &Server{engine: engine, registry: registry, ledger: l, assets: assets}
	s.methods = s.marketplaceMethods()
	for name, h := range s.staffMethods() {
		s.methods[name] = h
	}
	if devMode {
		for name, h := range s.devMethods() {
			s.methods[name] = h
		}
	}

	return s
}

// WithHistory adds marketplace_getHistory, served from the event index.
func (s *Server) WithHistory(events repository.EventRepository) *Server {
	s.methods["marketplace_getHistory"] = func(raw json.RawMessage) (interface{}, error) {
		var p HistoryParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		return events.GetAssetHistory(ctx, p.Collection, p.TokenId, p.Size)
	}

	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/rpc", s.handleRpc).Methods(http.MethodPost)
	s.assets.Register(r)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return r
}

// ListenAndServe blocks until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		zap.L().With(zap.String("port", port)).Info("RPC: Listening")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		zap.L().Info("RPC: Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"paused": s.engine.Config().Paused,
	})
}

func (s *Server) handleRpc(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeResponse(w, rpcResponse{JsonRpc: jsonrpcVersion, Id: nullId, Error: newError(ParseErrorCode, err)})
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeResponse(w, rpcResponse{JsonRpc: jsonrpcVersion, Id: nullId, Error: newError(ParseErrorCode, err)})
		return
	}

	writeResponse(w, s.call(req))
}

var nullId = json.RawMessage("null")

func (s *Server) call(req rpcRequest) rpcResponse {
	resp := rpcResponse{JsonRpc: jsonrpcVersion, Id: req.Id}
	if len(resp.Id) == 0 {
		resp.Id = nullId
	}

	if req.JsonRpc != jsonrpcVersion || req.Method == "" {
		resp.Error = newError(InvalidRequestCode, errors.New("invalid request"))
		return resp
	}

	h, ok := s.methods[req.Method]
	if !ok {
		resp.Error = newError(MethodNotFoundCode, fmt.Errorf("method %s not found", req.Method))
		return resp
	}

	result, err := h(req.Params)
	if err != nil {
		if errors.Is(err, ErrInvalidParams) {
			resp.Error = newError(InvalidParamsCode, err)
		} else {
			resp.Error = toRPCError(err)
		}
		zap.L().With(zap.String("method", req.Method), zap.Error(err)).Debug("RPC: Call failed")
		return resp
	}

	raw, err := json.Marshal(result)
	if err != nil {
		resp.Error = newError(InternalErrorCode, err)
		return resp
	}
	resp.Result = raw

	return resp
}

// decodeParams accepts either a params object or a single element array.
func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing params", ErrInvalidParams)
	}

	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil || len(list) != 1 {
			return fmt.Errorf("%w: expected a single params object", ErrInvalidParams)
		}
		raw = list[0]
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}

	return nil
}

func writeResponse(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().With(zap.Error(err)).Error("RPC: Failed to write response")
	}
}
