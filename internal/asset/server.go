package asset

import (
	"encoding/json"
	"errors"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/metadata"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"net/http"
	"strconv"
)

type Registry interface {
	Asset(tokenId uint64) (entity.Asset, error)
	TokenURI(tokenId uint64) (string, error)
}

type Server struct {
	registry        Registry
	metadataService metadata.Service
}

func NewServer(registry Registry, metadataService metadata.Service) Server {
	return Server{registry, metadataService}
}

func (s Server) Register(r *mux.Router) {
	r.HandleFunc("/assets/{tokenId}", s.handleGetAsset).Methods(http.MethodGet)
	r.HandleFunc("/assets/{tokenId}/metadata", s.handleGetMetadata).Methods(http.MethodGet)
}

func (s Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	asset, err := s.registry.Asset(tokenId)
	if err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("tokenId", tokenId)).Debug("Asset: NFT not available")
		http.Error(w, "NFT not available", http.StatusNotFound)
		return
	}

	writeJson(w, asset)
}

func (s Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	tokenUri, err := s.registry.TokenURI(tokenId)
	if err != nil {
		http.Error(w, "NFT not available", http.StatusNotFound)
		return
	}

	md, err := s.metadataService.GetAssetMetadata(r.Context(), tokenUri)
	if err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("tokenId", tokenId)).Warn("Asset: Metadata not available")
		status := http.StatusBadGateway
		if errors.Is(err, metadata.ErrInvalidMetadataUri) {
			status = http.StatusNotFound
		}
		http.Error(w, "Metadata not available", status)
		return
	}

	zap.L().With(zap.Uint64("tokenId", tokenId)).Info("Asset: Serving metadata")
	writeJson(w, md)
}

func getTokenId(r *http.Request) (uint64, error) {
	tokenId, ok := mux.Vars(r)["tokenId"]
	if !ok {
		return 0, errors.New("invalid parameters")
	}

	return strconv.ParseUint(tokenId, 10, 64)
}

func writeJson(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().With(zap.Error(err)).Error("Asset: Failed to write response")
	}
}
