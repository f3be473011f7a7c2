package asset

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/metadata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registryStub map[uint64]entity.Asset

func (r registryStub) Asset(tokenId uint64) (entity.Asset, error) {
	if a, ok := r[tokenId]; ok {
		return a, nil
	}
	return entity.Asset{}, entity.ErrNftNotFound
}

func (r registryStub) TokenURI(tokenId uint64) (string, error) {
	a, err := r.Asset(tokenId)
	return "ipfs://" + a.IpfsHash, err
}

type metadataStub struct {
	md  map[string]interface{}
	err error
	uri string
}

func (m *metadataStub) GetAssetMetadata(_ context.Context, tokenUri string) (map[string]interface{}, error) {
	m.uri = tokenUri
	return m.md, m.err
}

func newRouter(md metadata.Service) *mux.Router {
	r := mux.NewRouter()
	NewServer(registryStub{
		7: {Collection: common.HexToAddress("0x5aff"), TokenId: 7, IpfsHash: "QmHash", UnspentSkills: 4, Locked: true},
	}, md).Register(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_GetAsset(t *testing.T) {
	rec := get(newRouter(&metadataStub{}), "/assets/7")
	require.Equal(t, http.StatusOK, rec.Code)

	var a entity.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, uint64(4), a.UnspentSkills)
	assert.True(t, a.Locked)

	assert.Equal(t, http.StatusNotFound, get(newRouter(&metadataStub{}), "/assets/8").Code)
	assert.Equal(t, http.StatusBadRequest, get(newRouter(&metadataStub{}), "/assets/seven").Code)
}

func TestServer_GetMetadata(t *testing.T) {
	md := &metadataStub{md: map[string]interface{}{"name": "Staff #7"}}
	rec := get(newRouter(md), "/assets/7/metadata")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ipfs://QmHash", md.uri)
	assert.JSONEq(t, `{"name":"Staff #7"}`, rec.Body.String())
}

func TestServer_GetMetadataFailures(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(newRouter(&metadataStub{}), "/assets/9/metadata").Code)

	unavailable := &metadataStub{err: errors.New("gateway down")}
	assert.Equal(t, http.StatusBadGateway, get(newRouter(unavailable), "/assets/7/metadata").Code)

	invalid := &metadataStub{err: metadata.ErrInvalidMetadataUri}
	assert.Equal(t, http.StatusNotFound, get(newRouter(invalid), "/assets/7/metadata").Code)
}
