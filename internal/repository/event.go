package repository

import (
	"context"
	"encoding/json"
	"github.com/ZilDuck/lazy-marketplace/internal/elastic_search"
	"github.com/ethereum/go-ethereum/common"
	"github.com/olivere/elastic/v7"
)

const defaultHistorySize = 50

type EventRepository interface {
	GetAssetHistory(ctx context.Context, collection common.Address, tokenId uint64, size int) ([]json.RawMessage, error)
}

type eventRepository struct {
	elastic elastic_search.Index
}

func NewEventRepository(elastic elastic_search.Index) EventRepository {
	return eventRepository{elastic}
}

// GetAssetHistory returns the indexed settlement events of an asset, newest
// first.
func (r eventRepository) GetAssetHistory(ctx context.Context, collection common.Address, tokenId uint64, size int) ([]json.RawMessage, error) {
	if size <= 0 {
		size = defaultHistorySize
	}

	query := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("collection", collection.Hex()),
		elastic.NewTermQuery("tokenId", tokenId),
	)

	results, err := search(ctx, r.elastic.GetClient().
		Search(elastic_search.EventIndex.Get()).
		Query(query).
		Sort("time", false).
		Sort("logIndex", false).
		Size(size))

	return r.findMany(results, err)
}

func (r eventRepository) findMany(results *elastic.SearchResult, err error) ([]json.RawMessage, error) {
	if err != nil {
		return nil, err
	}

	events := make([]json.RawMessage, 0, len(results.Hits.Hits))
	for _, hit := range results.Hits.Hits {
		events = append(events, hit.Source)
	}

	return events, nil
}
