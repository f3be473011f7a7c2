package elastic_search

import (
	"context"
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/config"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/log"
	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"
	"github.com/olivere/elastic/v7"
	"github.com/patrickmn/go-cache"
	"github.com/sha1sum/aws_signing_client"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Index interface {
	GetClient() *elastic.Client

	InstallMappings(dir string) error

	AddIndexRequest(index string, entity entity.Entity, reqAction RequestAction)
	HasRequest(entity entity.Entity) bool
	GetEntitiesByIndex(index string) []entity.Entity
	GetRequests() []Request
	GetRequest(id string) *Request
	ClearRequests()

	BatchPersist() bool
	Persist() int
}

type index struct {
	client           *elastic.Client
	cache            *cache.Cache
	refresh          string
	bulkPersistCount int
	mu               *sync.Mutex
}

type Request struct {
	Index  string
	Entity entity.Entity
	Type   RequestType
	Action RequestAction
}

type RequestType string

const (
	IndexRequest RequestType = "index"
)

// RequestAction is the settlement event type that produced the request.
type RequestAction string

const batchPersistThreshold = 250

func New(cfg config.ElasticSearchConfig, aws config.AwsConfig) (Index, error) {
	client, err := newClient(cfg, aws)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("ElasticSearch: Failed to create client")
		return nil, err
	}

	return NewWithClient(client, cfg.Refresh, cfg.BulkPersistCount), nil
}

func NewWithClient(client *elastic.Client, refresh string, bulkPersistCount int) Index {
	if bulkPersistCount <= 0 {
		bulkPersistCount = 300
	}

	return index{
		client:           client,
		cache:            cache.New(5*time.Minute, 10*time.Minute),
		refresh:          refresh,
		bulkPersistCount: bulkPersistCount,
		mu:               &sync.Mutex{},
	}
}

func newClient(cfg config.ElasticSearchConfig, aws config.AwsConfig) (*elastic.Client, error) {
	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(cfg.Hosts...),
		elastic.SetSniff(cfg.Sniff),
		elastic.SetHealthcheck(cfg.HealthCheck),
	}

	if cfg.Debug {
		opts = append(opts, elastic.SetTraceLog(log.HttpLogger{}))
	}

	if cfg.Aws {
		creds := credentials.NewStaticCredentials(aws.AccessKey, aws.SecretKey, aws.Token)
		awsClient, err := aws_signing_client.New(v4.NewSigner(creds), nil, "es", aws.Region)
		if err != nil {
			return nil, err
		}

		opts = append(opts, elastic.SetHttpClient(awsClient))
		opts = append(opts, elastic.SetScheme("https"))
		return elastic.NewClient(opts...)
	}

	if cfg.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(cfg.Username, cfg.Password))
	}

	return elastic.NewClient(opts...)
}

func (i index) GetClient() *elastic.Client {
	return i.client
}

// InstallMappings creates one index per mapping file in dir. The index is
// named after the file.
func (i index) InstallMappings(dir string) error {
	zap.L().Info("ElasticSearch: Install Mappings")

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("elastic mappings directory: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return fmt.Errorf("elastic mappings file %s: %w", f.Name(), err)
		}

		name := Indices(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())))
		if err = i.createIndex(name.Get(), b); err != nil {
			zap.L().With(zap.Error(err), zap.String("index", name.Get())).Error("ElasticSearch: Failed to create index")
			return err
		}
	}

	return nil
}

func (i index) createIndex(index string, mapping []byte) error {
	ctx := context.Background()

	exists, err := i.client.IndexExists(index).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	createIndex, err := i.client.CreateIndex(index).BodyString(string(mapping)).Do(ctx)
	if err != nil {
		return err
	}
	if createIndex.Acknowledged {
		zap.S().Infof("ElasticSearch: Created index %s", index)
	}

	return nil
}

func (i index) AddIndexRequest(index string, entity entity.Entity, reqAction RequestAction) {
	zap.L().With(
		zap.String("index", index),
		zap.String("slug", entity.Slug()),
		zap.String("action", string(reqAction)),
	).Debug("ElasticSearch: AddIndexRequest")

	i.cache.Set(entity.Slug(), Request{index, entity, IndexRequest, reqAction}, cache.NoExpiration)
}

func (i index) HasRequest(entity entity.Entity) bool {
	_, found := i.cache.Get(entity.Slug())

	return found
}

func (i index) GetEntitiesByIndex(index string) []entity.Entity {
	entities := make([]entity.Entity, 0)
	for _, req := range i.GetRequests() {
		if req.Index == index {
			entities = append(entities, req.Entity)
		}
	}

	return entities
}

func (i index) GetRequests() []Request {
	requests := make([]Request, 0)

	for _, item := range i.cache.Items() {
		requests = append(requests, item.Object.(Request))
	}

	return requests
}

func (i index) GetRequest(id string) *Request {
	if item, found := i.cache.Get(id); found {
		req := item.(Request)
		return &req
	}

	return nil
}

func (i index) ClearRequests() {
	i.cache.Flush()
}

func (i index) BatchPersist() bool {
	if i.cache.ItemCount() < batchPersistThreshold {
		return false
	}

	actions := i.cache.ItemCount()
	start := time.Now()
	i.Persist()

	zap.L().With(
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("actions", actions),
	).Info("ElasticSearch: Persisting data")

	return true
}

// Persist bulk indexes every buffered request. Requests that could not be
// stored stay buffered for the next call. It returns the number persisted.
func (i index) Persist() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	persisted := 0
	bulk := i.client.Bulk()
	pending := make([]Request, 0)
	for _, r := range i.GetRequests() {
		bulk.Add(elastic.NewBulkIndexRequest().Index(r.Index).Id(r.Entity.Slug()).Doc(r.Entity))
		pending = append(pending, r)

		if bulk.NumberOfActions() >= i.bulkPersistCount {
			persisted += i.persist(bulk, pending)
			bulk = i.client.Bulk()
			pending = make([]Request, 0)
		}
	}

	if bulk.NumberOfActions() != 0 {
		persisted += i.persist(bulk, pending)
	}

	return persisted
}

func (i index) persist(bulk *elastic.BulkService, requests []Request) int {
	zap.S().Debugf("ElasticSearch: Persisting %d actions", bulk.NumberOfActions())

	response, err := bulk.Refresh(i.refresh).Do(context.Background())
	if err != nil {
		zap.L().With(zap.Error(err), zap.Int("actions", len(requests))).Error("ElasticSearch: Failed to persist requests")
		return 0
	}

	failed := make(map[string]bool)
	for _, item := range response.Failed() {
		zap.L().With(
			zap.Any("error", item.Error),
			zap.String("index", item.Index),
			zap.String("id", item.Id),
		).Error("ElasticSearch: Failed to persist request")
		failed[item.Id] = true
	}

	persisted := 0
	for _, r := range requests {
		if failed[r.Entity.Slug()] {
			continue
		}
		i.cache.Delete(r.Entity.Slug())
		persisted++
	}

	return persisted
}
