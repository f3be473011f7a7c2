package di

import (
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/access"
	"github.com/ZilDuck/lazy-marketplace/internal/asset"
	"github.com/ZilDuck/lazy-marketplace/internal/config"
	"github.com/ZilDuck/lazy-marketplace/internal/daemon"
	"github.com/ZilDuck/lazy-marketplace/internal/elastic_search"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ZilDuck/lazy-marketplace/internal/indexer"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/marketplace"
	"github.com/ZilDuck/lazy-marketplace/internal/messenger"
	"github.com/ZilDuck/lazy-marketplace/internal/metadata"
	"github.com/ZilDuck/lazy-marketplace/internal/registry"
	"github.com/ZilDuck/lazy-marketplace/internal/repository"
	"github.com/ZilDuck/lazy-marketplace/internal/rpc"
	"github.com/ZilDuck/lazy-marketplace/internal/signature"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
	"math/big"
	"time"
)

var Definitions = []di.Def{
	{
		Name: "config",
		Build: func(ctn di.Container) (interface{}, error) {
			return config.Get(), nil
		},
	},
	{
		Name: "events",
		Build: func(ctn di.Container) (interface{}, error) {
			return event.NewManager(), nil
		},
		Close: func(obj interface{}) error {
			obj.(*event.Manager).Close()
			return nil
		},
	},
	{
		Name: "ledger",
		Build: func(ctn di.Container) (interface{}, error) {
			return ledger.New(time.Now, ctn.Get("events").(*event.Manager)), nil
		},
	},
	{
		Name: "backend.signer",
		Build: func(ctn di.Container) (interface{}, error) {
			return backendSigner(ctn.Get("config").(*config.Config))
		},
	},
	{
		Name: "marketplace",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := ctn.Get("config").(*config.Config)

			params, err := marketplaceParams(cfg, ctn.Get("backend.signer").(common.Address))
			if err != nil {
				return nil, err
			}

			return marketplace.NewEngine(ctn.Get("ledger").(*ledger.Ledger), params, nil), nil
		},
	},
	{
		Name: "staff",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := ctn.Get("config").(*config.Config)
			signer := ctn.Get("backend.signer").(common.Address)

			params, err := staffParams(cfg, signer)
			if err != nil {
				return nil, err
			}

			staff, err := registry.New(ctn.Get("ledger").(*ledger.Ledger), params, nil)
			if err != nil {
				return nil, err
			}

			// the admin mints, the game backend locks assets in play
			if _, err := staff.GrantRole(params.Admin, access.MinterRole, params.Admin); err != nil {
				return nil, err
			}
			if _, err := staff.GrantRole(params.Admin, access.LockerRole, signer); err != nil {
				return nil, err
			}

			return staff, nil
		},
	},
	{
		Name: "elastic",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := ctn.Get("config").(*config.Config)

			return elastic_search.New(cfg.ElasticSearch, cfg.Aws)
		},
	},
	{
		Name: "indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			return indexer.NewEventIndexer(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "sqs",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewSqsClient(ctn.Get("config").(*config.Config).Aws)
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewMessenger(ctn.Get("sqs").(sqsiface.SQSAPI), map[messenger.Item]string{
				messenger.Settlement: ctn.Get("config").(*config.Config).Aws.QueueUrl,
			}), nil
		},
	},
	{
		Name: "publisher",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewPublisher(ctn.Get("messenger").(messenger.MessageService), messenger.Settlement), nil
		},
	},
	{
		Name: "metadata",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := ctn.Get("config").(*config.Config)
			client := metadata.NewClient(cfg.MetadataRetries, time.Duration(cfg.IpfsTimeout)*time.Second)

			return metadata.NewMetadataService(client, cfg.IpfsHosts), nil
		},
	},
	{
		Name: "rpc.server",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := ctn.Get("config").(*config.Config)
			staff := ctn.Get("staff").(*registry.Registry)
			assets := asset.NewServer(staff, ctn.Get("metadata").(metadata.Service))

			server := rpc.NewServer(
				ctn.Get("marketplace").(*marketplace.Engine),
				staff,
				ctn.Get("ledger").(*ledger.Ledger),
				assets,
				cfg.IsDev(),
			)
			if len(cfg.ElasticSearch.Hosts) != 0 {
				server.WithHistory(ctn.Get("repository.event").(repository.EventRepository))
			}

			return server, nil
		},
	},
	{
		Name: "repository.event",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewEventRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "rpc.client",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := ctn.Get("config").(*config.Config)

			return rpc.NewClient(cfg.Rpc.Url, cfg.Rpc.Timeout, cfg.Rpc.Debug)
		},
	},
	{
		Name: "daemon",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := ctn.Get("config").(*config.Config)

			var eventIndexer indexer.EventIndexer
			if len(cfg.ElasticSearch.Hosts) != 0 {
				eventIndexer = ctn.Get("indexer").(indexer.EventIndexer)
			} else {
				zap.L().Info("Daemon: Elasticsearch indexing disabled")
			}

			var publisher *messenger.Publisher
			if cfg.Aws.QueueUrl != "" {
				publisher = ctn.Get("publisher").(*messenger.Publisher)
			} else {
				zap.L().Info("Daemon: Settlement notifications disabled")
			}

			return daemon.NewDaemon(
				cfg,
				ctn.Get("events").(*event.Manager),
				ctn.Get("rpc.server").(*rpc.Server),
				eventIndexer,
				publisher,
			), nil
		},
	},
}

// backendSigner prefers the address of BACKEND_SIGNER_KEY over BACKEND_SIGNER.
func backendSigner(cfg *config.Config) (common.Address, error) {
	if cfg.BackendSignerKey != "" {
		signer, err := signature.NewSignerFromHex(cfg.BackendSignerKey)
		if err != nil {
			return common.Address{}, fmt.Errorf("backend signer key: %w", err)
		}
		return signer.Address(), nil
	}

	return address("BACKEND_SIGNER", cfg.BackendSigner)
}

func marketplaceParams(cfg *config.Config, signer common.Address) (marketplace.Params, error) {
	owner, err := address("OWNER_ADDRESS", cfg.Owner)
	if err != nil {
		return marketplace.Params{}, err
	}
	market, err := address("MARKETPLACE_ADDRESS", cfg.Marketplace.Address)
	if err != nil {
		return marketplace.Params{}, err
	}
	wallets, err := addresses("FEE_WALLETS", cfg.Marketplace.FeeWallets)
	if err != nil {
		return marketplace.Params{}, err
	}
	collections, err := addresses("AVAILABLE_COLLECTIONS", cfg.Marketplace.Collections)
	if err != nil {
		return marketplace.Params{}, err
	}

	var currency common.Address
	if cfg.Marketplace.Currency != "" {
		if currency, err = address("CURRENCY_ADDRESS", cfg.Marketplace.Currency); err != nil {
			return marketplace.Params{}, err
		}
	}

	return marketplace.Params{
		Address:       market,
		Owner:         owner,
		ChainID:       new(big.Int).SetUint64(cfg.ChainID),
		DomainName:    cfg.Marketplace.DomainName,
		DomainVersion: cfg.Marketplace.DomainVersion,
		BackendSigner: signer,
		Currency:      currency,
		FeeWallets:    wallets,
		Collections:   collections,
	}, nil
}

func staffParams(cfg *config.Config, signer common.Address) (registry.Params, error) {
	admin, err := address("OWNER_ADDRESS", cfg.Owner)
	if err != nil {
		return registry.Params{}, err
	}
	staff, err := address("STAFF_ADDRESS", cfg.Staff.Address)
	if err != nil {
		return registry.Params{}, err
	}
	market, err := address("MARKETPLACE_ADDRESS", cfg.Marketplace.Address)
	if err != nil {
		return registry.Params{}, err
	}

	return registry.Params{
		Address:       staff,
		Admin:         admin,
		ChainID:       new(big.Int).SetUint64(cfg.ChainID),
		DomainName:    cfg.Staff.DomainName,
		DomainVersion: cfg.Staff.DomainVersion,
		BackendSigner: signer,
		BaseURI:       cfg.Staff.BaseURI,
		Custodians:    []common.Address{market},
	}, nil
}

func address(key, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", key, value)
	}

	return common.HexToAddress(value), nil
}

func addresses(key string, values []string) ([]common.Address, error) {
	list := make([]common.Address, 0, len(values))
	for _, v := range values {
		addr, err := address(key, v)
		if err != nil {
			return nil, err
		}
		list = append(list, addr)
	}

	return list, nil
}
