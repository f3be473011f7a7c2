package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/config"
	"github.com/ZilDuck/lazy-marketplace/internal/container"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/marketplace"
	"github.com/ZilDuck/lazy-marketplace/internal/messenger"
	"github.com/ZilDuck/lazy-marketplace/internal/order"
	"github.com/ZilDuck/lazy-marketplace/internal/rpc"
	"github.com/ZilDuck/lazy-marketplace/internal/signature"
	"github.com/ZilDuck/lazy-marketplace/internal/typeddata"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"math/big"
	"os"
	"os/signal"
)

var (
	c   *container.Container
	cfg *config.Config
)

var ErrMissingKey = errors.New("BACKEND_SIGNER_KEY is not configured")

type signed struct {
	Digest    common.Hash   `json:"digest"`
	Signature hexutil.Bytes `json:"signature"`
	Signer    string        `json:"signer"`
}

func main() {
	config.Init()
	cfg = config.Get()

	var err error
	if c, err = container.NewContainer(); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	orderFlag := &cli.StringFlag{Name: "order", Required: true, Usage: "order as JSON"}
	fromFlag := &cli.StringFlag{Name: "from", Required: true, Usage: "sender address"}
	collectionFlag := &cli.StringFlag{Name: "collection", Required: true, Usage: "collection address"}
	tokenFlag := &cli.Uint64Flag{Name: "token-id", Required: true}

	app := &cli.App{
		Name:  "marketplace",
		Usage: "sign orders as the backend and drive the marketplace daemon",
		Commands: []*cli.Command{
			{
				Name:   "sign-buy-item",
				Usage:  "sign a BuyItem order for the marketplace domain",
				Flags:  []cli.Flag{orderFlag},
				Action: signBuyItem,
			},
			{
				Name:   "sign-in-game",
				Usage:  "sign a BuyInGameAsset order for the marketplace domain",
				Flags:  []cli.Flag{orderFlag},
				Action: signInGame,
			},
			{
				Name:   "sign-update",
				Usage:  "sign an Update order for the staff domain",
				Flags:  []cli.Flag{orderFlag},
				Action: signUpdate,
			},
			{
				Name:   "sign-breed",
				Usage:  "sign a Breed order for the staff domain",
				Flags:  []cli.Flag{orderFlag},
				Action: signBreed,
			},
			{
				Name:   "list",
				Usage:  "list an asset on the marketplace",
				Flags:  []cli.Flag{fromFlag, collectionFlag, tokenFlag},
				Action: list,
			},
			{
				Name:  "buy",
				Usage: "buy a listed asset with a signed order",
				Flags: []cli.Flag{
					fromFlag,
					orderFlag,
					&cli.StringFlag{Name: "value", Value: "0", Usage: "native value attached, decimal or 0x hex"},
				},
				Action: buy,
			},
			{
				Name:   "listing",
				Usage:  "show the listing of an asset",
				Flags:  []cli.Flag{collectionFlag, tokenFlag},
				Action: listing,
			},
			{
				Name:   "watch",
				Usage:  "print settlement notifications from the queue",
				Action: watch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Command failed")
	}
}

func marketplaceDomain() typeddata.Domain {
	return typeddata.Domain{
		Name:              cfg.Marketplace.DomainName,
		Version:           cfg.Marketplace.DomainVersion,
		ChainID:           new(big.Int).SetUint64(cfg.ChainID),
		VerifyingContract: common.HexToAddress(cfg.Marketplace.Address),
	}
}

func staffDomain() typeddata.Domain {
	return typeddata.Domain{
		Name:              cfg.Staff.DomainName,
		Version:           cfg.Staff.DomainVersion,
		ChainID:           new(big.Int).SetUint64(cfg.ChainID),
		VerifyingContract: common.HexToAddress(cfg.Staff.Address),
	}
}

func signDigest(digest common.Hash, err error) error {
	if err != nil {
		return err
	}
	if cfg.BackendSignerKey == "" {
		return ErrMissingKey
	}

	signer, err := signature.NewSignerFromHex(cfg.BackendSignerKey)
	if err != nil {
		return err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return err
	}

	return printJson(signed{Digest: digest, Signature: sig, Signer: signer.Address().Hex()})
}

func signBuyItem(ctx *cli.Context) error {
	var o order.BuyItem
	if err := decodeFlag(ctx, "order", &o); err != nil {
		return err
	}
	return signDigest(o.Digest(marketplaceDomain()))
}

func signInGame(ctx *cli.Context) error {
	var o order.BuyInGameAsset
	if err := decodeFlag(ctx, "order", &o); err != nil {
		return err
	}
	return signDigest(o.Digest(marketplaceDomain()))
}

func signUpdate(ctx *cli.Context) error {
	var o order.Update
	if err := decodeFlag(ctx, "order", &o); err != nil {
		return err
	}
	return signDigest(o.Digest(staffDomain()))
}

func signBreed(ctx *cli.Context) error {
	var o order.Breed
	if err := decodeFlag(ctx, "order", &o); err != nil {
		return err
	}
	return signDigest(o.Digest(staffDomain()))
}

func list(ctx *cli.Context) error {
	receipt, err := c.GetRpcClient().ListItem(ctx.Context, rpc.ListParams{
		From:       common.HexToAddress(ctx.String("from")),
		Collection: common.HexToAddress(ctx.String("collection")),
		TokenId:    ctx.Uint64("token-id"),
	})
	if err != nil {
		return err
	}
	return printJson(receipt)
}

func buy(ctx *cli.Context) error {
	var req marketplace.BuyItemRequest
	if err := decodeFlag(ctx, "order", &req); err != nil {
		return err
	}

	value, ok := math.ParseBig256(ctx.String("value"))
	if !ok {
		return fmt.Errorf("invalid value %q", ctx.String("value"))
	}

	receipt, err := c.GetRpcClient().BuyItem(ctx.Context, rpc.BuyItemParams{
		From:  common.HexToAddress(ctx.String("from")),
		Value: (*math.HexOrDecimal256)(value),
		Order: req,
	})
	if err != nil {
		return err
	}
	return printJson(receipt)
}

func listing(ctx *cli.Context) error {
	l, err := c.GetRpcClient().GetListing(ctx.Context, rpc.ListingParams{
		Collection: common.HexToAddress(ctx.String("collection")),
		TokenId:    ctx.Uint64("token-id"),
	})
	if errors.Is(err, entity.ErrNoListing) {
		fmt.Println("not listed")
		return nil
	}
	if err != nil {
		return err
	}
	return printJson(l)
}

func watch(ctx *cli.Context) error {
	pollCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
	defer stop()

	service := c.GetMessenger()
	messages := make(chan *sqs.Message, 10)
	go service.PollMessages(pollCtx, messenger.Settlement, messages)

	for message := range messages {
		var n messenger.Notification
		if err := json.Unmarshal([]byte(*message.Body), &n); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to read message")
		} else {
			fmt.Printf("%s %s %s\n", n.Type, n.Slug, string(n.Event))
		}

		if err := service.DeleteMessage(messenger.Settlement, message); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to delete message")
		}
	}

	return nil
}

func decodeFlag(ctx *cli.Context, name string, v interface{}) error {
	if err := json.Unmarshal([]byte(ctx.String(name)), v); err != nil {
		return fmt.Errorf("--%s: %w", name, err)
	}
	return nil
}

func printJson(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
