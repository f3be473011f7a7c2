package rpc

import (
	"encoding/json"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

func (s *Server) marketplaceMethods() map[string]handler {
	return map[string]handler{
		"marketplace_listItem": func(raw json.RawMessage) (interface{}, error) {
			var p ListParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.engine.ListItem(p.From, p.Collection, p.TokenId)
		},
		"marketplace_listBatch": func(raw json.RawMessage) (interface{}, error) {
			var p ListBatchParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			results, err := s.engine.ListBatch(p.From, p.Collection, p.TokenIds)
			if err != nil {
				return nil, err
			}
			return toBatch(results)
		},
		"marketplace_cancelListing": func(raw json.RawMessage) (interface{}, error) {
			var p ListParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.engine.CancelListing(p.From, p.Collection, p.TokenId)
		},
		"marketplace_batchCancelListing": func(raw json.RawMessage) (interface{}, error) {
			var p ListBatchParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			results, err := s.engine.BatchCancelListing(p.From, p.Collection, p.TokenIds)
			if err != nil {
				return nil, err
			}
			return toBatch(results)
		},
		"marketplace_buyItem": func(raw json.RawMessage) (interface{}, error) {
			var p BuyItemParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.engine.BuyItem(p.From, toBig(p.Value), p.Order)
		},
		"marketplace_batchBuyItem": func(raw json.RawMessage) (interface{}, error) {
			var p BatchBuyItemParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			results, err := s.engine.BatchBuyItem(p.From, toBig(p.Value), p.Orders)
			if err != nil {
				return nil, err
			}
			return toBatch(results)
		},
		"marketplace_buyInGameAsset": func(raw json.RawMessage) (interface{}, error) {
			var p BuyInGameAssetParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.engine.BuyInGameAsset(p.From, toBig(p.Value), p.Order)
		},
		"marketplace_batchBuyInGameAsset": func(raw json.RawMessage) (interface{}, error) {
			var p BatchBuyInGameAssetParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			results, err := s.engine.BatchBuyInGameAsset(p.From, toBig(p.Value), p.Orders)
			if err != nil {
				return nil, err
			}
			return toBatch(results)
		},
		"marketplace_getListing": func(raw json.RawMessage) (interface{}, error) {
			var p ListingParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.engine.Listing(p.Collection, p.TokenId)
		},
		"marketplace_getListings": func(json.RawMessage) (interface{}, error) {
			return s.engine.Listings(), nil
		},
		"marketplace_isNonceUsed": func(raw json.RawMessage) (interface{}, error) {
			var p NonceParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return NonceResult{Used: s.engine.IsNonceUsed(toBig(p.Nonce))}, nil
		},
		"marketplace_getConfig": func(json.RawMessage) (interface{}, error) {
			return s.engine.Config(), nil
		},
	}
}

func (s *Server) staffMethods() map[string]handler {
	return map[string]handler{
		"staff_updateNft": func(raw json.RawMessage) (interface{}, error) {
			var p UpdateParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.registry.Update(p.From, p.Request)
		},
		"staff_breedNft": func(raw json.RawMessage) (interface{}, error) {
			var p BreedParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.registry.Breed(p.From, p.Request)
		},
		"staff_lock": func(raw json.RawMessage) (interface{}, error) {
			var p LockParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.registry.Lock(p.From, p.TokenId)
		},
		"staff_unlock": func(raw json.RawMessage) (interface{}, error) {
			var p LockParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.registry.Unlock(p.From, p.TokenId)
		},
		"staff_isLocked": func(raw json.RawMessage) (interface{}, error) {
			var p TokenParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			locked, err := s.registry.IsLocked(p.TokenId)
			if err != nil {
				return nil, err
			}
			return LockResult{TokenId: p.TokenId, Locked: locked}, nil
		},
		"staff_getAsset": func(raw json.RawMessage) (interface{}, error) {
			var p TokenParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.registry.Asset(p.TokenId)
		},
	}
}

func (s *Server) devMethods() map[string]handler {
	return map[string]handler{
		"ledger_credit": func(raw json.RawMessage) (interface{}, error) {
			var p CreditParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			if err := s.ledger.Credit(p.Address, toBig(p.Amount)); err != nil {
				return nil, err
			}
			return s.balance(p.Address), nil
		},
		"ledger_balance": func(raw json.RawMessage) (interface{}, error) {
			var p BalanceParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.balance(p.Address), nil
		},
		"staff_mint": func(raw json.RawMessage) (interface{}, error) {
			var p MintParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.registry.Mint(p.From, p.To, p.TokenId, p.IpfsHash, p.Skills, p.UnspentSkills)
		},
		"staff_approve": func(raw json.RawMessage) (interface{}, error) {
			var p ApprovalParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return s.registry.SetApprovalForAll(p.From, p.Operator, p.Approved)
		},
	}
}

func (s *Server) balance(addr common.Address) BalanceResult {
	return BalanceResult{Address: addr, Balance: (*math.HexOrDecimal256)(s.ledger.NativeBalance(addr))}
}
