package typeddata

import (
	"errors"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"math/big"
)

const domainType = "EIP712Domain"

var ErrInvalidDomain = errors.New("invalid typed data domain")

var domainFields = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// Domain separates signatures issued for one verifying entity on one chain
// from every other.
type Domain struct {
	Name              string         `json:"name"`
	Version           string         `json:"version"`
	ChainID           *big.Int       `json:"chainId"`
	VerifyingContract common.Address `json:"verifyingContract"`
}

func (d Domain) typedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           (*math.HexOrDecimal256)(d.ChainID),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
}

func (d Domain) validate() error {
	if d.Name == "" || d.Version == "" || d.ChainID == nil {
		return ErrInvalidDomain
	}
	return nil
}

// Separator is the hashStruct of the domain.
func (d Domain) Separator() (common.Hash, error) {
	if err := d.validate(); err != nil {
		return common.Hash{}, err
	}

	td := apitypes.TypedData{
		Types:  apitypes.Types{domainType: domainFields},
		Domain: d.typedDataDomain(),
	}
	hash, err := td.HashStruct(domainType, td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash domain: %w", err)
	}

	return common.BytesToHash(hash), nil
}

// Digest returns keccak256("\x19\x01" || domainSeparator || hashStruct(message)).
// types holds the primary type and every struct type it references.
func Digest(domain Domain, types apitypes.Types, primaryType string, message apitypes.TypedDataMessage) (common.Hash, error) {
	separator, err := domain.Separator()
	if err != nil {
		return common.Hash{}, err
	}
	if _, ok := types[primaryType]; !ok {
		return common.Hash{}, fmt.Errorf("unknown primary type %q", primaryType)
	}

	all := apitypes.Types{domainType: domainFields}
	for name, fields := range types {
		all[name] = fields
	}

	td := apitypes.TypedData{
		Types:       all,
		PrimaryType: primaryType,
		Domain:      domain.typedDataDomain(),
		Message:     message,
	}
	structHash, err := td.HashStruct(primaryType, message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash %s: %w", primaryType, err)
	}

	raw := make([]byte, 0, 66)
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, separator.Bytes()...)
	raw = append(raw, structHash...)

	return crypto.Keccak256Hash(raw), nil
}
