package signature

import (
	"crypto/ecdsa"
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"math/big"
	"strings"
	"sync"
)

const Length = crypto.SignatureLength

// Recoverer returns the address that produced sig over digest.
type Recoverer interface {
	Recover(digest common.Hash, sig []byte) (common.Address, error)
}

type secp256k1 struct{}

// NewSecp256k1 recovers 65 byte [R || S || V] signatures where V is either
// 0/1 or 27/28. High-S signatures are rejected.
func NewSecp256k1() Recoverer {
	return secp256k1{}
}

func (secp256k1) Recover(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != Length {
		return common.Address{}, fmt.Errorf("%w: length %d", entity.ErrInvalidSignature, len(sig))
	}

	normalized := make([]byte, Length)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if !crypto.ValidateSignatureValues(normalized[64], r, s, true) {
		return common.Address{}, fmt.Errorf("%w: malformed values", entity.ErrInvalidSignature)
	}

	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s", entity.ErrInvalidSignature, err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// Authority accepts signatures made by the configured backend signer.
type Authority struct {
	mu        sync.RWMutex
	recoverer Recoverer
	signer    common.Address
}

func NewAuthority(recoverer Recoverer, signer common.Address) *Authority {
	if recoverer == nil {
		recoverer = NewSecp256k1()
	}

	return &Authority{recoverer: recoverer, signer: signer}
}

func (a *Authority) Signer() common.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.signer
}

func (a *Authority) SetSigner(signer common.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()

	zap.L().With(zap.String("signer", signer.Hex())).Info("Authority: Backend signer changed")
	a.signer = signer
}

func (a *Authority) Verify(digest common.Hash, sig []byte) error {
	recovered, err := a.recoverer.Recover(digest, sig)
	if err != nil {
		return err
	}
	if recovered != a.Signer() {
		zap.L().With(
			zap.String("recovered", recovered.Hex()),
			zap.String("digest", digest.Hex()),
		).Debug("Authority: Signature from unexpected signer")
		return entity.ErrBadSignature
	}

	return nil
}

// Signer produces signatures the way the backend service does, with V set to
// 27 or 28.
type Signer struct {
	key *ecdsa.PrivateKey
}

func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

func NewSignerFromHex(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}

	return NewSigner(key), nil
}

func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *Signer) Sign(digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27

	return sig, nil
}

func Encode(sig []byte) string {
	return hexutil.Encode(sig)
}

func Decode(s string) ([]byte, error) {
	sig, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidSignature, err)
	}

	return sig, nil
}
