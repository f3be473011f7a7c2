package entity

import (
	"errors"
)

type ErrorClassType string

const (
	AuthorizationError ErrorClassType = "authorization"
	SignatureError     ErrorClassType = "signature"
	ReplayError        ErrorClassType = "replay"
	StateError         ErrorClassType = "state"
	BudgetError        ErrorClassType = "budget"
	PausedError        ErrorClassType = "paused"
	InvalidError       ErrorClassType = "invalid"
	UnknownError       ErrorClassType = "unknown"
)

// Authorization
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotNftOwner       = errors.New("not nft owner")
	ErrNotOwner          = errors.New("not owner")
	ErrLockNotAccessible = errors.New("lock not accessible")
)

// Signature
var (
	ErrBadSignature     = errors.New("bad signature")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Replay and timing
var (
	ErrAlreadyUsed  = errors.New("nonce already used")
	ErrOrderExpired = errors.New("order expired")
)

// State
var (
	ErrAlreadyListed         = errors.New("already listed")
	ErrNoListing             = errors.New("no listing")
	ErrNotApproved           = errors.New("not approved for custody transfer")
	ErrAlreadyMinted         = errors.New("token already minted")
	ErrNftNotFound           = errors.New("nft not found")
	ErrAssetLocked           = errors.New("nft locked for game")
	ErrCollectionUnavailable = errors.New("collection not available")
	ErrUnknownCollection     = errors.New("unknown collection")
	ErrUnknownToken          = errors.New("unknown token")
	ErrSameParents           = errors.New("parents must differ")
)

// Budget
var (
	ErrNotEnoughSkills       = errors.New("not enough skills")
	ErrInsufficientPayment   = errors.New("insufficient payment")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

var ErrPaused = errors.New("paused")

// Invalid input
var (
	ErrInvalidOrder    = errors.New("invalid order")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNoFeeWallets    = errors.New("no fee wallets configured")
	ErrUnexpectedValue = errors.New("native value attached to a token order")
	ErrEmptyBatch      = errors.New("empty batch")
)

var errorClasses = map[ErrorClassType][]error{
	AuthorizationError: {ErrUnauthorized, ErrNotNftOwner, ErrNotOwner, ErrLockNotAccessible},
	SignatureError:     {ErrBadSignature, ErrInvalidSignature},
	ReplayError:        {ErrAlreadyUsed, ErrOrderExpired},
	StateError: {
		ErrAlreadyListed, ErrNoListing, ErrNotApproved, ErrAlreadyMinted, ErrNftNotFound, ErrAssetLocked,
		ErrCollectionUnavailable, ErrUnknownCollection, ErrUnknownToken, ErrSameParents,
	},
	BudgetError:  {ErrNotEnoughSkills, ErrInsufficientPayment, ErrInsufficientBalance, ErrInsufficientAllowance},
	PausedError:  {ErrPaused},
	InvalidError: {ErrInvalidOrder, ErrInvalidAmount, ErrNoFeeWallets, ErrUnexpectedValue, ErrEmptyBatch},
}

// ErrorClass returns the taxonomy class of err, or UnknownError.
func ErrorClass(err error) ErrorClassType {
	if err == nil {
		return ""
	}
	for class, errs := range errorClasses {
		for _, target := range errs {
			if errors.Is(err, target) {
				return class
			}
		}
	}

	return UnknownError
}
