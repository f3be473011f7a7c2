package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"strings"
)

const (
	jsonrpcVersion = "2.0"
)

type rpcRequest struct {
	JsonRpc string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	Id      json.RawMessage `json:"id,omitempty"`
}

type rpcResponse struct {
	JsonRpc string          `json:"jsonrpc"`
	Id      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCErrorCode represents an error code to be used as a part of an RPCError
// which is in turn used in a JSON-RPC Response object.
type RPCErrorCode int

const (
	ParseErrorCode     RPCErrorCode = -32700
	InvalidRequestCode RPCErrorCode = -32600
	MethodNotFoundCode RPCErrorCode = -32601
	InvalidParamsCode  RPCErrorCode = -32602
	InternalErrorCode  RPCErrorCode = -32603

	AuthorizationErrorCode RPCErrorCode = -32001
	SignatureErrorCode     RPCErrorCode = -32002
	ReplayErrorCode        RPCErrorCode = -32003
	StateErrorCode         RPCErrorCode = -32004
	BudgetErrorCode        RPCErrorCode = -32005
	PausedErrorCode        RPCErrorCode = -32006
	InvalidOrderCode       RPCErrorCode = -32007
)

var classCodes = map[entity.ErrorClassType]RPCErrorCode{
	entity.AuthorizationError: AuthorizationErrorCode,
	entity.SignatureError:     SignatureErrorCode,
	entity.ReplayError:        ReplayErrorCode,
	entity.StateError:         StateErrorCode,
	entity.BudgetError:        BudgetErrorCode,
	entity.PausedError:        PausedErrorCode,
	entity.InvalidError:       InvalidOrderCode,
}

// RPCError represents an error that is used as a part of a JSON-RPC Response
// object.
type RPCError struct {
	Code    RPCErrorCode          `json:"code"`
	Message string                `json:"message"`
	Class   entity.ErrorClassType `json:"class,omitempty"`
}

var _, _ error = RPCError{}, (*RPCError)(nil)

func (e RPCError) Error() string {
	return fmt.Sprintf("%d:%s", e.Code, e.Message)
}

var errTaxonomy = func() map[string]error {
	m := make(map[string]error)
	for _, err := range []error{
		entity.ErrUnauthorized, entity.ErrNotNftOwner, entity.ErrNotOwner, entity.ErrLockNotAccessible,
		entity.ErrBadSignature, entity.ErrInvalidSignature,
		entity.ErrAlreadyUsed, entity.ErrOrderExpired,
		entity.ErrAlreadyListed, entity.ErrNoListing, entity.ErrNotApproved, entity.ErrAlreadyMinted,
		entity.ErrNftNotFound, entity.ErrAssetLocked, entity.ErrCollectionUnavailable,
		entity.ErrUnknownCollection, entity.ErrUnknownToken, entity.ErrSameParents,
		entity.ErrNotEnoughSkills, entity.ErrInsufficientPayment, entity.ErrInsufficientBalance,
		entity.ErrInsufficientAllowance, entity.ErrPaused,
		entity.ErrInvalidOrder, entity.ErrInvalidAmount, entity.ErrNoFeeWallets, entity.ErrUnexpectedValue,
		entity.ErrEmptyBatch,
	} {
		m[err.Error()] = err
	}
	return m
}()

// Unwrap returns the domain sentinel the error was built from, so clients can
// match with errors.Is.
func (e RPCError) Unwrap() error {
	for msg, err := range errTaxonomy {
		if e.Message == msg || strings.HasPrefix(e.Message, msg+":") {
			return err
		}
	}
	return nil
}

func newError(code RPCErrorCode, err error) *RPCError {
	return &RPCError{Code: code, Message: err.Error()}
}

// toRPCError maps a domain error to its JSON-RPC code by error class.
func toRPCError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	class := entity.ErrorClass(err)
	code, ok := classCodes[class]
	if !ok {
		return &RPCError{Code: InternalErrorCode, Message: err.Error(), Class: entity.UnknownError}
	}

	return &RPCError{Code: code, Message: err.Error(), Class: class}
}
