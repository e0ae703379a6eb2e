package chain

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/taxvault/taxvault-api/internal/ledger"
	"github.com/taxvault/taxvault-api/internal/taxerrors"
)

// The contract's revert reasons, verbatim. A revert reason not in this
// table classifies as unknown rather than being guessed at.
var revertReasons = map[string]revertMapping{
	"Tax info already submitted": {kind: taxerrors.KindInvalidState, sentinel: ledger.ErrAlreadySubmitted, message: "a tax record already exists; clear it before submitting again"},
	"No tax info submitted":      {kind: taxerrors.KindInvalidState, sentinel: ledger.ErrNotSubmitted, message: "no tax record exists for this account"},
	"Tax already calculated":     {kind: taxerrors.KindInvalidState, sentinel: ledger.ErrAlreadyCalculated, message: "tax has already been calculated"},
	"Tax not calculated yet":     {kind: taxerrors.KindInvalidState, sentinel: ledger.ErrNotCalculated, message: "tax has not been calculated yet"},
	"Invalid proof":              {kind: taxerrors.KindInvalidInput, sentinel: ledger.ErrEmptyProof, message: "submission proof must not be empty"},
}

type revertMapping struct {
	kind     taxerrors.Kind
	sentinel error
	message  string
}

// EIP-1193/EIP-1474 provider error codes surfaced by wallet-style
// connectors and nodes.
var rpcErrorCodes = map[int]rpcMapping{
	4001:   {kind: taxerrors.KindUserDeclined, message: "request was rejected by the account holder"},
	4900:   {kind: taxerrors.KindConnectivity, message: "connector is disconnected from all chains"},
	4901:   {kind: taxerrors.KindConnectivity, message: "connector is disconnected from the requested chain"},
	-32002: {kind: taxerrors.KindAlreadyPending, message: "a conflicting request is already pending in the connector"},
}

type rpcMapping struct {
	kind    taxerrors.Kind
	message string
}

// Known node error message prefixes that arrive without a typed shape.
// Checked in order; kept here so string inspection happens in exactly one
// place instead of being scattered across call sites.
var nodeMessagePrefixes = []struct {
	prefix  string
	kind    taxerrors.Kind
	message string
}{
	{prefix: "insufficient funds", kind: taxerrors.KindResourceExhausted, message: "account balance cannot cover the transaction cost"},
	{prefix: "replacement transaction underpriced", kind: taxerrors.KindAlreadyPending, message: "a conflicting transaction is already pending"},
	{prefix: "already known", kind: taxerrors.KindAlreadyPending, message: "this transaction is already pending"},
	{prefix: "nonce too low", kind: taxerrors.KindAlreadyPending, message: "a conflicting transaction was already processed"},
}

const executionRevertedPrefix = "execution reverted"

// ClassifyError maps a connector or ledger failure into the error taxonomy.
// This is the single classification boundary: callers never inspect raw
// connector errors themselves.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already classified upstream.
	var classified *taxerrors.Error
	if errors.As(err, &classified) {
		return err
	}

	// Ledger sentinels pass through from the in-process implementation.
	switch {
	case errors.Is(err, ledger.ErrAlreadySubmitted),
		errors.Is(err, ledger.ErrNotSubmitted),
		errors.Is(err, ledger.ErrAlreadyCalculated),
		errors.Is(err, ledger.ErrNotCalculated):
		return taxerrors.Wrap(taxerrors.KindInvalidState, err.Error(), err)
	case errors.Is(err, ledger.ErrEmptyProof):
		return taxerrors.Wrap(taxerrors.KindInvalidInput, err.Error(), err)
	}

	// Declining a pending confirmation surfaces as context cancellation.
	if errors.Is(err, context.Canceled) {
		return taxerrors.Wrap(taxerrors.KindUserDeclined, "operation was cancelled before completion", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return taxerrors.Wrap(taxerrors.KindConnectivity, "chain did not respond in time", err)
	}

	// Typed JSON-RPC errors carry a provider error code.
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if mapping, ok := rpcErrorCodes[rpcErr.ErrorCode()]; ok {
			return taxerrors.Wrap(mapping.kind, mapping.message, err)
		}
		if mapping, ok := classifyNodeMessage(rpcErr.Error()); ok {
			return mapping.toError(err)
		}
	}

	// Network-level failures.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return taxerrors.Wrap(taxerrors.KindConnectivity, "chain endpoint is unreachable", err)
	}

	if mapping, ok := classifyNodeMessage(err.Error()); ok {
		return mapping.toError(err)
	}

	return taxerrors.Wrap(taxerrors.KindUnknown, err.Error(), err)
}

type classification struct {
	kind     taxerrors.Kind
	sentinel error
	message  string
}

func (c classification) toError(cause error) error {
	if c.sentinel != nil {
		cause = errors.Join(c.sentinel, cause)
	}
	return taxerrors.Wrap(c.kind, c.message, cause)
}

// classifyNodeMessage resolves the untyped message shapes a node can
// return: contract reverts with a reason string, and the known prefix set.
func classifyNodeMessage(msg string) (classification, bool) {
	normalized := strings.TrimSpace(msg)

	if idx := strings.Index(normalized, executionRevertedPrefix); idx >= 0 {
		reason := strings.TrimSpace(strings.TrimPrefix(normalized[idx+len(executionRevertedPrefix):], ":"))
		if mapping, ok := revertReasons[reason]; ok {
			return classification{kind: mapping.kind, sentinel: mapping.sentinel, message: mapping.message}, true
		}
		return classification{kind: taxerrors.KindInvalidState, message: "the ledger rejected the call: " + reason}, true
	}

	lowered := strings.ToLower(normalized)
	for _, entry := range nodeMessagePrefixes {
		if strings.HasPrefix(lowered, entry.prefix) {
			return classification{kind: entry.kind, message: entry.message}, true
		}
	}

	return classification{}, false
}
