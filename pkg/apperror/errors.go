package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that branch on the failure class
// rather than the specific code.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindNotFound          Kind = "NOT_FOUND"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindInvalidState      Kind = "INVALID_STATE"
	KindExternalService   Kind = "EXTERNAL_SERVICE"
	KindInternal          Kind = "INTERNAL"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, kind Kind, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, HTTPStatus: httpStatus}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, kind Kind, message string, httpStatus int, err error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, HTTPStatus: httpStatus, Err: err}
}

// KindOf extracts the Kind from err, or KindInternal for unknown errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ---- Validation (VAL) ----

func Validation(message string) *AppError {
	return New("VAL_001", KindValidation, message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", KindValidation, "Amount must be positive", http.StatusBadRequest)
}

func ErrInvalidAddress(addr string) *AppError {
	return New("VAL_003", KindValidation, fmt.Sprintf("Invalid address: %s", addr), http.StatusBadRequest)
}

func ErrUnsupportedCoin(symbol string) *AppError {
	return New("VAL_004", KindValidation, fmt.Sprintf("Unsupported coin: %s", symbol), http.StatusBadRequest)
}

func ErrInvalidTradeType(t string) *AppError {
	return New("VAL_005", KindValidation, fmt.Sprintf("Invalid trade type: %s", t), http.StatusBadRequest)
}

func ErrInvalidCommission() *AppError {
	return New("VAL_006", KindValidation, "Commission must be between 0 and 10 percent", http.StatusBadRequest)
}

func ErrInvalidRating() *AppError {
	return New("VAL_007", KindValidation, "Rating must be between 1 and 5", http.StatusBadRequest)
}

// ---- Wallet & funds (WAL) ----

func ErrInsufficientFunds(symbol string) *AppError {
	return New("WAL_001", KindInsufficientFunds,
		fmt.Sprintf("Insufficient %s balance", symbol), http.StatusPaymentRequired)
}

func ErrInsufficientGas(symbol string) *AppError {
	return New("WAL_002", KindInsufficientFunds,
		fmt.Sprintf("Insufficient %s for gas", symbol), http.StatusPaymentRequired)
}

func ErrWalletInactive() *AppError {
	return New("WAL_003", KindInvalidState, "Wallet is deactivated", http.StatusConflict)
}

// ---- Escrow state machine (ESC) ----

func ErrNotFound(entity string) *AppError {
	return New("ESC_001", KindNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidState(message string) *AppError {
	return New("ESC_002", KindInvalidState, message, http.StatusConflict)
}

func ErrBuyerAlreadyBound() *AppError {
	return New("ESC_003", KindInvalidState, "Trade already has a buyer", http.StatusConflict)
}

func ErrSelfTrade() *AppError {
	return New("ESC_004", KindValidation, "Seller cannot join their own trade", http.StatusBadRequest)
}

func ErrReleaseAlreadyInitiated() *AppError {
	return New("ESC_005", KindInvalidState, "Crypto release already initiated for this trade", http.StatusConflict)
}

func ErrTradeTerminal() *AppError {
	return New("ESC_006", KindInvalidState, "Trade is in a terminal state", http.StatusConflict)
}

func ErrNotCounterparty() *AppError {
	return New("ESC_007", KindUnauthorized, "Only the seller or buyer may perform this action", http.StatusForbidden)
}

func ErrDuplicateInvoice(invoiceID string) *AppError {
	return New("ESC_008", KindInvalidState,
		fmt.Sprintf("Invoice %s is already attached to another trade", invoiceID), http.StatusConflict)
}

// ---- Broker mediation (BRK) ----

func ErrBrokerNotEligible(reason string) *AppError {
	return New("BRK_001", KindValidation, reason, http.StatusBadRequest)
}

func ErrBrokerIsCounterparty() *AppError {
	return New("BRK_002", KindValidation, "Broker cannot mediate a trade they participate in", http.StatusBadRequest)
}

func ErrBrokerLocked() *AppError {
	return New("BRK_003", KindInvalidState, "Broker assignment is locked after both sides approved", http.StatusConflict)
}

// ---- Authorization (AUTH) ----

func ErrUnauthorized() *AppError {
	return New("AUTH_001", KindUnauthorized, "Not authorized", http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", KindUnauthorized, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAdminOnly() *AppError {
	return New("AUTH_003", KindUnauthorized, "Admin privileges required", http.StatusForbidden)
}

// ---- External services (EXT) ----

// ErrChainUnavailable wraps a chain RPC/explorer failure. Surfaced to end
// users as "try again"; the raw cause stays in logs.
func ErrChainUnavailable(err error) *AppError {
	return Wrap("EXT_001", KindExternalService,
		"Chain service unavailable, try again later", http.StatusServiceUnavailable, err)
}

// ErrBroadcastRejected carries the node's rejection verbatim.
func ErrBroadcastRejected(nodeMsg string) *AppError {
	return New("EXT_002", KindExternalService,
		fmt.Sprintf("Transaction rejected by network: %s", nodeMsg), http.StatusBadGateway)
}

// ---- System (SYS) ----

func InternalError(err error) *AppError {
	return Wrap("SYS_001", KindInternal, "Internal server error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", KindInternal, "Encryption service failure", http.StatusInternalServerError, err)
}
