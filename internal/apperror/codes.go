package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Domain-specific error codes
const (
	// Price source errors
	CodePriceFetchFailed   Code = "PRICE_FETCH_FAILED"
	CodePriceSourceDown    Code = "PRICE_SOURCE_DOWN"
	CodeTokenNotSupported  Code = "TOKEN_NOT_SUPPORTED"
	CodeStalePriceData     Code = "STALE_PRICE_DATA"
	CodeInvalidPriceQuote  Code = "INVALID_PRICE_QUOTE"
	CodeExchangeRateFailed Code = "EXCHANGE_RATE_FAILED"

	// Opportunity lifecycle errors
	CodeOpportunityNotFound   Code = "OPPORTUNITY_NOT_FOUND"
	CodeNotPendingApproval    Code = "NOT_PENDING_APPROVAL"
	CodeInvalidTransition     Code = "INVALID_TRANSITION"
	CodeOpportunityTerminal   Code = "OPPORTUNITY_TERMINAL"
	CodeApprovalWindowExpired Code = "APPROVAL_WINDOW_EXPIRED"

	// Risk evaluation errors
	CodeRiskEvaluationFailed Code = "RISK_EVALUATION_FAILED"
	CodeInvalidTradeSize     Code = "INVALID_TRADE_SIZE"

	// Execution errors
	CodeExecutionFailed     Code = "EXECUTION_FAILED"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeWalletNotConfigured Code = "WALLET_NOT_CONFIGURED"
	CodeTransactionFailed   Code = "TRANSACTION_FAILED"

	// Controller/settings errors
	CodeAgentsAlreadyRunning Code = "AGENTS_ALREADY_RUNNING"
	CodeAgentsNotRunning     Code = "AGENTS_NOT_RUNNING"
	CodeInvalidSettings      Code = "INVALID_SETTINGS"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
