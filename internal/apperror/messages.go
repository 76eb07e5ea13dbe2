package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Price source errors
	CodePriceFetchFailed:   "Failed to fetch token prices",
	CodePriceSourceDown:    "Price source is unavailable",
	CodeTokenNotSupported:  "Token is not supported",
	CodeStalePriceData:     "Price data is stale",
	CodeInvalidPriceQuote:  "Invalid price quote",
	CodeExchangeRateFailed: "Failed to resolve exchange rate",

	// Opportunity lifecycle errors
	CodeOpportunityNotFound:   "Opportunity not found",
	CodeNotPendingApproval:    "Opportunity is not pending approval",
	CodeInvalidTransition:     "Invalid lifecycle transition",
	CodeOpportunityTerminal:   "Opportunity is in a terminal state",
	CodeApprovalWindowExpired: "Approval window has expired",

	// Risk evaluation errors
	CodeRiskEvaluationFailed: "Risk evaluation failed",
	CodeInvalidTradeSize:     "Invalid trade size",

	// Execution errors
	CodeExecutionFailed:     "Trade execution failed",
	CodeInsufficientBalance: "Insufficient balance",
	CodeWalletNotConfigured: "Wallet is not configured",
	CodeTransactionFailed:   "Transaction failed",

	// Controller/settings errors
	CodeAgentsAlreadyRunning: "Agents are already running",
	CodeAgentsNotRunning:     "Agents are not running",
	CodeInvalidSettings:      "Invalid settings",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
