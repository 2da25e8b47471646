package util

// Gin context keys set by middleware
const (
	ContextKeySessionID = "session_id"
	ContextKeyRequestID = "request_id"
	// set when the session was started by the current request
	ContextKeySessionNew = "session_new"
)

// SessionCookieName carries the signed session token
const SessionCookieName = "gptading_session"

// App identity reported by /api/status
const (
	AppName    = "GPTading Pro"
	AppVersion = "1.0.0"
)

// Rounding used for every percentage the API returns
const PercentPrecision = 2
