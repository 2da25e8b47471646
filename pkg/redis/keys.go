package redis

import (
	"fmt"
	"sync"
)

// Keys follow prefix:entity:id

var (
	keyPrefix   = "gptading"
	keyPrefixMu sync.RWMutex
)

// InitKeys sets the prefix used for every key and channel
func InitKeys(prefix string) {
	if prefix == "" {
		return
	}
	keyPrefixMu.Lock()
	keyPrefix = prefix
	keyPrefixMu.Unlock()
}

func prefixed(format string, args ...interface{}) string {
	keyPrefixMu.RLock()
	p := keyPrefix
	keyPrefixMu.RUnlock()
	return p + ":" + fmt.Sprintf(format, args...)
}

// SessionKey holds the JSON session state
func SessionKey(sessionID string) string {
	return prefixed("session:%s", sessionID)
}

// SessionLockKey guards read-modify-write of one session
func SessionLockKey(sessionID string) string {
	return prefixed("session_lock:%s", sessionID)
}

// RateLimitKey counts requests of identifier within the current window
func RateLimitKey(identifier, action string) string {
	return prefixed("rate_limit:%s:%s", action, identifier)
}

// SessionChannel carries WebSocket events for one session
func SessionChannel(sessionID string) string {
	return prefixed("channel:session:%s", sessionID)
}
