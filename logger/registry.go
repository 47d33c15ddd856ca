package logger

import "sync"

// Component logger names used across credkit.
const (
	ComponentIdentity = "identity"
	ComponentPassword = "password"
	ComponentJWT      = "jwt"
	ComponentAuth     = "auth"
	ComponentSanitize = "sanitize"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Logger)
)

// Register stores a named component logger.
func Register(name string, l *Logger) {
	registryMu.Lock()
	registry[name] = l
	registryMu.Unlock()
}

// Get returns the logger registered under name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	registryMu.RLock()
	l, ok := registry[name]
	registryMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers component loggers derived from the current
// global logger. Call it after Init.
func RegisterDefaults(names ...string) {
	global := GetGlobalLogger()
	for _, name := range names {
		Register(name, global.WithComponent(name))
	}
}
