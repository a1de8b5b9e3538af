package logger

import (
	"sync"
)

// Component logger names used across wirekit.
const (
	ComponentDI         = "di"
	ComponentBus        = "bus"
	ComponentAppContext = "appcontext"
	ComponentRegistry   = "component"
	ComponentServer     = "server"
)

// DefaultComponents lists the loggers seeded by RegisterDefaults when it is
// called without names.
var DefaultComponents = []string{
	ComponentDI,
	ComponentBus,
	ComponentAppContext,
	ComponentRegistry,
	ComponentServer,
}

var named = struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register stores a named logger.
func Register(name string, l *Logger) {
	named.mu.Lock()
	defer named.mu.Unlock()
	named.loggers[name] = l
}

// Get retrieves a named logger. Unregistered names get the global logger
// tagged with the name as its component.
func Get(name string) *Logger {
	named.mu.RLock()
	l, ok := named.loggers[name]
	named.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults derives component loggers from the current global logger,
// for DefaultComponents when names is empty. Call it after Init so packages
// that fetch their logger with Get pick up the configured output.
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = DefaultComponents
	}
	base := GetGlobalLogger()
	for _, name := range names {
		Register(name, base.WithComponent(name))
	}
}
