// Package registry holds the router's intent handlers and detection plugins.
// One Registry is constructed at startup and passed by reference to the
// orchestrator; it is safe for concurrent use.
package registry

import (
	"context"
	"sort"
	"sync"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

// Registry is an ordered collection of handlers and plugins. Handlers are
// resolved per intent in strictly descending priority, ties broken by
// registration order.
type Registry struct {
	l log.Logger

	mu          sync.RWMutex
	handlers    []chat.IntentHandler // registration order
	plugins     []chat.DetectionPlugin
	initialized bool
}

// New creates an empty registry.
func New(l log.Logger) *Registry {
	return &Registry{l: l}
}

// Register inserts a handler, replacing any handler with the same id in place.
// Replacement keeps the original registration position.
func (r *Registry) Register(handler chat.IntentHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.handlers {
		if existing.ID() == handler.ID() {
			r.l.Warnf(context.Background(), "registry: replacing handler %q", handler.ID())
			r.handlers[i] = handler
			return
		}
	}
	r.handlers = append(r.handlers, handler)
}

// Unregister removes a handler by id. No-op if absent.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.handlers {
		if existing.ID() == id {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return
		}
	}
}

// GetHandlers returns handlers supporting the intent, sorted by priority
// descending with registration order breaking ties.
func (r *Registry) GetHandlers(intent chat.Intent) []chat.IntentHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []chat.IntentHandler
	for _, h := range r.handlers {
		if supportsIntent(h, intent) {
			matched = append(matched, h)
		}
	}
	sortByPriority(matched)
	return matched
}

// GetAllHandlers returns every registered handler in dispatch order.
func (r *Registry) GetAllHandlers() []chat.IntentHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]chat.IntentHandler, len(r.handlers))
	copy(all, r.handlers)
	sortByPriority(all)
	return all
}

// RegisterPlugin inserts a detection plugin, replacing by id like Register.
func (r *Registry) RegisterPlugin(plugin chat.DetectionPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.plugins {
		if existing.ID() == plugin.ID() {
			r.l.Warnf(context.Background(), "registry: replacing plugin %q", plugin.ID())
			r.plugins[i] = plugin
			return
		}
	}
	r.plugins = append(r.plugins, plugin)
}

// UnregisterPlugin removes a plugin by id. No-op if absent.
func (r *Registry) UnregisterPlugin(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.plugins {
		if existing.ID() == id {
			r.plugins = append(r.plugins[:i], r.plugins[i+1:]...)
			return
		}
	}
}

// Plugins returns registered plugins in registration order.
func (r *Registry) Plugins() []chat.DetectionPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chat.DetectionPlugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// GetDetectionHints concatenates hints from all plugins in registration order.
func (r *Registry) GetDetectionHints() []chat.DetectionHint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hints []chat.DetectionHint
	for _, p := range r.plugins {
		hints = append(hints, p.Hints()...)
	}
	return hints
}

// Bootstrap runs setup exactly once. Repeat calls are no-ops, so wiring code
// may call it defensively at startup without duplicate registrations.
func (r *Registry) Bootstrap(setup func(*Registry)) {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return
	}
	r.initialized = true
	r.mu.Unlock()

	setup(r)
}

// supportsIntent reports whether the handler serves the intent. An empty
// supported set means the handler serves every intent, including
// plugin-contributed ones.
func supportsIntent(h chat.IntentHandler, intent chat.Intent) bool {
	supported := h.Intents()
	if len(supported) == 0 {
		return true
	}
	for _, s := range supported {
		if s == intent {
			return true
		}
	}
	return false
}

// sortByPriority sorts descending by priority; the sort is stable so equal
// priorities keep registration order.
func sortByPriority(handlers []chat.IntentHandler) {
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority() > handlers[j].Priority()
	})
}
