package spotcheck

import (
	"sync"

	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
)

// Hook function types for check events
type (
	// FindingHook is called once for every finding of a check
	FindingHook func(finding reconcile.Finding)

	// ResultHook is called once a check has completed
	ResultHook func(result *reconcile.Result)
)

// Hooks registers callbacks fired by Check.
type Hooks interface {
	// OnFinding registers a callback for every finding
	OnFinding(FindingHook)

	// OnProblem registers a callback for findings that call for a correction
	OnProblem(FindingHook)

	// OnResult registers a callback for the completed result
	OnResult(ResultHook)
}

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// hooks manages event callbacks for check results
type hooks struct {
	mu        sync.RWMutex
	onFinding []FindingHook
	onProblem []FindingHook
	onResult  []ResultHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnFinding registers a callback for every finding
func (c *client) OnFinding(fn FindingHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFinding = append(c.hooks.onFinding, fn)
}

// OnProblem registers a callback for findings that call for a correction
func (c *client) OnProblem(fn FindingHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onProblem = append(c.hooks.onProblem, fn)
}

// OnResult registers a callback for the completed result
func (c *client) OnResult(fn ResultHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onResult = append(c.hooks.onResult, fn)
}

// trigger fires the registered hooks for result in finding order
func (h *hooks) trigger(result *reconcile.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, f := range result.Findings {
		for _, hook := range h.onFinding {
			hook(f)
		}
		if f.IsProblem() {
			for _, hook := range h.onProblem {
				hook(f)
			}
		}
	}
	for _, hook := range h.onResult {
		hook(result)
	}
}
