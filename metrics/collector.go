// Package metrics provides per-store operation counters.
//
// The Collector accumulates counters for the lifetime of a single store. It is
// a leaf package with no internal dependencies; operation names are plain
// strings so the submission package can record without an import cycle.
package metrics

import "sync"

// Operation names recorded by the store.
const (
	OpFetch  = "fetch"
	OpSave   = "save"
	OpDelete = "delete"
)

// OpCounts holds the counters for one operation.
type OpCounts struct {
	Started   int64 `json:"started" yaml:"started"`
	Succeeded int64 `json:"succeeded" yaml:"succeeded"`
	Failed    int64 `json:"failed" yaml:"failed"`
}

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	Operations map[string]OpCounts `json:"operations" yaml:"operations"`

	// Dispatches counts every action that went through the reducer.
	Dispatches    int64 `json:"dispatches" yaml:"dispatches"`
	Resets        int64 `json:"resets" yaml:"resets"`
	ErrorsCleared int64 `json:"errors_cleared" yaml:"errors_cleared"`

	// Adapter publishing
	PublishSuccess int64 `json:"publish_success" yaml:"publish_success"`
	PublishFailure int64 `json:"publish_failure" yaml:"publish_failure"`

	// Dimensions (informational, set at construction)
	StoreID string `json:"store_id" yaml:"store_id"`
	Adapter string `json:"adapter,omitempty" yaml:"adapter,omitempty"`
}

// Total sums one counter across all operations.
func (s Snapshot) Total(pick func(OpCounts) int64) int64 {
	var n int64
	for _, c := range s.Operations {
		n += pick(c)
	}
	return n
}

// Collector accumulates counters during the lifetime of a store.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	ops map[string]*OpCounts

	dispatches    int64
	resets        int64
	errorsCleared int64

	publishSuccess int64
	publishFailure int64

	storeID string
	adapter string
}

// NewCollector creates a Collector with dimension labels.
// adapter is optional and names the downstream publisher ("webhook", "redis").
func NewCollector(storeID, adapter string) *Collector {
	return &Collector{
		ops:     make(map[string]*OpCounts),
		storeID: storeID,
		adapter: adapter,
	}
}

// op returns the counter set for name. Caller holds c.mu.
func (c *Collector) op(name string) *OpCounts {
	oc, ok := c.ops[name]
	if !ok {
		oc = &OpCounts{}
		c.ops[name] = oc
	}
	return oc
}

// --- Operations ---

// IncStarted records the start of an operation.
func (c *Collector) IncStarted(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.op(op).Started++
	c.mu.Unlock()
}

// IncSucceeded records a successful operation.
func (c *Collector) IncSucceeded(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.op(op).Succeeded++
	c.mu.Unlock()
}

// IncFailed records a failed operation.
func (c *Collector) IncFailed(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.op(op).Failed++
	c.mu.Unlock()
}

// --- Reducer ---

// IncDispatch records one reducer dispatch.
func (c *Collector) IncDispatch() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.dispatches++
	c.mu.Unlock()
}

// IncReset records a full state reset.
func (c *Collector) IncReset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.resets++
	c.mu.Unlock()
}

// IncErrorCleared records an explicit error clear.
func (c *Collector) IncErrorCleared() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.errorsCleared++
	c.mu.Unlock()
}

// --- Adapter ---

// IncPublishSuccess records a delivered adapter event.
func (c *Collector) IncPublishSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.publishSuccess++
	c.mu.Unlock()
}

// IncPublishFailure records an adapter event that could not be delivered.
func (c *Collector) IncPublishFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.publishFailure++
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all counters.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ops := make(map[string]OpCounts, len(c.ops))
	for name, oc := range c.ops {
		ops[name] = *oc
	}

	return Snapshot{
		Operations:     ops,
		Dispatches:     c.dispatches,
		Resets:         c.resets,
		ErrorsCleared:  c.errorsCleared,
		PublishSuccess: c.publishSuccess,
		PublishFailure: c.publishFailure,
		StoreID:        c.storeID,
		Adapter:        c.adapter,
	}
}
