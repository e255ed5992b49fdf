package manager

import (
	"context"
	"sync"
	"time"

	"classifyform/config"
)

const (
	// DefaultKey accounts activations submitted with an empty model name.
	DefaultKey = "default"
	// SerialKey is the single slot every activation shares when activations are serialized.
	SerialKey = "serial"
)

// ModelMetrics holds the activation metrics for a specific model.
type ModelMetrics struct {
	Model                string
	QueueSize            int
	InFlightCount        int
	LastLogTime          time.Time
	queueSizeChanged     bool
	inFlightCountChanged bool
	mu                   sync.Mutex
}

// Stats is a point-in-time copy of a model's metrics.
type Stats struct {
	Queued   int
	InFlight int
}

// ActivationManager limits and accounts in-flight form activations per model.
// A slot size of 0 means unbounded: activations only get counted.
type ActivationManager struct {
	semMap      map[string]chan struct{}
	metricsMap  map[string]*ModelMetrics
	sizes       map[string]int
	mu          sync.Mutex
	defaultSize int
	serialize   bool
	tail        chan struct{} // released when the last serial reservation is done

	monitorInterval time.Duration
	logInterval     time.Duration
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
	wg              sync.WaitGroup
}

// NewActivationManager initializes an ActivationManager with per-model limits
// and a default limit for models that are not configured. With serialize set,
// every activation goes through one shared slot of size 1.
func NewActivationManager(models map[string]config.ModelConfigEntry, defaultSize int, serialize bool) *ActivationManager {
	if defaultSize < 0 {
		log.Warnf("Invalid default limit %d. Activations will be unbounded.", defaultSize)
		defaultSize = 0
	}

	cm := &ActivationManager{
		semMap:          make(map[string]chan struct{}),
		metricsMap:      make(map[string]*ModelMetrics),
		sizes:           make(map[string]int),
		defaultSize:     defaultSize,
		serialize:       serialize,
		monitorInterval: 500 * time.Millisecond, // Check twice every second
		logInterval:     time.Second,
		shutdownCh:      make(chan struct{}),
	}
	cm.tail = make(chan struct{})
	close(cm.tail)

	for name, entry := range models {
		size := entry.Size
		if size < 0 {
			log.Warnf("Model '%s' has invalid size %d. Using default limit %d.", name, entry.Size, defaultSize)
			size = defaultSize
		}
		cm.sizes[name] = size
	}
	// The serial line is ordered by Reserve rather than by a semaphore.
	cm.sizes[SerialKey] = 0

	cm.wg.Add(1)
	go cm.monitorMetrics()

	return cm
}

// Key returns the accounting key used for a model name.
func (cm *ActivationManager) Key(model string) string {
	if cm.serialize {
		return SerialKey
	}
	if model == "" {
		return DefaultKey
	}
	return model
}

// Acquire waits for an activation slot for the given model. The returned
// release func must be called once the activation finishes; calling it more
// than once is harmless. It fails only when ctx is done while waiting.
func (cm *ActivationManager) Acquire(ctx context.Context, model string) (func(), error) {
	return cm.Reserve(model).Wait(ctx)
}

// Reserve takes a place in line for the given model without blocking. When
// activations are serialized, reservations are granted in the order Reserve
// was called, so callers that reserve synchronously keep request order even
// if they wait on different goroutines.
func (cm *ActivationManager) Reserve(model string) *Reservation {
	key := cm.Key(model)
	sem, metrics := cm.entry(key)

	r := &Reservation{sem: sem, metrics: metrics}
	if key == SerialKey {
		cm.mu.Lock()
		r.prev = cm.tail
		r.done = make(chan struct{})
		cm.tail = r.done
		cm.mu.Unlock()
	}

	// Increment queue size
	metrics.incrementQueue()
	return r
}

// Reservation is a place in line obtained from Reserve. Wait must be called
// exactly once.
type Reservation struct {
	sem     chan struct{}
	metrics *ModelMetrics

	// serial line: prev closes when the reservation ahead is released
	prev <-chan struct{}
	done chan struct{}
}

// Wait blocks until the reservation reaches the front of its line or a slot
// frees up, and returns the release func. The release func must be called
// once the activation has finished, output included.
func (r *Reservation) Wait(ctx context.Context) (func(), error) {
	switch {
	case r.prev != nil:
		select {
		case <-r.prev:
		case <-ctx.Done():
			r.metrics.decrementQueue()
			r.abandon()
			return nil, ctx.Err()
		}
	case r.sem != nil:
		select {
		case r.sem <- struct{}{}:
		case <-ctx.Done():
			r.metrics.decrementQueue()
			return nil, ctx.Err()
		}
	}

	r.metrics.incrementInFlight()
	r.metrics.decrementQueue()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.metrics.decrementInFlight()
			if r.sem != nil {
				<-r.sem
			}
			if r.done != nil {
				close(r.done)
			}
		})
	}, nil
}

// abandon hands the serial slot on once the reservation ahead is done, so a
// canceled wait never lets later reservations overtake earlier ones.
func (r *Reservation) abandon() {
	if r.done == nil {
		return
	}
	go func() {
		<-r.prev
		close(r.done)
	}()
}

// Stats returns the current metrics for the given model.
func (cm *ActivationManager) Stats(model string) Stats {
	_, metrics := cm.entry(cm.Key(model))
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	return Stats{Queued: metrics.QueueSize, InFlight: metrics.InFlightCount}
}

// entry returns the semaphore and metrics for key, creating them on first use.
// The semaphore is nil for unbounded keys.
func (cm *ActivationManager) entry(key string) (chan struct{}, *ModelMetrics) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	metrics, exists := cm.metricsMap[key]
	if !exists {
		size, ok := cm.sizes[key]
		if !ok {
			size = cm.defaultSize
		}
		if size > 0 {
			cm.semMap[key] = make(chan struct{}, size)
		}
		metrics = &ModelMetrics{Model: key}
		cm.metricsMap[key] = metrics
	}
	return cm.semMap[key], metrics
}

// monitorMetrics monitors changes in the metrics and logs them at most once per logInterval.
func (cm *ActivationManager) monitorMetrics() {
	defer cm.wg.Done()
	ticker := time.NewTicker(cm.monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cm.shutdownCh:
			return
		case <-ticker.C:
		}

		cm.mu.Lock()
		all := make([]*ModelMetrics, 0, len(cm.metricsMap))
		for _, metrics := range cm.metricsMap {
			all = append(all, metrics)
		}
		cm.mu.Unlock()

		currentTime := time.Now()
		for _, metrics := range all {
			metrics.mu.Lock()
			if (metrics.queueSizeChanged || metrics.inFlightCountChanged) &&
				currentTime.Sub(metrics.LastLogTime) >= cm.logInterval {
				log.Debugf("Model: %s | Queued: %d | In flight: %d",
					metrics.Model, metrics.QueueSize, metrics.InFlightCount)
				metrics.LastLogTime = currentTime
				metrics.resetChangeFlags()
			}
			metrics.mu.Unlock()
		}
	}
}

// Methods for ModelMetrics

func (m *ModelMetrics) incrementQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueSize++
	m.queueSizeChanged = true
}

func (m *ModelMetrics) decrementQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueueSize > 0 {
		m.QueueSize--
		m.queueSizeChanged = true
	}
}

func (m *ModelMetrics) incrementInFlight() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InFlightCount++
	m.inFlightCountChanged = true
}

func (m *ModelMetrics) decrementInFlight() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InFlightCount > 0 {
		m.InFlightCount--
		m.inFlightCountChanged = true
	}
}

func (m *ModelMetrics) resetChangeFlags() {
	m.queueSizeChanged = false
	m.inFlightCountChanged = false
}

// Shutdown stops the metrics monitor. It is safe to call more than once.
func (cm *ActivationManager) Shutdown() {
	cm.shutdownOnce.Do(func() {
		close(cm.shutdownCh)
	})
	cm.wg.Wait()
}
