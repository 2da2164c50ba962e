package devices

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Monitor polls the Registry for hotplug changes with an adaptive
// interval: fast (baseInterval) while devices are actively changing,
// backing off gradually to maxInterval during quiet periods.
//
// Adapted from github.com/shaban/macaudio's DeviceMonitor (device_monitor.go):
// same 50ms/200ms base/max interval, same EMA-tracked check latency, same
// adaptiveSlowdown/adaptiveSpeedup shape, retargeted from the CGo
// devices.GetDeviceCounts() call to Registry.Count()+Refresh().
type Monitor struct {
	registry *Registry
	logger   *log.Logger
	onChange func()

	baseInterval time.Duration
	maxInterval  time.Duration

	mu              sync.Mutex
	running         bool
	currentInterval time.Duration
	noChangeCount   int
	lastInputCount  int
	lastOutputCount int

	averageCheckTime time.Duration
	maxCheckTime     time.Duration
	checkCount       int64

	cancel context.CancelFunc
}

// NewMonitor creates a monitor over registry. onChange, if non-nil, is
// invoked synchronously on the polling goroutine whenever a device count
// change is detected, after the registry has already been refreshed.
func NewMonitor(registry *Registry, logger *log.Logger, onChange func()) *Monitor {
	return &Monitor{
		registry:        registry,
		logger:          logger,
		onChange:        onChange,
		baseInterval:    50 * time.Millisecond,
		maxInterval:     200 * time.Millisecond,
		currentInterval: 50 * time.Millisecond,
	}
}

// Start begins polling. Safe to call once; a second call is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.lastInputCount, m.lastOutputCount = m.registry.Count()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	go m.loop(ctx)
}

// Stop halts polling.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.baseInterval)
	defer ticker.Stop()
	current := m.baseInterval

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check()

			m.mu.Lock()
			next := m.currentInterval
			m.mu.Unlock()
			if next != current {
				ticker.Stop()
				ticker = time.NewTicker(next)
				current = next
			}
		}
	}
}

func (m *Monitor) check() {
	start := time.Now()

	if err := m.registry.Refresh(); err != nil {
		if m.logger != nil {
			m.logger.Error("device poll failed", "err", err)
		}
		return
	}
	inputs, outputs := m.registry.Count()
	elapsed := time.Since(start)
	m.recordCheckTime(elapsed)

	m.mu.Lock()
	changed := inputs != m.lastInputCount || outputs != m.lastOutputCount
	if changed {
		m.lastInputCount, m.lastOutputCount = inputs, outputs
		m.noChangeCount = 0
		m.currentInterval = m.baseInterval
	} else {
		m.noChangeCount++
		if m.noChangeCount > 10 {
			next := time.Duration(float64(m.currentInterval) * 1.1)
			if next > m.maxInterval {
				next = m.maxInterval
			}
			m.currentInterval = next
		}
	}
	m.mu.Unlock()

	if changed && m.onChange != nil {
		m.onChange()
	}
}

func (m *Monitor) recordCheckTime(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkCount++
	if m.checkCount == 1 {
		m.averageCheckTime = elapsed
	} else {
		m.averageCheckTime = time.Duration(float64(m.averageCheckTime)*0.9 + float64(elapsed)*0.1)
	}
	if elapsed > m.maxCheckTime {
		m.maxCheckTime = elapsed
	}
}

// Stats returns the monitor's running performance counters.
func (m *Monitor) Stats() (avg, max time.Duration, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averageCheckTime, m.maxCheckTime, m.checkCount
}
