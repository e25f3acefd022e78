package adaptive

import (
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultInterval is how many Report calls go by between publishes.
const DefaultInterval = 15

// Stats counts publisher activity.
type Stats struct {
	Reports   int
	Publishes int
	Failures  int
}

// Publisher owns the region table and the report counter. Every call updates the table
// immediately; every interval-th call also writes the whole table to the sink. The write
// happens while the lock is held, so published snapshots never reorder relative to table
// updates.
type Publisher struct {
	mu       sync.Mutex
	table    *Table
	sink     Sink
	interval int
	counter  int
	stats    Stats
	logger   *log.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger routes publisher diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPublisher creates a publisher writing to sink. interval < 1 selects DefaultInterval.
func NewPublisher(sink Sink, interval int, opts ...Option) *Publisher {
	if interval < 1 {
		interval = DefaultInterval
	}
	p := &Publisher{
		table:    NewTable(),
		sink:     sink,
		interval: interval,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report records a luminance sample for region and returns its classification after this
// sample. Publish failures are logged and counted, never returned.
func (p *Publisher) Report(region string, lum float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	isDark, flipped := p.table.Observe(region, lum)
	if flipped {
		p.logger.Debug("region flipped", "region", region, "luminance", lum, "dark", isDark)
	}

	p.stats.Reports++
	p.counter++
	if p.counter < p.interval {
		return isDark
	}
	p.counter = 0
	p.publishLocked()
	return isDark
}

// Flush publishes the current table immediately.
func (p *Publisher) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publishLocked()
}

func (p *Publisher) publishLocked() error {
	if p.sink == nil {
		return nil
	}
	data, err := p.table.Snapshot().Marshal()
	if err == nil {
		err = p.sink.Write(data)
	}
	if err != nil {
		p.stats.Failures++
		p.logger.Debugf("adaptive colours not published: %v", err)
		return err
	}
	p.stats.Publishes++
	return nil
}

// Snapshot returns the current table in published form.
func (p *Publisher) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.table.Snapshot()
}

// Region returns the state for one region.
func (p *Publisher) Region(name string) (Region, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.table.Get(name)
}

// Reset forgets every region and restarts the publish cadence.
func (p *Publisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.table.Reset()
	p.counter = 0
}

func (p *Publisher) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
