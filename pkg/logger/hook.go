package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"
)

// CountingCore forwards every entry to the wrapped core and counts written
// entries per level.
type CountingCore struct {
	core    zapcore.Core
	counter *prometheus.CounterVec
}

func NewCountingCore(core zapcore.Core, counter *prometheus.CounterVec) *CountingCore {
	return &CountingCore{
		core:    core,
		counter: counter,
	}
}

func (c *CountingCore) Enabled(lvl zapcore.Level) bool {
	return c.core.Enabled(lvl)
}

func (c *CountingCore) With(fields []zapcore.Field) zapcore.Core {
	return &CountingCore{
		core:    c.core.With(fields),
		counter: c.counter,
	}
}

// Check asks the wrapped core first, so samplers and level filters below it
// still decide which entries are written and counted.
func (c *CountingCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ce := c.core.Check(entry, nil); ce != nil {
		return checkedEntry.AddCore(entry, c)
	}
	return checkedEntry
}

func (c *CountingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if c.counter != nil {
		c.counter.WithLabelValues(entry.Level.String()).Inc()
	}
	return c.core.Write(entry, fields)
}

func (c *CountingCore) Sync() error {
	return c.core.Sync()
}
