package stats

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRecordsDurations(t *testing.T) {
	c := NewCollector()
	c.Record("fast step", 2*time.Millisecond, nil)
	c.Record("slow step", 80*time.Millisecond, nil)
	c.Record("broken step", 10*time.Millisecond, errors.New("boom"))

	s := c.Snapshot()
	assert.Equal(t, int64(3), s.Total)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, "slow step", s.Slowest)
	assert.GreaterOrEqual(t, s.Max, s.P50)
	assert.GreaterOrEqual(t, s.P99, s.P50)
}

func TestCollectorEmpty(t *testing.T) {
	c := NewCollector()
	s := c.Snapshot()
	assert.Equal(t, int64(0), s.Total)

	var buf bytes.Buffer
	c.Print(&buf)
	assert.Empty(t, buf.String())
}

func TestCollectorPrint(t *testing.T) {
	c := NewCollector()
	c.Record("step", 5*time.Millisecond, nil)

	var buf bytes.Buffer
	c.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "Step timings")
	assert.Contains(t, out, "slowest: step")
}
