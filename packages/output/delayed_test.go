package output

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

type capture struct {
	engine.NopReporter
	events []string
}

func (c *capture) Successful(step string) { c.events = append(c.events, "ok:"+step) }
func (c *capture) Failed(step string, cause error) {
	c.events = append(c.events, "failed:"+step)
}
func (c *capture) Cancelled() { c.events = append(c.events, "cancelled") }

func TestDelayedBuffersUntilFlush(t *testing.T) {
	sink := &capture{}
	d := NewDelayed(sink)

	d.Successful("one")
	d.Failed("two", assert.AnError)
	assert.Empty(t, sink.events)

	d.InvokeDelayed()
	assert.Equal(t, []string{"ok:one", "failed:two"}, sink.events)

	// a second flush replays nothing
	d.InvokeDelayed()
	assert.Equal(t, []string{"ok:one", "failed:two"}, sink.events)
}

func TestDelayedDeliversCancellationImmediately(t *testing.T) {
	sink := &capture{}
	d := NewDelayed(sink)

	d.Successful("one")
	d.Cancelled()

	assert.Equal(t, []string{"cancelled"}, sink.events)
}

func TestDeferredHidesFlushFromTheEngine(t *testing.T) {
	sink := &capture{}
	wrapped := NewDeferred(NewDelayed(sink))

	_, isDelayed := interface{}(wrapped).(engine.DelayedReporter)
	assert.False(t, isDelayed)

	wrapped.Successful("one")
	assert.Empty(t, sink.events)
	wrapped.Flush()
	assert.Equal(t, []string{"ok:one"}, sink.events)
}

func TestMultiFansOut(t *testing.T) {
	a := &capture{}
	b := &capture{}
	m := NewMulti(a, b)

	m.BeforeStory(&model.Story{Path: "x"}, false)
	m.Successful("one")

	assert.Equal(t, []string{"ok:one"}, a.events)
	assert.Equal(t, []string{"ok:one"}, b.events)
}

func TestMultiFlushesDelayedChildren(t *testing.T) {
	sink := &capture{}
	m := NewMulti(NewDelayed(sink))

	m.Successful("one")
	assert.Empty(t, sink.events)
	m.InvokeDelayed()
	assert.Equal(t, []string{"ok:one"}, sink.events)
}
