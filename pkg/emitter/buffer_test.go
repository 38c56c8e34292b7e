package emitter

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBuffer_BasicOperations(t *testing.T) {
	t.Run("new buffer is empty", func(t *testing.T) {
		buf := NewEventBuffer()
		assert.Equal(t, 0, buf.Len())
		assert.Empty(t, buf.DrainAndReset())
	})

	t.Run("append preserves order", func(t *testing.T) {
		buf := NewEventBuffer()
		buf.Append([]byte("a"))
		buf.Append([]byte("b"))
		buf.Append([]byte("c"))

		events := buf.DrainAndReset()
		require.Len(t, events, 3)
		assert.Equal(t, "a", string(events[0]))
		assert.Equal(t, "b", string(events[1]))
		assert.Equal(t, "c", string(events[2]))
	})

	t.Run("drain leaves buffer empty", func(t *testing.T) {
		buf := NewEventBuffer()
		buf.Append([]byte("a"))

		buf.DrainAndReset()
		assert.Equal(t, 0, buf.Len())
		assert.Empty(t, buf.DrainAndReset())
	})

	t.Run("requeue appends at tail", func(t *testing.T) {
		buf := NewEventBuffer()
		buf.Append([]byte("old-1"))
		buf.Append([]byte("old-2"))
		failed := buf.DrainAndReset()

		buf.Append([]byte("new"))
		buf.Requeue(failed)

		events := buf.DrainAndReset()
		require.Len(t, events, 3)
		assert.Equal(t, "new", string(events[0]))
		assert.Equal(t, "old-1", string(events[1]))
		assert.Equal(t, "old-2", string(events[2]))
	})
}

func TestEventBuffer_ConcurrentAppendAndDrain(t *testing.T) {
	buf := NewEventBuffer()
	const producers = 10
	const perProducer = 100

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				buf.Append([]byte(fmt.Sprintf("p%d-%d", p, i)))
			}
		}(p)
	}

	// Drain concurrently with the producers; every event must land in
	// exactly one drained sequence
	var drained [][]byte
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			drained = append(drained, buf.DrainAndReset()...)
		}
	}()

	wg.Wait()
	<-done
	drained = append(drained, buf.DrainAndReset()...)

	seen := make(map[string]int)
	for _, ev := range drained {
		seen[string(ev)]++
	}

	require.Len(t, seen, producers*perProducer)
	for ev, count := range seen {
		assert.Equal(t, 1, count, "event %s drained %d times", ev, count)
	}
}
