package emitter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockEmitter tracks calls for testing
type mockEmitter struct {
	emitCalls  []Event
	flushCalls int
	closeCalls int
	emitErr    error
	closeErr   error
}

func (m *mockEmitter) Emit(event Event) error {
	m.emitCalls = append(m.emitCalls, event)
	return m.emitErr
}

func (m *mockEmitter) Flush() error {
	m.flushCalls++
	return nil
}

func (m *mockEmitter) Close() error {
	m.closeCalls++
	return m.closeErr
}

func TestMultiEmitter_EmitCallsAllEmitters(t *testing.T) {
	mock1 := &mockEmitter{}
	mock2 := &mockEmitter{}
	mock3 := &mockEmitter{}

	multi := NewMultiEmitter([]Emitter{mock1, mock2, mock3}, zap.NewNop())

	event := testEvent{Name: "broadcast"}
	require.NoError(t, multi.Emit(event))

	assert.Len(t, mock1.emitCalls, 1)
	assert.Len(t, mock2.emitCalls, 1)
	assert.Len(t, mock3.emitCalls, 1)
}

func TestMultiEmitter_EmitContinuesPastFailures(t *testing.T) {
	failing := &mockEmitter{emitErr: errors.New("emit failed")}
	healthy := &mockEmitter{}

	multi := NewMultiEmitter([]Emitter{failing, healthy}, zap.NewNop())

	err := multi.Emit(testEvent{Name: "ev"})
	require.Error(t, err)
	assert.Len(t, healthy.emitCalls, 1)
}

func TestMultiEmitter_FlushReachesFlushableEmitters(t *testing.T) {
	flushable := &mockEmitter{}
	multi := NewMultiEmitter([]Emitter{flushable, &NoopEmitter{}}, zap.NewNop())

	require.NoError(t, multi.Flush())
	assert.Equal(t, 1, flushable.flushCalls)
}

func TestMultiEmitter_CloseClosesAllAndJoinsErrors(t *testing.T) {
	err1 := errors.New("close failed 1")
	err2 := errors.New("close failed 2")
	mock1 := &mockEmitter{closeErr: err1}
	mock2 := &mockEmitter{}
	mock3 := &mockEmitter{closeErr: err2}

	multi := NewMultiEmitter([]Emitter{mock1, mock2, mock3}, zap.NewNop())

	err := multi.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, err1)
	assert.ErrorIs(t, err, err2)

	assert.Equal(t, 1, mock1.closeCalls)
	assert.Equal(t, 1, mock2.closeCalls)
	assert.Equal(t, 1, mock3.closeCalls)
}

func TestNoopEmitter(t *testing.T) {
	noop := &NoopEmitter{}
	assert.NoError(t, noop.Emit(testEvent{Name: "ignored"}))
	assert.NoError(t, noop.Close())
}
