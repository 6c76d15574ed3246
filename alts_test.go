package gocsp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestAltsReadyCandidate(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	a := New[string](s, 0)
	b := New[string](s, 1)
	ok, err := b.TryPut("x")
	require.True(t, ok)
	require.NoError(t, err)

	res := Alts(waitCtx(t), TakeOp(a), TakeOp(b))
	require.NoError(t, res.Err)
	assert.Equal(t, "x", res.Value)
	assert.Same(t, b, res.Chan)

	// No operation completed on a, and no registration lingers there.
	assert.Zero(t, pendingTakers(a))
	assert.Zero(t, pendingPutters(a))
}

func TestAltsBlocksUntilOneFires(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	a := New[string](s, 0)
	b := New[string](s, 0)

	go func() {
		time.Sleep(20 * time.Millisecond)
		assert.NoError(t, b.Put(context.Background(), "late"))
	}()

	res := Alts(waitCtx(t), TakeOp(a), TakeOp(b))
	require.NoError(t, res.Err)
	assert.Equal(t, "late", res.Value)
	assert.Same(t, b, res.Chan)
	assert.Zero(t, pendingTakers(a))
}

func TestAltsPutCandidate(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	a := New[int](s, 0)
	b := New[int](s, 1)

	res := Alts(waitCtx(t), PutOp(a, 1), PutOp(b, 2))
	require.NoError(t, res.Err)
	assert.Nil(t, res.Value)
	assert.Same(t, b, res.Chan)

	v, ok, err := b.TryTake()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestAltsAtomicity(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	for range 100 {
		a := New[int](s, 1)
		b := New[int](s, 1)
		res := Alts(waitCtx(t), PutOp(a, 1), PutOp(b, 2))
		require.NoError(t, res.Err)
		// Exactly one candidate completed.
		require.Equal(t, 1, a.Len()+b.Len())
	}
}

func TestAltsFairness(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	a := New[int](s, 1)
	b := New[int](s, 1)
	counts := map[any]int{}
	const rounds = 2000
	for range rounds {
		ok, err := a.TryPut(1)
		require.True(t, ok)
		require.NoError(t, err)
		ok, err = b.TryPut(2)
		require.True(t, ok)
		require.NoError(t, err)

		res := Alts(waitCtx(t), TakeOp(a), TakeOp(b))
		require.NoError(t, res.Err)
		counts[res.Chan]++

		a.TryTake()
		b.TryTake()
	}
	// Not a hard 50/50, but neither candidate may starve.
	assert.Greater(t, counts[a], rounds/4)
	assert.Greater(t, counts[b], rounds/4)
}

func TestAltsDeadline(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	a := New[int](s, 0)
	b := New[int](s, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := Alts(ctx, TakeOp(a), TakeOp(b))
	require.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Nil(t, res.Chan)

	// Expiry retracted every registration.
	assert.Zero(t, pendingTakers(a))
	assert.Zero(t, pendingTakers(b))
}

func TestAltsClosedChannelIsReady(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	a := New[int](s, 0)
	b := New[int](s, 0)
	a.Close()

	res := Alts(waitCtx(t), TakeOp(a), TakeOp(b))
	assert.Same(t, a, res.Chan)
	assert.Equal(t, ErrClosed, res.Err)
}

func TestAltsWithTimeoutChannel(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	data := New[int](s, 0)
	tm := Timeout(s, 20*time.Millisecond)

	res := Alts(waitCtx(t), TakeOp(data), TakeOp(tm))
	assert.Same(t, tm, res.Chan)
	assert.Equal(t, ErrClosed, res.Err)
}

func TestTryAlts(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler()
	defer s.Close()

	a := New[int](s, 1)
	b := New[int](s, 1)

	_, ok := TryAlts(TakeOp(a), TakeOp(b))
	require.False(t, ok)

	okPut, err := b.TryPut(9)
	require.True(t, okPut)
	require.NoError(t, err)

	res, ok := TryAlts(TakeOp(a), TakeOp(b))
	require.True(t, ok)
	assert.Same(t, b, res.Chan)
	assert.Equal(t, 9, res.Value)
}
