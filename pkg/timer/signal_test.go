package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalOrderAndUnsubscribe(t *testing.T) {
	var sig Signal[func()]
	var got []int

	sig.Subscribe(func() { got = append(got, 1) })
	id := sig.Subscribe(func() { got = append(got, 2) })
	sig.Subscribe(func() { got = append(got, 3) })
	assert.Equal(t, 3, sig.Len())

	emit(&sig)
	assert.Equal(t, []int{1, 2, 3}, got)

	assert.True(t, sig.Unsubscribe(id))
	assert.False(t, sig.Unsubscribe(id))

	got = nil
	emit(&sig)
	assert.Equal(t, []int{1, 3}, got)
}

func TestSignalMutationDuringDispatch(t *testing.T) {
	var sig Signal[func()]
	var got []string
	var secondID SubscriptionID

	sig.Subscribe(func() {
		got = append(got, "first")
		sig.Unsubscribe(secondID)
		sig.Subscribe(func() { got = append(got, "added") })
	})
	secondID = sig.Subscribe(func() { got = append(got, "second") })

	emit(&sig)
	assert.Equal(t, []string{"first", "second"}, got, "dispatch works on a snapshot")

	got = nil
	sig.Clear()
	emit(&sig)
	assert.Empty(t, got)
}

func TestSignalProgress(t *testing.T) {
	var sig Signal[func(float64)]
	var sum float64
	sig.Subscribe(func(p float64) { sum += p })
	sig.Subscribe(func(p float64) { sum += p })

	emitProgress(&sig, 0.25)
	assert.Equal(t, 0.5, sum)
}

func TestTimerSignalsAreIndependent(t *testing.T) {
	s := newTestScheduler(t)
	tm := newTestTimer(t, s, 1)

	tm.Started().Subscribe(func() {})
	tm.Started().Subscribe(func() {})
	tm.Paused().Subscribe(func() {})

	assert.Equal(t, 2, tm.Started().Len())
	assert.Equal(t, 1, tm.Paused().Len())
	assert.Equal(t, 0, tm.Completed().Len())
}
