package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ping struct{ N int }
type pong struct{}

func useBus(t *testing.T) {
	t.Helper()
	Use(New())
	t.Cleanup(func() { Use(nil) })
}

func TestPublish_DeliversByType(t *testing.T) {
	useBus(t)
	var got []int
	Subscribe(func(_ context.Context, p ping) { got = append(got, p.N) })
	Subscribe(func(_ context.Context, _ pong) { t.Fatal("pong handler must not see ping") })

	Publish(context.Background(), ping{N: 1})
	Publish(context.Background(), ping{N: 2})

	assert.Equal(t, []int{1, 2}, got)
}

func TestUnsubscribe_RemovesOnlyThatHandler(t *testing.T) {
	useBus(t)
	var a, b int
	// Identical closures share a code pointer; unsubscribe must still tell
	// them apart.
	handler := func(counter *int) Handler[ping] {
		return func(context.Context, ping) { *counter++ }
	}
	unsubA := Subscribe(handler(&a))
	Subscribe(handler(&b))

	unsubA()
	unsubA()
	Publish(context.Background(), ping{})

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}

func TestNoBus_IsNoop(t *testing.T) {
	Use(nil)
	called := false
	unsub := Subscribe(func(context.Context, ping) { called = true })
	Publish(context.Background(), ping{})
	unsub()
	assert.False(t, called)
}
