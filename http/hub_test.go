package http_test

import (
	"testing"

	lshttp "github.com/fwojciec/leadscout/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	t.Parallel()

	t.Run("delivers only to streams of the session", func(t *testing.T) {
		t.Parallel()

		hub := lshttp.NewHub()
		a := hub.Subscribe("a")
		b := hub.Subscribe("b")

		n := hub.Publish("a", []byte("hello"))

		assert.Equal(t, 1, n)
		require.Len(t, a, 1)
		assert.Equal(t, "hello", string(<-a))
		assert.Empty(t, b)
	})

	t.Run("fans out to every stream of a session", func(t *testing.T) {
		t.Parallel()

		hub := lshttp.NewHub()
		first := hub.Subscribe("s")
		second := hub.Subscribe("s")

		assert.Equal(t, 2, hub.Publish("s", []byte("x")))
		assert.Equal(t, "x", string(<-first))
		assert.Equal(t, "x", string(<-second))
	})

	t.Run("drops messages for sessions without streams", func(t *testing.T) {
		t.Parallel()

		hub := lshttp.NewHub()

		assert.Equal(t, 0, hub.Publish("nobody", []byte("x")))
	})

	t.Run("never blocks on a full stream", func(t *testing.T) {
		t.Parallel()

		hub := lshttp.NewHub()
		ch := hub.Subscribe("s")

		for range 100 {
			hub.Publish("s", []byte("x"))
		}

		assert.Equal(t, cap(ch), len(ch))
	})

	t.Run("unsubscribe closes the stream and forgets the session", func(t *testing.T) {
		t.Parallel()

		hub := lshttp.NewHub()
		ch := hub.Subscribe("s")

		hub.Unsubscribe("s", ch)
		hub.Unsubscribe("s", ch)

		_, open := <-ch
		assert.False(t, open)
		assert.Equal(t, 0, hub.Subscribers("s"))
		assert.Equal(t, 0, hub.Publish("s", []byte("x")))
	})
}
