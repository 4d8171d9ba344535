package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/qsr-pos/internal/cart"
)

func TestOpenGetClose(t *testing.T) {
	st := NewStore()
	a := st.Open()
	b := st.Open()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, st.Len())

	got, err := st.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	assert.True(t, st.Close(a.ID))
	assert.False(t, st.Close(a.ID))
	_, err = st.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionsAreIsolated(t *testing.T) {
	st := NewStore()
	a, b := st.Open(), st.Open()

	require.NoError(t, a.Do(func(s *State) error {
		s.Cart.AddItem(1, "A", 500, nil)
		s.Note = "table 4"
		s.SplitCount = 0
		return nil
	}))

	_ = b.Do(func(s *State) error {
		assert.True(t, s.Cart.Empty())
		assert.Empty(t, s.Note)
		return nil
	})
	_ = a.Do(func(s *State) error {
		assert.Equal(t, int64(500), s.Cart.Subtotal())
		assert.Equal(t, "table 4", s.Note)
		assert.Equal(t, 1, s.SplitCount)
		return nil
	})
}

func TestSessionSerializesAccess(t *testing.T) {
	sess := NewStore().Open()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sess.Do(func(s *State) error {
				s.Cart.AddItem(1, "A", 100, []cart.SelectedModifier{{ID: 2}})
				return nil
			})
		}()
	}
	wg.Wait()

	_ = sess.Do(func(s *State) error {
		require.Len(t, s.Cart.Lines(), 1)
		assert.Equal(t, 50, s.Cart.Lines()[0].Quantity)
		return nil
	})
}
