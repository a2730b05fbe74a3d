package sidebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_StartsClosed(t *testing.T) {
	assert.False(t, New().IsOpen())
}

func TestStore_OpenCloseAreIdempotent(t *testing.T) {
	s := New()

	assert.True(t, s.Open())
	assert.False(t, s.Open())
	assert.True(t, s.IsOpen())

	assert.True(t, s.Close())
	assert.False(t, s.Close())
	assert.False(t, s.IsOpen())
}

func TestStore_SubscribersSeeChangesOnly(t *testing.T) {
	s := New()
	var seen []bool
	unsubscribe := s.Subscribe(func(open bool) { seen = append(seen, open) })

	s.Open()
	s.Open()
	s.Close()
	unsubscribe()
	s.Open()

	assert.Equal(t, []bool{true, false}, seen)
}
