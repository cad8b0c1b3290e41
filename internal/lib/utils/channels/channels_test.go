package chans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	chans "github.com/GintGld/video-baker/internal/lib/utils/channels"
)

func TestTrySend(t *testing.T) {
	ch := make(chan int, 1)

	assert.True(t, chans.TrySend[int](ch, 1))
	assert.False(t, chans.TrySend[int](ch, 2))
	assert.Equal(t, 1, <-ch)

	assert.False(t, chans.TrySend[int](nil, 1))
}

func TestReplace(t *testing.T) {
	ch := make(chan int, 1)

	chans.Replace(ch, 1)
	chans.Replace(ch, 2)
	chans.Replace(ch, 3)

	assert.Equal(t, 3, <-ch)
	assert.Len(t, ch, 0)
}
