package paginator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func TestCollect_WalksAllPages(t *testing.T) {
	rec := &sleepRecorder{}
	p := New[int](Config{Delay: 250 * time.Millisecond, MaxPages: 20}).WithSleep(rec.sleep)

	var requested []int
	items, err := p.Collect(context.Background(), func(_ context.Context, page int) (Page[int], error) {
		requested = append(requested, page)
		return Page[int]{Items: []int{page * 10, page*10 + 1}, TotalPages: 3}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, requested)
	assert.Equal(t, []int{0, 1, 10, 11, 20, 21}, items)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, rec.calls)
}

func TestCollect_StopsAtMaxPages(t *testing.T) {
	rec := &sleepRecorder{}
	p := New[int](Config{Delay: time.Millisecond, MaxPages: 20}).WithSleep(rec.sleep)

	calls := 0
	_, err := p.Collect(context.Background(), func(_ context.Context, page int) (Page[int], error) {
		calls++
		return Page[int]{Items: []int{page}, TotalPages: 500}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 20, calls)
	assert.Len(t, rec.calls, 19)
}

func TestCollect_SinglePageNoSleep(t *testing.T) {
	rec := &sleepRecorder{}
	p := New[string](Config{Delay: time.Second, MaxPages: 20}).WithSleep(rec.sleep)

	items, err := p.Collect(context.Background(), func(_ context.Context, _ int) (Page[string], error) {
		return Page[string]{Items: []string{"a"}, TotalPages: 0}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, items)
	assert.Empty(t, rec.calls)
}

func TestCollect_ErrorPropagates(t *testing.T) {
	p := New[int](Config{MaxPages: 20}).WithSleep((&sleepRecorder{}).sleep)

	items, err := p.Collect(context.Background(), func(_ context.Context, page int) (Page[int], error) {
		if page == 1 {
			return Page[int]{}, errors.New("boom")
		}
		return Page[int]{Items: []int{1}, TotalPages: 5}, nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch page 1")
	assert.Equal(t, []int{1}, items)
}

func TestSleep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, Sleep(context.Background(), 0))
}
