package sync

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnce_Do(t *testing.T) {
	var (
		once Once
		cnt  atomic.Int32
		wg   sync.WaitGroup
	)
	const n = 10
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			err := once.Do(func() error {
				cnt.Add(1)
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), cnt.Load())
	assert.True(t, once.Done())
}

var errStart = errors.New("启动失败")

func TestOnce_RetryAfterError(t *testing.T) {
	testCases := []struct {
		name     string
		results  []error
		wantErrs []error
		wantCall int
		wantDone bool
	}{
		{
			name:     "一直失败",
			results:  []error{errStart, errStart, errStart},
			wantErrs: []error{errStart, errStart, errStart},
			wantCall: 3,
		},
		{
			name:     "失败之后成功",
			results:  []error{errStart, nil, errStart},
			wantErrs: []error{errStart, nil, nil},
			wantCall: 2,
			wantDone: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var once Once
			calls := 0
			for i := range tc.results {
				err := once.Do(func() error {
					calls++
					return tc.results[i]
				})
				assert.Equal(t, tc.wantErrs[i], err)
			}
			assert.Equal(t, tc.wantCall, calls)
			assert.Equal(t, tc.wantDone, once.Done())
		})
	}
}
