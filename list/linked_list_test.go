package list

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"traffic_sim/internal/errs"
)

func TestLinkedList_Add(t *testing.T) {
	testCases := []struct {
		name      string
		list      *LinkedList[int]
		index     int
		val       int
		wantSlice []int
		wantErr   error
	}{
		{
			name:      "空链表",
			list:      NewLinkedList[int](),
			index:     0,
			val:       1,
			wantSlice: []int{1},
		},
		{
			name:      "头部插入",
			list:      NewLinkedListOf([]int{2, 3}),
			index:     0,
			val:       1,
			wantSlice: []int{1, 2, 3},
		},
		{
			name:      "中间插入",
			list:      NewLinkedListOf([]int{1, 2, 4, 5}),
			index:     2,
			val:       3,
			wantSlice: []int{1, 2, 3, 4, 5},
		},
		{
			name:      "尾部插入",
			list:      NewLinkedListOf([]int{1, 2}),
			index:     2,
			val:       3,
			wantSlice: []int{1, 2, 3},
		},
		{
			name:      "下标越界",
			list:      NewLinkedListOf([]int{1, 2}),
			index:     3,
			val:       3,
			wantSlice: []int{1, 2},
			wantErr:   errs.NewErrIndexOutOfRange(2, 3),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.list.Add(tc.index, tc.val)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.wantSlice, tc.list.AsSlice())
			assert.Equal(t, len(tc.wantSlice), tc.list.Len())
		})
	}
}

func TestLinkedList_Delete(t *testing.T) {
	testCases := []struct {
		name      string
		list      *LinkedList[int]
		index     int
		wantVal   int
		wantSlice []int
		wantErr   error
	}{
		{
			name:      "删除第一个",
			list:      NewLinkedListOf([]int{1, 2, 3}),
			index:     0,
			wantVal:   1,
			wantSlice: []int{2, 3},
		},
		{
			name:      "删除最后一个",
			list:      NewLinkedListOf([]int{1, 2, 3}),
			index:     2,
			wantVal:   3,
			wantSlice: []int{1, 2},
		},
		{
			name:      "删除中间",
			list:      NewLinkedListOf([]int{1, 2, 3, 4, 5}),
			index:     3,
			wantVal:   4,
			wantSlice: []int{1, 2, 3, 5},
		},
		{
			name:      "只有一个元素",
			list:      NewLinkedListOf([]int{7}),
			index:     0,
			wantVal:   7,
			wantSlice: []int{},
		},
		{
			name:      "空链表",
			list:      NewLinkedList[int](),
			index:     0,
			wantSlice: []int{},
			wantErr:   errs.NewErrIndexOutOfRange(0, 0),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := tc.list.Delete(tc.index)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.wantVal, val)
			assert.Equal(t, tc.wantSlice, tc.list.AsSlice())
		})
	}
}

func TestLinkedList_Get(t *testing.T) {
	l := NewLinkedListOf([]int{10, 20, 30, 40, 50})
	for i, want := range []int{10, 20, 30, 40, 50} {
		got, err := l.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := l.Get(-1)
	assert.Equal(t, errs.NewErrIndexOutOfRange(5, -1), err)
}

func TestLinkedList_Range(t *testing.T) {
	l := NewLinkedListOf([]int{1, 2, 3})
	sum := 0
	err := l.Range(func(index int, t int) error {
		sum += t
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, sum)

	stop := errors.New("stop")
	visited := 0
	err = l.Range(func(index int, t int) error {
		visited++
		if index == 1 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, visited)
}
