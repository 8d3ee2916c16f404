package queue

import (
	"context"
	"sync"

	"traffic_sim/internal/errs"
	"traffic_sim/list"
)

// ErrQueueClosed 队列关闭并且已经取空之后，Receive 返回这个错误；关闭之后 Send 也返回这个错误
var ErrQueueClosed = errs.ErrQueueClosed

type Queue[T any] interface {
	Send(ctx context.Context, val T) error
	Receive(ctx context.Context) (T, error)
}

// cond 基于 channel 的条件变量，等待的时候可以同时监听 ctx
// 每个等待者拥有自己的 channel，因此可以做到只唤醒一个
type cond struct {
	l       sync.Locker
	waiters *list.LinkedList[chan struct{}]
}

func newCond(l sync.Locker) *cond {
	return &cond{
		l:       l,
		waiters: list.NewLinkedList[chan struct{}](),
	}
}

// wait 登记一个等待者，返回用于阻塞的 channel
// 必须在锁范围内调用，返回时锁已经被释放
func (c *cond) wait() <-chan struct{} {
	ch := make(chan struct{})
	_ = c.waiters.Append(ch)
	c.l.Unlock()
	return ch
}

// signal 唤醒最早登记的一个等待者，没有等待者就什么也不做
// 必须在锁范围内调用，返回时锁已经被释放
func (c *cond) signal() {
	ch, err := c.waiters.Delete(0)
	c.l.Unlock()
	if err == nil {
		close(ch)
	}
}

// broadcast 唤醒所有等待者
// 必须在锁范围内调用，返回时锁已经被释放
func (c *cond) broadcast() {
	chs := c.waiters.AsSlice()
	c.waiters = list.NewLinkedList[chan struct{}]()
	c.l.Unlock()
	for _, ch := range chs {
		close(ch)
	}
}

// abandon 等待者因为 ctx 结束而放弃等待
// 如果它已经被 signal 选中，就把这次唤醒转交给下一个等待者，避免数据滞留在队列里没人取
// 必须在锁范围内调用，返回时锁已经被释放
func (c *cond) abandon(ch <-chan struct{}) {
	index := -1
	_ = c.waiters.Range(func(i int, w chan struct{}) error {
		if index < 0 && (<-chan struct{})(w) == ch {
			index = i
		}
		return nil
	})
	if index >= 0 {
		_, _ = c.waiters.Delete(index)
		c.l.Unlock()
		return
	}
	c.signal()
}
