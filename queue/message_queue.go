package queue

import (
	"context"
	"sync"
	"time"

	"traffic_sim/list"
)

var _ Queue[any] = &MessageQueue[any]{}

// DeliveryOrder 决定 Receive 从哪一端取数据
type DeliveryOrder int

const (
	// FIFO 先发送的先被接收，默认值
	FIFO DeliveryOrder = iota
	// LIFO 最后发送的先被接收，积压时可能先拿到较新的数据而旧数据滞后
	LIFO
)

func (o DeliveryOrder) String() string {
	switch o {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return "unknown"
	}
}

type options struct {
	order    DeliveryOrder
	throttle time.Duration
}

// Option option模式
type Option func(o *options)

// WithDeliveryOrder 设置出队顺序
func WithDeliveryOrder(order DeliveryOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithSendThrottle Send 入队并唤醒之后再睡眠 d，用于限制生产者发布的速度
// d <= 0 表示不限速
func WithSendThrottle(d time.Duration) Option {
	return func(o *options) {
		o.throttle = d
	}
}

// MessageQueue 无界阻塞队列，用于在 goroutine 之间交接单个数据
// Send 永远不会因为队列满而阻塞；Receive 在队列为空时阻塞，直到有数据、ctx 结束或者队列关闭
// 每个数据只会被一个接收者拿到
type MessageQueue[T any] struct {
	mu    *sync.RWMutex
	items *list.LinkedList[T]
	// 队列非空的通知
	notEmpty *cond
	closed   bool

	order    DeliveryOrder
	throttle time.Duration
}

// NewMessageQueue 创建一个无界消息队列，默认 FIFO、不限速
func NewMessageQueue[T any](opts ...Option) *MessageQueue[T] {
	o := options{order: FIFO}
	for _, opt := range opts {
		opt(&o)
	}
	mu := &sync.RWMutex{}
	return &MessageQueue[T]{
		mu:       mu,
		items:    list.NewLinkedList[T](),
		notEmpty: newCond(mu),
		order:    o.order,
		throttle: o.throttle,
	}
}

// Send 入队并唤醒至多一个等待中的接收者
// 配置了限速时，入队之后会再睡眠一段时间；这段睡眠中 ctx 结束不影响已经入队的数据，返回 nil
func (q *MessageQueue[T]) Send(ctx context.Context, val T) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	_ = q.items.Append(val)
	// 这里会释放锁
	q.notEmpty.signal()

	if q.throttle <= 0 {
		return nil
	}
	timer := time.NewTimer(q.throttle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	return nil
}

// Receive 阻塞直到拿到一个数据
// 队列关闭后，仍然会先把剩下的数据取完，取空之后返回 ErrQueueClosed
func (q *MessageQueue[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	if ctx.Err() != nil {
		return zero, ctx.Err()
	}
	q.mu.Lock()
	// 使用 for，因为被唤醒到重新拿到锁的这段时间里，数据可能被别人取走了
	for q.items.Len() == 0 {
		if q.closed {
			q.mu.Unlock()
			return zero, ErrQueueClosed
		}
		ch := q.notEmpty.wait()
		select {
		case <-ctx.Done():
			q.mu.Lock()
			// 这里会释放锁
			q.notEmpty.abandon(ch)
			return zero, ctx.Err()
		case <-ch:
			q.mu.Lock()
		}
	}
	var (
		val T
		err error
	)
	if q.order == LIFO {
		val, err = q.items.Delete(q.items.Len() - 1)
	} else {
		val, err = q.items.Delete(0)
	}
	q.mu.Unlock()
	return val, err
}

// Close 关闭队列并唤醒所有接收者，重复关闭什么也不做
func (q *MessageQueue[T]) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	// 这里会释放锁
	q.notEmpty.broadcast()
	return nil
}

func (q *MessageQueue[T]) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *MessageQueue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.items.Len()
}

// AsSlice 按入队顺序返回当前积压的数据
func (q *MessageQueue[T]) AsSlice() []T {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.items.AsSlice()
}
