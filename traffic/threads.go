package traffic

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Threads 记录启动过的 goroutine，之后可以统一等待它们结束
// 零值可用
type Threads struct {
	g errgroup.Group
	n atomic.Int64
}

// Go 在新的 goroutine 中执行 fn
func (t *Threads) Go(fn func() error) {
	t.n.Add(1)
	t.g.Go(fn)
}

// Wait 等待所有 goroutine 结束，返回第一个非 nil 的错误
func (t *Threads) Wait() error {
	return t.g.Wait()
}

// Len 启动过的 goroutine 数量，包括已经结束的
func (t *Threads) Len() int {
	return int(t.n.Load())
}
