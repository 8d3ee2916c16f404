package sync

import (
	"sync"
	"sync/atomic"
)

// Once 和标准库的 sync.Once 类似，但是 f 返回错误时不算执行成功，下一次调用 Do 会再执行 f
// 用于信号灯的启动，启动失败之后可以重试
type Once struct {
	m    sync.Mutex
	done atomic.Bool
}

// Do 执行成功之后，后续调用直接返回 nil
func (o *Once) Do(f func() error) error {
	if o.done.Load() {
		return nil
	}
	return o.doSlow(f)
}

func (o *Once) doSlow(f func() error) error {
	o.m.Lock()
	defer o.m.Unlock()
	// 双重检查，拿锁的过程中可能已经被别人执行成功了
	if o.done.Load() {
		return nil
	}
	if err := f(); err != nil {
		return err
	}
	o.done.Store(true)
	return nil
}

// Done 返回 f 是否已经执行成功过
func (o *Once) Done() bool {
	return o.done.Load()
}
