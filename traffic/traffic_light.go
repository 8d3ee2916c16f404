package traffic

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"traffic_sim/internal/errs"
	"traffic_sim/queue"
	xsync "traffic_sim/sync"
)

// ErrLightClosed 信号灯 Close 之后，Simulate 和 WaitForGreen 返回这个错误
var ErrLightClosed = errs.ErrLightClosed

var _ Simulator = &TrafficLight{}

// PhaseRecorder 接收每一次相位切换，例如写到外部存储
type PhaseRecorder interface {
	Record(ctx context.Context, lightID int64, phase Phase) error
}

const (
	DefaultCycleMin     = 4 * time.Second
	DefaultCycleMax     = 6 * time.Second
	DefaultTickQuantum  = time.Millisecond
	DefaultWaitPoll     = time.Millisecond
	DefaultSendThrottle = 500 * time.Millisecond
)

type lightOptions struct {
	cycleMin time.Duration
	cycleMax time.Duration
	reroll   bool
	tick     time.Duration
	waitPoll time.Duration
	throttle time.Duration
	rnd      *rand.Rand
	recorder PhaseRecorder
	logger   *zerolog.Logger
	ids      *IDGenerator
}

// LightOption option模式
type LightOption func(o *lightOptions)

// WithCycleRange 每个周期的时长在 [lo, hi] 中均匀随机
// lo > hi 时两者互换；周期不会短于 tick，过小的值会被提升到 tick
func WithCycleRange(lo, hi time.Duration) LightOption {
	return func(o *lightOptions) {
		if lo > hi {
			lo, hi = hi, lo
		}
		o.cycleMin, o.cycleMax = lo, hi
	}
}

// WithRerollEachCycle 为 true 时每次切换之后重新随机周期；默认只在启动时随机一次
func WithRerollEachCycle(reroll bool) LightOption {
	return func(o *lightOptions) {
		o.reroll = reroll
	}
}

// WithTickQuantum 后台循环每次睡眠的时长
func WithTickQuantum(d time.Duration) LightOption {
	return func(o *lightOptions) {
		o.tick = d
	}
}

// WithWaitPoll WaitForGreen 每次从队列取数据之前睡眠的时长，<= 0 表示不睡眠
func WithWaitPoll(d time.Duration) LightOption {
	return func(o *lightOptions) {
		o.waitPoll = d
	}
}

// WithSendThrottle 每次发布相位之后睡眠的时长，<= 0 表示不睡眠
// 周期从发布完成之后才开始重新计时，实际切换间隔为 周期 + 限速时长
func WithSendThrottle(d time.Duration) LightOption {
	return func(o *lightOptions) {
		o.throttle = d
	}
}

// WithRand 指定随机数来源，只会在后台循环中使用
func WithRand(r *rand.Rand) LightOption {
	return func(o *lightOptions) {
		o.rnd = r
	}
}

// WithPhaseRecorder Record 在后台循环中同步调用，周期在 Record 返回之后才重新计时
// 实际切换间隔为 周期 + 限速时长 + Record 耗时，慢的 recorder 会拉长周期
func WithPhaseRecorder(r PhaseRecorder) LightOption {
	return func(o *lightOptions) {
		o.recorder = r
	}
}

// WithLogger 默认使用共享控制台
func WithLogger(l zerolog.Logger) LightOption {
	return func(o *lightOptions) {
		o.logger = &l
	}
}

func WithIDGenerator(ids *IDGenerator) LightOption {
	return func(o *lightOptions) {
		o.ids = ids
	}
}

// TrafficLight 在停止和通行之间周期切换的信号灯
// 每次切换都会发布到内部的消息队列，WaitForGreen 从队列中等待通行相位
type TrafficLight struct {
	*Object

	opts   lightOptions
	logger zerolog.Logger

	// 只有后台循环会写
	phase atomic.Int32
	// 当前使用的周期，单位纳秒
	cycle atomic.Int64
	queue *queue.MessageQueue[Phase]

	started xsync.Once
	mu      sync.Mutex
	cancel  context.CancelFunc
	closed  bool
}

// NewTrafficLight 创建信号灯，初始相位为 Stopped，此时还没有开始切换
func NewTrafficLight(opts ...LightOption) *TrafficLight {
	o := lightOptions{
		cycleMin: DefaultCycleMin,
		cycleMax: DefaultCycleMax,
		tick:     DefaultTickQuantum,
		waitPoll: DefaultWaitPoll,
		throttle: DefaultSendThrottle,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tick <= 0 {
		o.tick = DefaultTickQuantum
	}
	if o.cycleMin < o.tick {
		o.cycleMin = o.tick
	}
	if o.cycleMax < o.cycleMin {
		o.cycleMax = o.cycleMin
	}
	obj := NewObject(ObjectLight, o.ids)
	logger := Console()
	if o.logger != nil {
		logger = *o.logger
	}
	res := &TrafficLight{
		Object: obj,
		opts:   o,
		logger: logger.With().Int64("light_id", obj.ID()).Logger(),
		queue:  queue.NewMessageQueue[Phase](queue.WithSendThrottle(o.throttle)),
	}
	res.phase.Store(int32(Stopped))
	return res
}

// CurrentPhase 读取当前相位，不经过队列
func (l *TrafficLight) CurrentPhase() Phase {
	return Phase(l.phase.Load())
}

// CycleDuration 后台循环当前使用的周期，还没有启动时返回 0
func (l *TrafficLight) CycleDuration() time.Duration {
	return time.Duration(l.cycle.Load())
}

// Simulate 在后台启动相位切换，只会启动一次，重复调用直接返回 nil
// 后台循环在 ctx 结束或者 Close 之后退出
func (l *TrafficLight) Simulate(ctx context.Context) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrLightClosed
	}
	return l.started.Do(func() error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed {
			return ErrLightClosed
		}
		wctx, cancel := context.WithCancel(ctx)
		l.cancel = cancel
		l.Threads().Go(func() error {
			// 后台循环退出之后信号灯不会再切换，标记为关闭，唤醒所有 WaitForGreen
			defer l.markClosed()
			return l.cycleThroughPhases(wctx)
		})
		l.logger.Info().Msg("traffic light started")
		return nil
	})
}

// WaitForGreen 阻塞直到从队列中收到通行相位
// 收到的停止相位会被丢弃；ctx 结束返回 ctx.Err()，信号灯关闭返回 ErrLightClosed
func (l *TrafficLight) WaitForGreen(ctx context.Context) error {
	var timer *time.Timer
	for {
		if l.opts.waitPoll > 0 {
			if timer == nil {
				timer = time.NewTimer(l.opts.waitPoll)
				defer timer.Stop()
			} else {
				timer.Reset(l.opts.waitPoll)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		p, err := l.queue.Receive(ctx)
		if errors.Is(err, queue.ErrQueueClosed) {
			return ErrLightClosed
		}
		if err != nil {
			return err
		}
		if p == Go {
			return nil
		}
	}
}

// Close 停止后台循环并等待它退出，然后关闭队列唤醒所有 WaitForGreen
// 重复调用，或者后台循环已经因为 ctx 结束而退出，都可以安全调用
func (l *TrafficLight) Close() error {
	l.mu.Lock()
	wasClosed := l.closed
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()

	err := l.Threads().Wait()
	_ = l.queue.Close()
	if !wasClosed {
		l.logger.Info().Msg("traffic light closed")
	}
	return err
}

// markClosed 后台循环退出时调用
func (l *TrafficLight) markClosed() {
	l.mu.Lock()
	wasClosed := l.closed
	l.closed = true
	l.mu.Unlock()
	_ = l.queue.Close()
	if !wasClosed {
		l.logger.Info().Msg("traffic light stopped")
	}
}

func (l *TrafficLight) pickCycle() time.Duration {
	span := int64(l.opts.cycleMax - l.opts.cycleMin)
	if span <= 0 {
		return l.opts.cycleMin
	}
	var n int64
	if l.opts.rnd != nil {
		n = l.opts.rnd.Int64N(span + 1)
	} else {
		n = rand.Int64N(span + 1)
	}
	return l.opts.cycleMin + time.Duration(n)
}

// cycleThroughPhases 后台循环：每隔 tick 检查一次距离上次切换的时间，达到周期就切换相位并发布
func (l *TrafficLight) cycleThroughPhases(ctx context.Context) error {
	cycle := l.pickCycle()
	l.cycle.Store(int64(cycle))
	l.logger.Debug().Dur("cycle", cycle).Msg("cycle duration picked")

	ticker := time.NewTicker(l.opts.tick)
	defer ticker.Stop()
	lastUpdate := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if time.Since(lastUpdate) < cycle {
			continue
		}

		next := l.CurrentPhase().Toggle()
		l.phase.Store(int32(next))
		l.logger.Debug().Stringer("phase", next).Msg("phase toggled")

		// 这里可能会因为限速睡眠
		if err := l.queue.Send(ctx, next); err != nil {
			// 只有 ctx 结束或者队列关闭才会失败，两种情况都意味着要退出
			return nil
		}
		if l.opts.recorder != nil {
			if err := l.opts.recorder.Record(ctx, l.ID(), next); err != nil {
				l.logger.Warn().Err(err).Stringer("phase", next).Msg("record phase failed")
			}
		}
		if l.opts.reroll {
			cycle = l.pickCycle()
			l.cycle.Store(int64(cycle))
		}
		lastUpdate = time.Now()
	}
}
