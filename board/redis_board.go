package board

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"traffic_sim/internal/errs"
	"traffic_sim/traffic"
)

var _ traffic.PhaseRecorder = &RedisBoard{}

// Client RedisBoard 用到的 redis 命令，redis.Cmdable 满足这个接口
// mock 生成：mockgen -package=mocks -destination=board/mocks/client.mock.go traffic_sim/board Client
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisBoard 把信号灯的相位写到 redis 上，供其他进程查看
// 每次切换：SET <prefix>:<run>:light:<id> 保存当前相位，PUBLISH <prefix>:<run>:phases 广播 "<id>:<phase>"
type RedisBoard struct {
	client Client
	prefix string
	runID  string
	// 相位 key 的过期时间，0 表示不过期
	ttl time.Duration
	sg  *singleflight.Group
}

// Option option模式
type Option func(b *RedisBoard)

func WithKeyPrefix(prefix string) Option {
	return func(b *RedisBoard) {
		b.prefix = prefix
	}
}

// WithRunID 默认每个 RedisBoard 生成一个新的 uuid，多个进程要共享同一块看板时需要指定相同的 runID
func WithRunID(runID string) Option {
	return func(b *RedisBoard) {
		b.runID = runID
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(b *RedisBoard) {
		b.ttl = ttl
	}
}

func NewRedisBoard(client Client, opts ...Option) *RedisBoard {
	res := &RedisBoard{
		client: client,
		prefix: "traffic_sim",
		runID:  uuid.New().String(),
		sg:     &singleflight.Group{},
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (b *RedisBoard) RunID() string {
	return b.runID
}

// Channel 相位切换广播的频道
func (b *RedisBoard) Channel() string {
	return fmt.Sprintf("%s:%s:phases", b.prefix, b.runID)
}

func (b *RedisBoard) phaseKey(lightID int64) string {
	return fmt.Sprintf("%s:%s:light:%d", b.prefix, b.runID, lightID)
}

// Record 保存并广播一次相位切换
func (b *RedisBoard) Record(ctx context.Context, lightID int64, phase traffic.Phase) error {
	if err := b.client.Set(ctx, b.phaseKey(lightID), phase.String(), b.ttl).Err(); err != nil {
		return fmt.Errorf("board: 保存相位失败, light: %d, %w", lightID, err)
	}
	msg := strconv.FormatInt(lightID, 10) + ":" + phase.String()
	if err := b.client.Publish(ctx, b.Channel(), msg).Err(); err != nil {
		return fmt.Errorf("board: 广播相位失败, light: %d, %w", lightID, err)
	}
	return nil
}

// Phase 读取信号灯最近一次记录的相位
// 同一个信号灯的并发读取会合并成一次 redis 请求
func (b *RedisBoard) Phase(ctx context.Context, lightID int64) (traffic.Phase, error) {
	key := b.phaseKey(lightID)
	val, err, _ := b.sg.Do(key, func() (interface{}, error) {
		return b.client.Get(ctx, key).Result()
	})
	if errors.Is(err, redis.Nil) {
		return traffic.Stopped, fmt.Errorf("%w, light: %d", errs.ErrPhaseNotFound, lightID)
	}
	if err != nil {
		return traffic.Stopped, err
	}
	return traffic.ParsePhase(val.(string))
}

// ParseMessage 解析 Channel 上收到的消息
func ParseMessage(msg string) (int64, traffic.Phase, error) {
	idStr, phaseStr, ok := strings.Cut(msg, ":")
	if !ok {
		return 0, traffic.Stopped, fmt.Errorf("board: 消息格式错误 %q", msg)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, traffic.Stopped, fmt.Errorf("board: 消息格式错误 %q, %w", msg, err)
	}
	phase, err := traffic.ParsePhase(phaseStr)
	if err != nil {
		return 0, traffic.Stopped, err
	}
	return id, phase, nil
}
