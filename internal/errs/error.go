package errs

import (
	"errors"
	"fmt"
)

var (
	ErrQueueClosed   = errors.New("traffic_sim：队列已关闭")
	ErrLightClosed   = errors.New("traffic_sim：信号灯已停止")
	ErrInvalidConfig = errors.New("traffic_sim：配置不合法")
	ErrPhaseNotFound = errors.New("traffic_sim：相位不存在")
)

// NewErrIndexOutOfRange 创建一个代表下标超出范围的错误
func NewErrIndexOutOfRange(length int, index int) error {
	return fmt.Errorf("traffic_sim: 下标超出范围，长度 %d, 下标 %d", length, index)
}

// NewErrInvalidConfig 创建一个配置项不合法的错误，可以用 errors.Is 判断 ErrInvalidConfig
func NewErrInvalidConfig(field string, reason string) error {
	return fmt.Errorf("%w, %s: %s", ErrInvalidConfig, field, reason)
}
