package traffic

import (
	"fmt"

	"traffic_sim/internal/errs"
)

// Phase 信号灯相位，只有停止和通行两个取值
type Phase int32

const (
	Stopped Phase = iota
	Go
)

func (p Phase) String() string {
	switch p {
	case Stopped:
		return "stopped"
	case Go:
		return "go"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Toggle 返回相反的相位
func (p Phase) Toggle() Phase {
	if p == Go {
		return Stopped
	}
	return Go
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	res, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = res
	return nil
}

// ParsePhase 解析 String 的输出
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "stopped":
		return Stopped, nil
	case "go":
		return Go, nil
	default:
		return Stopped, fmt.Errorf("%w: %q", errs.ErrPhaseNotFound, s)
	}
}
