package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"traffic_sim/internal/errs"
	"traffic_sim/traffic"
)

// Duration 在 toml 中写成 "4s"、"500ms" 这样的字符串
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	res, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = res
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Light struct {
	CycleMin     Duration `toml:"cycle_min"`
	CycleMax     Duration `toml:"cycle_max"`
	Tick         Duration `toml:"tick"`
	WaitPoll     Duration `toml:"wait_poll"`
	SendThrottle Duration `toml:"send_throttle"`
	Reroll       bool     `toml:"reroll"`
}

// Redis Addr 为空表示不启用相位看板
type Redis struct {
	Addr      string   `toml:"addr"`
	KeyPrefix string   `toml:"key_prefix"`
	TTL       Duration `toml:"ttl"`
}

type Config struct {
	Lights int `toml:"lights"`
	// 每个信号灯前面等待的车辆数
	Drivers int `toml:"drivers"`
	// 运行多久之后退出，0 表示一直运行直到收到信号
	RunFor   Duration `toml:"run_for"`
	LogLevel string   `toml:"log_level"`
	Light    Light    `toml:"light"`
	Redis    Redis    `toml:"redis"`
}

func Default() Config {
	return Config{
		Lights:   1,
		Drivers:  1,
		LogLevel: "info",
		Light: Light{
			CycleMin:     Duration{traffic.DefaultCycleMin},
			CycleMax:     Duration{traffic.DefaultCycleMax},
			Tick:         Duration{traffic.DefaultTickQuantum},
			WaitPoll:     Duration{traffic.DefaultWaitPoll},
			SendThrottle: Duration{traffic.DefaultSendThrottle},
		},
		Redis: Redis{
			KeyPrefix: "traffic_sim",
		},
	}
}

// Load 读取 toml 文件，没有写的字段使用默认值
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse 和 Load 一样，只是输入是字符串
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Lights <= 0 {
		return errs.NewErrInvalidConfig("lights", "必须大于 0")
	}
	if c.Drivers < 0 {
		return errs.NewErrInvalidConfig("drivers", "不能小于 0")
	}
	if c.RunFor.Duration < 0 {
		return errs.NewErrInvalidConfig("run_for", "不能小于 0")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errs.NewErrInvalidConfig("log_level", err.Error())
	}
	if c.Light.CycleMin.Duration <= 0 {
		return errs.NewErrInvalidConfig("light.cycle_min", "必须大于 0")
	}
	if c.Light.CycleMax.Duration < c.Light.CycleMin.Duration {
		return errs.NewErrInvalidConfig("light.cycle_max", "不能小于 cycle_min")
	}
	if c.Light.Tick.Duration <= 0 {
		return errs.NewErrInvalidConfig("light.tick", "必须大于 0")
	}
	if c.Light.WaitPoll.Duration < 0 || c.Light.SendThrottle.Duration < 0 {
		return errs.NewErrInvalidConfig("light", "wait_poll 和 send_throttle 不能小于 0")
	}
	if c.Redis.TTL.Duration < 0 {
		return errs.NewErrInvalidConfig("redis.ttl", "不能小于 0")
	}
	return nil
}

// Level 调用前需要先通过 Validate
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// LightOptions 转换成创建信号灯的参数
func (c Config) LightOptions() []traffic.LightOption {
	return []traffic.LightOption{
		traffic.WithCycleRange(c.Light.CycleMin.Duration, c.Light.CycleMax.Duration),
		traffic.WithTickQuantum(c.Light.Tick.Duration),
		traffic.WithWaitPoll(c.Light.WaitPoll.Duration),
		traffic.WithSendThrottle(c.Light.SendThrottle.Duration),
		traffic.WithRerollEachCycle(c.Light.Reroll),
	}
}
