package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"traffic_sim/internal/errs"
	"traffic_sim/traffic"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		check   func(t *testing.T, cfg Config)
		wantErr error
	}{
		{
			name: "空文件使用默认值",
			data: "",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, Default(), cfg)
				assert.Equal(t, 4*time.Second, cfg.Light.CycleMin.Duration)
				assert.Equal(t, 500*time.Millisecond, cfg.Light.SendThrottle.Duration)
			},
		},
		{
			name: "覆盖部分字段",
			data: `
lights = 3
drivers = 2
run_for = "1m"
log_level = "debug"

[light]
cycle_min = "1s"
cycle_max = "2s"
send_throttle = "0s"
reroll = true

[redis]
addr = "127.0.0.1:6379"
ttl = "30s"
`,
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 3, cfg.Lights)
				assert.Equal(t, 2, cfg.Drivers)
				assert.Equal(t, time.Minute, cfg.RunFor.Duration)
				assert.Equal(t, zerolog.DebugLevel, cfg.Level())
				assert.Equal(t, time.Second, cfg.Light.CycleMin.Duration)
				assert.Equal(t, 2*time.Second, cfg.Light.CycleMax.Duration)
				assert.Equal(t, time.Duration(0), cfg.Light.SendThrottle.Duration)
				assert.Equal(t, time.Millisecond, cfg.Light.Tick.Duration)
				assert.True(t, cfg.Light.Reroll)
				assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
				assert.Equal(t, "traffic_sim", cfg.Redis.KeyPrefix)
				assert.Equal(t, 30*time.Second, cfg.Redis.TTL.Duration)
			},
		},
		{
			name:    "没有信号灯",
			data:    "lights = 0",
			wantErr: errs.ErrInvalidConfig,
		},
		{
			name: "周期范围颠倒",
			data: `
[light]
cycle_min = "6s"
cycle_max = "4s"
`,
			wantErr: errs.ErrInvalidConfig,
		},
		{
			name:    "日志级别不存在",
			data:    `log_level = "loud"`,
			wantErr: errs.ErrInvalidConfig,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse(tc.data)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			if err != nil {
				return
			}
			tc.check(t, cfg)
		})
	}
}

func TestParse_BadDuration(t *testing.T) {
	_, err := Parse(`run_for = "soon"`)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trafficsim.toml")
	require.NoError(t, os.WriteFile(path, []byte("lights = 2\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Lights)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfig_LightOptions(t *testing.T) {
	cfg := Default()
	cfg.Light.CycleMin = Duration{time.Second}
	cfg.Light.CycleMax = Duration{time.Second}
	l := traffic.NewTrafficLight(append(cfg.LightOptions(), traffic.WithLogger(zerolog.Nop()))...)
	assert.Equal(t, traffic.Stopped, l.CurrentPhase())
	require.NoError(t, l.Close())
}
