package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"traffic_sim/board"
	"traffic_sim/config"
	"traffic_sim/traffic"
)

func main() {
	path := flag.String("config", "", "toml 配置文件路径，不指定时使用默认配置")
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		cfg, err = config.Load(*path)
		if err != nil {
			console := traffic.Console()
			console.Fatal().Err(err).Str("path", *path).Msg("load config failed")
		}
	}
	traffic.SetConsole(zerolog.ConsoleWriter{Out: os.Stdout}, cfg.Level())
	logger := traffic.Console()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunFor.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunFor.Duration)
		defer cancel()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("simulation failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	opts := cfg.LightOptions()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer client.Close()
		b := board.NewRedisBoard(client, board.WithKeyPrefix(cfg.Redis.KeyPrefix), board.WithTTL(cfg.Redis.TTL.Duration))
		opts = append(opts, traffic.WithPhaseRecorder(b))
		logger.Info().Str("channel", b.Channel()).Msg("phase board enabled")
	}

	lights := make([]*traffic.TrafficLight, 0, cfg.Lights)
	for i := 0; i < cfg.Lights; i++ {
		l := traffic.NewTrafficLight(opts...)
		l.SetPosition(float64(i)*100, 0)
		lights = append(lights, l)
	}
	defer func() {
		for _, l := range lights {
			_ = l.Close()
		}
	}()

	for _, s := range simulators(lights) {
		if err := s.Simulate(ctx); err != nil {
			return err
		}
	}

	var drivers traffic.Threads
	for _, l := range lights {
		for d := 0; d < cfg.Drivers; d++ {
			drivers.Go(func() error {
				return drive(ctx, l, d, logger)
			})
		}
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	for _, l := range lights {
		if err := l.Close(); err != nil {
			logger.Warn().Err(err).Int64("light_id", l.ID()).Msg("close light failed")
		}
	}
	return drivers.Wait()
}

func simulators(lights []*traffic.TrafficLight) []traffic.Simulator {
	res := make([]traffic.Simulator, 0, len(lights))
	for _, l := range lights {
		res = append(res, l)
	}
	return res
}

// drive 一辆车反复在信号灯前等待通行
func drive(ctx context.Context, l *traffic.TrafficLight, driver int, logger zerolog.Logger) error {
	log := logger.With().Int64("light_id", l.ID()).Int("driver", driver).Logger()
	for {
		log.Debug().Msg("waiting for green")
		err := l.WaitForGreen(ctx)
		if errors.Is(err, traffic.ErrLightClosed) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		x, y := l.Position()
		log.Info().Float64("x", x).Float64("y", y).Msg("crossing")
	}
}
