package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/draft/outbox"
	"github.com/mcdev12/mockdraft/go/internal/draft/report"
	"github.com/mcdev12/mockdraft/go/internal/draft/trade"
	"github.com/mcdev12/mockdraft/go/internal/simconfig"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg := simconfig.NewConfigFromEnv()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	input := simconfig.DefaultInput(cfg.Settings)
	if cfg.InputFile != "" {
		input, err = simconfig.LoadInput(cfg.InputFile, cfg.Settings)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.InputFile).Msg("failed to load input")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher outbox.EventPublisher = outbox.NewLogPublisher()
	if cfg.NATSEnabled {
		jsCfg := outbox.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATSURL
		js, err := outbox.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			log.Fatal().Err(err).Str("nats_url", cfg.NATSURL).Msg("failed to set up JetStream publisher")
		}
		defer js.Close()
		publisher = js
	}

	clock := clockwork.NewRealClock()
	metrics := outbox.NewCounterMetrics()
	relay := outbox.NewRelay(publisher, outbox.DefaultConfig(), metrics, clock)
	if err := relay.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start outbox relay")
	}

	seed := input.Settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	input.Settings.Seed = seed

	var strat orchestrator.AutoPickStrategy = orchestrator.NeedBasedStrategy{}
	if cfg.AutoPickStrategy == "random" {
		strat = orchestrator.NewRandomStrategy(trade.NewLockedRand(rand.New(rand.NewSource(seed + 1))))
	}

	log.Info().
		Int("participants", len(input.Participants)).
		Int("candidates", len(input.Candidates)).
		Int("rounds", input.Settings.Rounds).
		Bool("trades_enabled", input.Settings.TradesEnabled).
		Str("trade_frequency", string(input.Settings.TradeFrequency)).
		Str("strategy", cfg.AutoPickStrategy).
		Int64("seed", seed).
		Bool("nats", cfg.NATSEnabled).
		Msg("starting draft simulation")

	sim, err := newSimulator(input, relay, clock, orchestrator.WithStrategy(strat))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build draft engine")
	}

	runErr := sim.run(ctx)
	sim.engine.Stop()
	if err := relay.Stop(); err != nil {
		log.Warn().Err(err).Msg("outbox relay stop")
	}

	for eventType, c := range metrics.Snapshot() {
		log.Debug().
			Str("event_type", string(eventType)).
			Int("published", c.Published).
			Int("failed", c.Failed).
			Int("dropped", c.Dropped).
			Msg("outbox metrics")
	}

	switch {
	case runErr == nil:
		fmt.Println(report.Render(sim.draft()))
		log.Info().Msg("draft simulation complete")
	case errors.Is(runErr, context.Canceled):
		log.Info().Msg("draft simulation interrupted")
	default:
		log.Error().Err(runErr).Msg("draft simulation failed")
		os.Exit(1)
	}
}
