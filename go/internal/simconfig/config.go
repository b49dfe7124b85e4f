// Package simconfig loads the settings and input league for a simulation run.
package simconfig

import (
	"os"
	"strconv"
	"strings"

	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/nats-io/nats.go"
)

// Config holds everything the simulation binary reads from the environment.
type Config struct {
	Settings         models.DraftSettings
	InputFile        string
	AutoPickStrategy string
	NATSURL          string
	NATSEnabled      bool
	LogLevel         string
}

// NewConfigFromEnv reads DRAFT_* and related environment variables (with defaults).
func NewConfigFromEnv() Config {
	defaults := models.DefaultDraftSettings()

	settings := models.DraftSettings{
		Rounds:                getEnvAsInt("DRAFT_ROUNDS", defaults.Rounds),
		DraftType:             models.DraftType(strings.ToUpper(getEnv("DRAFT_TYPE", string(defaults.DraftType)))),
		ThirdRoundReversal:    getEnvAsBool("DRAFT_THIRD_ROUND_REVERSAL", defaults.ThirdRoundReversal),
		TradesEnabled:         getEnvAsBool("DRAFT_TRADES_ENABLED", defaults.TradesEnabled),
		TradeFrequency:        models.TradeFrequency(strings.ToLower(getEnv("DRAFT_TRADE_FREQUENCY", string(defaults.TradeFrequency)))),
		AutoDecide:            getEnvAsBool("DRAFT_AUTO_DECIDE", defaults.AutoDecide),
		TimePerPickSec:        getEnvAsInt("DRAFT_TIME_PER_PICK_SEC", defaults.TimePerPickSec),
		FuturePickProbability: getEnvAsFloat("DRAFT_FUTURE_PICK_PROBABILITY", defaults.FuturePickProbability),
		Seed:                  int64(getEnvAsInt("DRAFT_SEED", 0)),
	}

	return Config{
		Settings:         settings,
		InputFile:        getEnv("DRAFT_INPUT_FILE", ""),
		AutoPickStrategy: strings.ToLower(getEnv("AUTO_PICK_STRATEGY", "need")),
		NATSURL:          getEnv("NATS_URL", nats.DefaultURL),
		NATSEnabled:      getEnvAsBool("NATS_ENABLED", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
