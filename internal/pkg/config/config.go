package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RewardsConfig tunes the matching and ranking engine. Distances are statute
// miles, matching the geo package.
type RewardsConfig struct {
	// ProximityBufferMiles is the radius within which a visit counts as
	// being "at" an attraction for reward purposes.
	ProximityBufferMiles float64
	// AttractionProximityRangeMiles is the much larger radius within which
	// an attraction counts as nearby for presentation.
	AttractionProximityRangeMiles float64
	// NearbyAttractionLimit is the default number of attractions returned
	// by the nearest-attraction query.
	NearbyAttractionLimit int
	// WorkerPoolSize bounds the goroutines shared by batch reward runs and
	// async location tracking.
	WorkerPoolSize int
	// PointsCacheTTL is how long memoized attraction point values live.
	// Zero means they never expire; point values are invariant per
	// attraction, so expiry is only a memory-pressure valve.
	PointsCacheTTL time.Duration
}

// TrackerConfig tunes the background location tracker.
type TrackerConfig struct {
	PollingInterval time.Duration
}

type Config struct {
	Rewards RewardsConfig
	Tracker TrackerConfig
}

// Load reads configuration from the environment, falling back to the
// documented defaults. A .env file is honored when present.
func Load() (*Config, error) {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	rewards := RewardsConfig{
		ProximityBufferMiles:          getEnvFloatOrDefault("REWARD_PROXIMITY_BUFFER_MILES", 10),
		AttractionProximityRangeMiles: getEnvFloatOrDefault("ATTRACTION_PROXIMITY_RANGE_MILES", 200),
		NearbyAttractionLimit:         getEnvIntOrDefault("NEARBY_ATTRACTION_LIMIT", 5),
		WorkerPoolSize:                getEnvIntOrDefault("REWARD_WORKER_POOL_SIZE", 100),
		PointsCacheTTL:                getEnvDurationOrDefault("POINTS_CACHE_TTL", 0),
	}
	tracker := TrackerConfig{
		PollingInterval: getEnvDurationOrDefault("TRACKER_POLLING_INTERVAL", 5*time.Minute),
	}

	if rewards.ProximityBufferMiles <= 0 {
		return nil, fmt.Errorf("REWARD_PROXIMITY_BUFFER_MILES must be positive, got %v", rewards.ProximityBufferMiles)
	}
	if rewards.AttractionProximityRangeMiles < rewards.ProximityBufferMiles {
		return nil, fmt.Errorf("ATTRACTION_PROXIMITY_RANGE_MILES (%v) must not be smaller than the proximity buffer (%v)",
			rewards.AttractionProximityRangeMiles, rewards.ProximityBufferMiles)
	}
	if rewards.WorkerPoolSize <= 0 {
		return nil, fmt.Errorf("REWARD_WORKER_POOL_SIZE must be positive, got %d", rewards.WorkerPoolSize)
	}

	return &Config{Rewards: rewards, Tracker: tracker}, nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
