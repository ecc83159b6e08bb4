package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type GameConfig struct {
	DefaultBoardSize   int     `json:"default_board_size"`
	DefaultDifficulty  string  `json:"default_difficulty"`
	SearchTimeBudgetMs int     `json:"search_time_budget_ms"`
	EasyRandomRate     float64 `json:"easy_random_rate"`
	// BotMinDelayTicks and BotMaxDelayTicks bound the pause before the bot moves.
	BotMinDelayTicks int  `json:"bot_min_delay_ticks"`
	BotMaxDelayTicks int  `json:"bot_max_delay_ticks"`
	HumanStarts      bool `json:"human_starts"`
}

// Defaults returns the configuration used when no file has been loaded.
func Defaults() GameConfig {
	return GameConfig{
		DefaultBoardSize:   3,
		DefaultDifficulty:  "hard",
		SearchTimeBudgetMs: 500,
		EasyRandomRate:     0.7,
		BotMinDelayTicks:   1,
		BotMaxDelayTicks:   2,
		HumanStarts:        true,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
// Fields absent from the file keep their default values.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Defaults()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		c.normalize()
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults if none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		d := Defaults()
		return &d
	}
	return cfg
}

// SearchTimeBudget returns the hard-mode budget as a duration.
func (c *GameConfig) SearchTimeBudget() time.Duration {
	return time.Duration(c.SearchTimeBudgetMs) * time.Millisecond
}

func (c *GameConfig) normalize() {
	d := Defaults()
	if c.DefaultBoardSize < 3 || c.DefaultBoardSize > 10 {
		c.DefaultBoardSize = d.DefaultBoardSize
	}
	if c.DefaultDifficulty == "" {
		c.DefaultDifficulty = d.DefaultDifficulty
	}
	if c.SearchTimeBudgetMs <= 0 {
		c.SearchTimeBudgetMs = d.SearchTimeBudgetMs
	}
	if c.EasyRandomRate < 0 || c.EasyRandomRate > 1 {
		c.EasyRandomRate = d.EasyRandomRate
	}
	if c.BotMinDelayTicks < 0 {
		c.BotMinDelayTicks = 0
	}
	if c.BotMaxDelayTicks < c.BotMinDelayTicks {
		c.BotMaxDelayTicks = c.BotMinDelayTicks
	}
}
