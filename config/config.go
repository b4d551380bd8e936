package config

import (
	"fmt"
)

type Configs struct {
	Env string `toml:"env"`

	Database    DatabaseConfigs    `toml:"database"`
	Redis       RedisConfigs       `toml:"redis"`
	Scoring     ScoringConfigs     `toml:"scoring"`
	Streak      StreakConfigs      `toml:"streak"`
	Leaderboard LeaderboardConfigs `toml:"leaderboard"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type ScoringConfigs struct {
	// CheckIntegrity enables the self-healing check after every total
	// update: the stored total is compared against the ledger sum and
	// overwritten on mismatch.
	CheckIntegrity bool `toml:"check_integrity"`

	// SnowflakeNode distinguishes event id generators between processes.
	SnowflakeNode int64 `toml:"snowflake_node"`
}

type StreakConfigs struct {
	Milestones []MilestoneConfigs `toml:"milestones"`
}

type MilestoneConfigs struct {
	Length      int     `toml:"length"`
	BonusPoints float64 `toml:"bonus_points"`
}

// DefaultMilestones is used when the config file does not override the
// milestone table.
var DefaultMilestones = []MilestoneConfigs{
	{Length: 7, BonusPoints: 10},
	{Length: 30, BonusPoints: 50},
	{Length: 90, BonusPoints: 150},
	{Length: 180, BonusPoints: 300},
	{Length: 365, BonusPoints: 1000},
}

type LeaderboardConfigs struct {
	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
}
