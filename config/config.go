package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Repository identifies a repository to analyze.
type Repository struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Config represents the application configuration.
type Config struct {
	DefaultFormat  string       `yaml:"default_format,omitempty"`
	Repositories   []Repository `yaml:"repositories,omitempty"`
	PriorityLabels []string     `yaml:"priority_labels,omitempty"`
	SnapshotDir    string       `yaml:"snapshot_dir,omitempty"`

	// Top-level config sections
	Flow      *FlowOverrides      `yaml:"flow,omitempty"`
	Milestone *MilestoneOverrides `yaml:"milestone,omitempty"`
	Ranking   *RankingOverrides   `yaml:"ranking,omitempty"`
	Trend     *TrendOverrides     `yaml:"trend,omitempty"`
}

// FlowOverrides allows customizing flow health detection thresholds.
type FlowOverrides struct {
	GroomingBacklogRatio *int `yaml:"grooming_backlog_ratio,omitempty"`
	GroomingMinBacklog   *int `yaml:"grooming_min_backlog,omitempty"`
	ReadyPileupMin       *int `yaml:"ready_pileup_min,omitempty"`
	WIPLimit             *int `yaml:"wip_limit,omitempty"`
}

// MilestoneOverrides allows customizing milestone health verdicts.
type MilestoneOverrides struct {
	AtRiskMultiplier *float64 `yaml:"at_risk_multiplier,omitempty"`
	BehindMultiplier *float64 `yaml:"behind_multiplier,omitempty"`
	OnTrackProgress  *float64 `yaml:"on_track_progress,omitempty"`
	DefaultVelocity  *float64 `yaml:"default_velocity,omitempty"`
}

// RankingOverrides allows customizing priority score weights.
type RankingOverrides struct {
	MilestoneBonus     *int `yaml:"milestone_bonus,omitempty"`
	PriorityLabelBonus *int `yaml:"priority_label_bonus,omitempty"`
	RecencyMaxBonus    *int `yaml:"recency_max_bonus,omitempty"`
}

// TrendOverrides allows customizing trend detection thresholds.
type TrendOverrides struct {
	SignificantChange *float64 `yaml:"significant_change,omitempty"`
	VelocityBand      *float64 `yaml:"velocity_band,omitempty"`
}

// Thresholds defines the complete set of analysis thresholds. An explicit
// Thresholds value is threaded into every analyzer call so there are no
// hidden module-level defaults.
type Thresholds struct {
	// Flow health detection
	GroomingBacklogRatio int
	GroomingMinBacklog   int
	ReadyPileupMin       int
	WIPLimit             int

	// Milestone health
	AtRiskMultiplier  float64
	BehindMultiplier  float64
	OnTrackProgress   float64
	DefaultVelocity   float64 // issues/week, used when no measured velocity exists
	MinWeeksRemaining float64 // floor for the weeks-remaining divisor

	// Priority ranking
	MilestoneBonus     int
	PriorityLabelBonus int
	RecencyMaxBonus    int

	// Trend detection
	SignificantChange float64 // snapshot delta significance, as a fraction
	VelocityBand      float64 // velocity direction dead band, as a fraction
}

// DefaultThresholds returns the default analysis thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GroomingBacklogRatio: 3,
		GroomingMinBacklog:   10,
		ReadyPileupMin:       3,
		WIPLimit:             3,

		AtRiskMultiplier:  2.0,
		BehindMultiplier:  1.5,
		OnTrackProgress:   0.8,
		DefaultVelocity:   1.5,
		MinWeeksRemaining: 0.1,

		MilestoneBonus:     100,
		PriorityLabelBonus: 50,
		RecencyMaxBonus:    30,

		SignificantChange: 0.20,
		VelocityBand:      0.10,
	}
}

// GetThresholds returns thresholds with user overrides merged over defaults.
func (c *Config) GetThresholds() Thresholds {
	th := DefaultThresholds()

	if c.Flow != nil {
		f := c.Flow
		if f.GroomingBacklogRatio != nil {
			th.GroomingBacklogRatio = *f.GroomingBacklogRatio
		}
		if f.GroomingMinBacklog != nil {
			th.GroomingMinBacklog = *f.GroomingMinBacklog
		}
		if f.ReadyPileupMin != nil {
			th.ReadyPileupMin = *f.ReadyPileupMin
		}
		if f.WIPLimit != nil {
			th.WIPLimit = *f.WIPLimit
		}
	}

	if c.Milestone != nil {
		m := c.Milestone
		if m.AtRiskMultiplier != nil {
			th.AtRiskMultiplier = *m.AtRiskMultiplier
		}
		if m.BehindMultiplier != nil {
			th.BehindMultiplier = *m.BehindMultiplier
		}
		if m.OnTrackProgress != nil {
			th.OnTrackProgress = *m.OnTrackProgress
		}
		if m.DefaultVelocity != nil {
			th.DefaultVelocity = *m.DefaultVelocity
		}
	}

	if c.Ranking != nil {
		r := c.Ranking
		if r.MilestoneBonus != nil {
			th.MilestoneBonus = *r.MilestoneBonus
		}
		if r.PriorityLabelBonus != nil {
			th.PriorityLabelBonus = *r.PriorityLabelBonus
		}
		if r.RecencyMaxBonus != nil {
			th.RecencyMaxBonus = *r.RecencyMaxBonus
		}
	}

	if c.Trend != nil {
		t := c.Trend
		if t.SignificantChange != nil {
			th.SignificantChange = *t.SignificantChange
		}
		if t.VelocityBand != nil {
			th.VelocityBand = *t.VelocityBand
		}
	}

	return th
}

// DefaultPriorityLabels returns the labels that mark an issue as high
// priority for ranking. Matched case-insensitively.
func DefaultPriorityLabels() []string {
	return []string{"critical", "high-priority", "urgent", "bug"}
}

// GetPriorityLabels returns the priority labels, using defaults if not configured.
func (c *Config) GetPriorityLabels() []string {
	if len(c.PriorityLabels) > 0 {
		return c.PriorityLabels
	}
	return DefaultPriorityLabels()
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".pulse"
	}
	return filepath.Join(configDir, "pulse")
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory.
func LocalConfigPath() string {
	return ".pulse.yaml"
}

// Load loads the configuration from disk. It first loads the global config
// from the XDG config directory, then merges any local .pulse.yaml on top
// (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{
		DefaultFormat: "table",
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}

	if len(local.Repositories) > 0 {
		result.Repositories = local.Repositories
	} else {
		result.Repositories = global.Repositories
	}

	if len(local.PriorityLabels) > 0 {
		result.PriorityLabels = local.PriorityLabels
	} else {
		result.PriorityLabels = global.PriorityLabels
	}

	if local.SnapshotDir != "" {
		result.SnapshotDir = local.SnapshotDir
	} else {
		result.SnapshotDir = global.SnapshotDir
	}

	result.Flow = mergeFlow(global.Flow, local.Flow)
	result.Milestone = mergeMilestone(global.Milestone, local.Milestone)
	result.Ranking = mergeRanking(global.Ranking, local.Ranking)
	result.Trend = mergeTrend(global.Trend, local.Trend)

	return result
}

func mergeFlow(global, local *FlowOverrides) *FlowOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &FlowOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.GroomingBacklogRatio != nil {
			result.GroomingBacklogRatio = local.GroomingBacklogRatio
		}
		if local.GroomingMinBacklog != nil {
			result.GroomingMinBacklog = local.GroomingMinBacklog
		}
		if local.ReadyPileupMin != nil {
			result.ReadyPileupMin = local.ReadyPileupMin
		}
		if local.WIPLimit != nil {
			result.WIPLimit = local.WIPLimit
		}
	}
	return result
}

func mergeMilestone(global, local *MilestoneOverrides) *MilestoneOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &MilestoneOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.AtRiskMultiplier != nil {
			result.AtRiskMultiplier = local.AtRiskMultiplier
		}
		if local.BehindMultiplier != nil {
			result.BehindMultiplier = local.BehindMultiplier
		}
		if local.OnTrackProgress != nil {
			result.OnTrackProgress = local.OnTrackProgress
		}
		if local.DefaultVelocity != nil {
			result.DefaultVelocity = local.DefaultVelocity
		}
	}
	return result
}

func mergeRanking(global, local *RankingOverrides) *RankingOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &RankingOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.MilestoneBonus != nil {
			result.MilestoneBonus = local.MilestoneBonus
		}
		if local.PriorityLabelBonus != nil {
			result.PriorityLabelBonus = local.PriorityLabelBonus
		}
		if local.RecencyMaxBonus != nil {
			result.RecencyMaxBonus = local.RecencyMaxBonus
		}
	}
	return result
}

func mergeTrend(global, local *TrendOverrides) *TrendOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &TrendOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.SignificantChange != nil {
			result.SignificantChange = local.SignificantChange
		}
		if local.VelocityBand != nil {
			result.VelocityBand = local.VelocityBand
		}
	}
	return result
}

// ConfigPaths describes the global and local config file locations.
type ConfigPaths struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns the global and local config paths and whether each exists.
func GetConfigPaths() ConfigPaths {
	paths := ConfigPaths{
		GlobalPath: ConfigPath(),
		LocalPath:  LocalConfigPath(),
	}
	if _, err := os.Stat(paths.GlobalPath); err == nil {
		paths.GlobalExists = true
	}
	if _, err := os.Stat(paths.LocalPath); err == nil {
		paths.LocalExists = true
	}
	return paths
}

// SaveTo writes raw config content to the given path, creating parent
// directories as needed.
func SaveTo(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Save saves the configuration to the global config path.
func (c *Config) Save() error {
	configDir := DefaultConfigDir()

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Following 12-factor app best practices, tokens are only read
// from the environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// ToYAML returns the config as a YAML string.
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// MinimalConfig returns a minimal config template with comments.
func MinimalConfig() string {
	return `# Pulse configuration file

# Output format: table, json or markdown
default_format: table

# Repositories to analyze
repositories:
  - owner: your-org
    name: your-repo

# Labels that mark an issue as high priority (optional)
# priority_labels:
#   - critical
#   - urgent

# Override flow health thresholds (optional)
# flow:
#   wip_limit: 3
#   grooming_min_backlog: 10

# Override milestone health settings (optional)
# milestone:
#   default_velocity: 1.5
`
}
