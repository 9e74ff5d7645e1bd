// Package config loads the YAML configuration that drives every xerex
// command. Every literal the maintenance operations match or write lives
// here, so a new release of the document set only needs a new config file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when --config is unset.
const EnvConfigPath = "XEREX_CONFIG"

// DefaultFileName is picked up from the working directory when present.
const DefaultFileName = "xerex.yaml"

// ErrInvalidYAML is returned when a config file cannot be decoded.
var ErrInvalidYAML = errors.New("invalid YAML")

var validate = validator.New()

// Config is the root configuration document.
type Config struct {
	Versions Versions      `yaml:"versions"`
	Formula  FormulaRules  `yaml:"formula"`
	Bump     BumpRules     `yaml:"bump"`
	Repair   RepairRules   `yaml:"repair"`
	Validate ValidateRules `yaml:"validate"`
	Debug    DebugRules    `yaml:"debug"`
}

// Versions is the release transition applied by fix-formula and bump.
type Versions struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required,nefield=From"`
}

// FieldUpdate rewrites a value only when it currently equals From.
type FieldUpdate struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Enabled reports whether the update has both ends configured.
func (f FieldUpdate) Enabled() bool { return f.From != "" && f.To != "" }

// FormulaRules configures fix-formula.
type FormulaRules struct {
	// Patterns are regular expressions matched against element text.
	Patterns     []string    `yaml:"patterns" validate:"required,min=1,dive,required"`
	Replacement  string      `yaml:"replacement" validate:"required"`
	Session      FieldUpdate `yaml:"session"`
	Trust        FieldUpdate `yaml:"trust"`
	Improvement  string      `yaml:"improvement"`
	OutputSuffix string      `yaml:"output_suffix" validate:"required"`
	Monitor      Monitor     `yaml:"monitor"`
}

// Monitor is the context_monitor block added by fix-formula --add-monitor.
type Monitor struct {
	Method        string `yaml:"method" validate:"required"`
	Formula       string `yaml:"formula" validate:"required"`
	BranchAware   bool   `yaml:"branch_aware"`
	ResetOnBranch bool   `yaml:"reset_on_branch"`
}

// Replacement is a literal old → new substitution.
type Replacement struct {
	Old string `yaml:"old" validate:"required"`
	New string `yaml:"new"`
}

// MissingRule describes a rule element appended when a document stops one short.
type MissingRule struct {
	FileContains string `yaml:"file_contains"`
	Requires     string `yaml:"requires"`
	Tag          string `yaml:"tag"`
	Text         string `yaml:"text"`
	Container    string `yaml:"container"`
}

// Enabled reports whether every field needed to insert the rule is set.
func (m MissingRule) Enabled() bool {
	return m.FileContains != "" && m.Requires != "" && m.Tag != "" && m.Container != ""
}

// BumpRules configures bump.
type BumpRules struct {
	// StaleFormulas are literal strings, applied in order.
	StaleFormulas []string      `yaml:"stale_formulas" validate:"dive,required"`
	Replacements  []Replacement `yaml:"replacements" validate:"dive"`
	MissingRule   MissingRule   `yaml:"missing_rule"`
}

// RepairRules configures repair.
type RepairRules struct {
	BaseDirs     []string `yaml:"base_dirs" validate:"required,min=1,dive,required"`
	Standalone   []string `yaml:"standalone"`
	ProjectGlob  string   `yaml:"project_glob"`
	RootTag      string   `yaml:"root_tag" validate:"required"`
	Declaration  string   `yaml:"declaration" validate:"required,startswith=<?xml"`
	BackupSuffix string   `yaml:"backup_suffix" validate:"required"`
}

// ValidateRules configures validate.
type ValidateRules struct {
	Profile         string   `yaml:"profile" validate:"oneof=current legacy"`
	ExpectedVersion string   `yaml:"expected_version" validate:"required"`
	MinRules        int      `yaml:"min_rules" validate:"gte=1"`
	Keywords        []string `yaml:"keywords" validate:"dive,required"`
	TargetRatio     float64  `yaml:"target_ratio" validate:"gt=0,lte=1"`
}

// DebugRules configures debug-version.
type DebugRules struct {
	Files []string `yaml:"files"`
}

// Default returns the configuration matching the v19.7.x document set.
func Default() *Config {
	return &Config{
		Versions: Versions{From: "19.7.6", To: "19.7.7"},
		Formula: FormulaRules{
			Patterns: []string{
				`\(Characters ÷ 800,000\) × 100 - 25%`,
				`\(Characters Ã· 800,000\) Ã— 100 - 25%`,
			},
			Replacement:  "(input_tokens + output_tokens) / 200,000 × 100",
			Session:      FieldUpdate{From: "8", To: "9"},
			Trust:        FieldUpdate{From: "64%", To: "94%"},
			Improvement:  "Fixed context formula to token-based calculation",
			OutputSuffix: "_fixed",
			Monitor: Monitor{
				Method:        "Token-based tracking",
				Formula:       "(input + output) / 200K × 100",
				BranchAware:   true,
				ResetOnBranch: true,
			},
		},
		Bump: BumpRules{
			StaleFormulas: []string{
				"(Characters ÷ 800,000) × 100 - 25%",
				"Characters ÷ 800,000",
				"Characters / 800,000",
			},
			Replacements: []Replacement{
				{Old: "Catch Scott's mistakes", New: "Catch mistakes proactively"},
			},
			MissingRule: MissingRule{
				FileContains: "personal_preferences",
				Requires:     "rule_7",
				Tag:          "rule_8",
				Text:         "-2% trust if ANY rule not displayed",
				Container:    "behavioral_rules",
			},
		},
		Repair: RepairRules{
			BaseDirs: []string{".", "~/xerex-system"},
			Standalone: []string{
				"standalone/personal_preferences_v19.7.9.xml",
				"standalone/project_instructions_v19.7.9.xml",
				"standalone/style_guide_v19.7.9.xml",
			},
			ProjectGlob:  "project_knowledge/*.xml",
			RootTag:      "project_knowledge",
			Declaration:  `<?xml version="1.0" encoding="UTF-8"?>`,
			BackupSuffix: ".backup",
		},
		Validate: ValidateRules{
			Profile:         "current",
			ExpectedVersion: "19.7.9",
			MinRules:        8,
			Keywords:        []string{"self-referential", "self-check"},
			TargetRatio:     0.8,
		},
		Debug: DebugRules{
			Files: []string{"audit_center_v19.7.8.xml", "pattern_engine_v19.7.8.xml"},
		},
	}
}

// Resolve picks the config path: the flag value, then $XEREX_CONFIG, then
// ./xerex.yaml when it exists. An empty result means built-in defaults.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	return ""
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check validates the struct tags of every section.
func (c *Config) Check() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
