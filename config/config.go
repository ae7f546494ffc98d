package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"stempeluhr/internal/calendar"
	"stempeluhr/report"
	"stempeluhr/timesheet"
)

const (
	KeyGermanState       = "german_state"
	KeyLanguage          = "language"
	KeyWorkHoursPerDay   = "work_hours_per_day"
	KeyMaxDailyHours     = "max_daily_hours"
	KeyEnableCompliance  = "enable_compliance"
	KeyAccountingColumns = "accounting_columns"
	KeyRespectHolidays   = "respect_holidays"
	KeyRespectWeekends   = "respect_weekends"
)

// Config is the application configuration loaded from .stempeluhr.yaml.
type Config struct {
	GermanState       string   `mapstructure:"german_state" validate:"required"`
	Language          string   `mapstructure:"language" validate:"oneof=de en"`
	WorkHoursPerDay   float64  `mapstructure:"work_hours_per_day" validate:"gt=0,lte=24"`
	MaxDailyHours     float64  `mapstructure:"max_daily_hours" validate:"gt=0,lte=24"`
	EnableCompliance  bool     `mapstructure:"enable_compliance"`
	AccountingColumns []string `mapstructure:"accounting_columns"`
	// RespectHolidays/RespectWeekends make the timer point out that a newly
	// started entry falls on a non-workday.
	RespectHolidays bool `mapstructure:"respect_holidays"`
	RespectWeekends bool `mapstructure:"respect_weekends"`
}

// Preferences converts the config into the report engine's settings.
func (c *Config) Preferences() report.Preferences {
	return report.Preferences{
		AccountingColumns: c.AccountingColumns,
		DailyTargetHours:  c.WorkHoursPerDay,
		ComplianceEnabled: c.EnableCompliance,
		MaxDailyHours:     c.MaxDailyHours,
		Language:          c.Language,
	}
}

// ReportRun is a per-run report description, loaded from its own YAML file.
type ReportRun struct {
	Period        string         `mapstructure:"period" validate:"required"`
	TimeOff       []TimeOffBlock `mapstructure:"time_off"`
	ExcludedTasks []string       `mapstructure:"excluded_tasks"`
	Output        string         `mapstructure:"output"`
}

// TimeOffBlock declares virtual hours on calendar dates for one task name.
type TimeOffBlock struct {
	TaskName   string   `mapstructure:"task_name"`
	Days       []string `mapstructure:"days"`
	DailyHours float64  `mapstructure:"daily_hours"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# stempeluhr configuration
german_state: "BY"
language: "de"

work_hours_per_day: 8.0
max_daily_hours: 10.0
enable_compliance: true

respect_holidays: true
respect_weekends: true

# Accounting attribute names, in report column order.
accounting_columns:
  - "CostCenter"
  - "ProjectCode"
`
}

// ExampleReportYAML returns a report run template.
func ExampleReportYAML() string {
	return `# stempeluhr report run
period: "` + time.Now().Format("2006-01") + `"

time_off:
  - task_name: "Urlaub"
    days: ["24.12.2026", "2026-12-27"]
    daily_hours: 8.0

excluded_tasks:
  - "Pause"

output: "report.xlsx"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !calendar.ValidState(cfg.GermanState) {
		return nil, fmt.Errorf("validation failed: unknown german_state %q", cfg.GermanState)
	}
	if err := validateColumns(cfg.AccountingColumns); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyGermanState, calendar.DefaultState)
	v.SetDefault(KeyLanguage, "de")
	v.SetDefault(KeyWorkHoursPerDay, 8.0)
	v.SetDefault(KeyMaxDailyHours, 10.0)
	v.SetDefault(KeyEnableCompliance, true)
	v.SetDefault(KeyAccountingColumns, []string{})
	v.SetDefault(KeyRespectHolidays, true)
	v.SetDefault(KeyRespectWeekends, true)
}

func validateColumns(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for i, column := range columns {
		name := strings.TrimSpace(column)
		if name == "" {
			return fmt.Errorf("validation failed: accounting_columns[%d] is empty", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate accounting column %q", name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// LoadReportRun reads and validates a report run YAML file.
func LoadReportRun(path string) (*ReportRun, error) {
	local := viper.New()
	local.SetConfigFile(path)
	local.SetConfigType("yaml")
	if err := local.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read report config %s: %w", path, err)
	}

	var run ReportRun
	if err := local.Unmarshal(&run); err != nil {
		return nil, fmt.Errorf("error unmarshaling report config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(run); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := report.ParsePeriod(run.Period); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	for i, block := range run.TimeOff {
		if strings.TrimSpace(block.TaskName) == "" {
			return nil, fmt.Errorf("validation failed: time_off[%d].task_name is required", i)
		}
		if block.DailyHours < 0 {
			return nil, fmt.Errorf("validation failed: time_off[%d].daily_hours is negative", i)
		}
		for _, day := range block.Days {
			if _, err := parseDay(day); err != nil {
				return nil, fmt.Errorf("validation failed: time_off[%d]: %w", i, err)
			}
		}
	}

	return &run, nil
}

// ReportConfig converts the run into the engine's input. Days accept the
// German DD.MM.YYYY form and ISO YYYY-MM-DD.
func (r *ReportRun) ReportConfig() (report.Config, error) {
	period, err := report.ParsePeriod(r.Period)
	if err != nil {
		return report.Config{}, err
	}

	timeOff := make([]timesheet.TimeOff, 0, len(r.TimeOff))
	for _, block := range r.TimeOff {
		hours := block.DailyHours
		if hours == 0 {
			hours = 8
		}
		days := make([]time.Time, 0, len(block.Days))
		for _, raw := range block.Days {
			day, err := parseDay(raw)
			if err != nil {
				return report.Config{}, err
			}
			days = append(days, day)
		}
		timeOff = append(timeOff, timesheet.TimeOff{
			TaskName:   block.TaskName,
			Days:       days,
			DailyHours: hours,
		})
	}

	return report.Config{
		Period:        period,
		TimeOff:       timeOff,
		ExcludedTasks: r.ExcludedTasks,
	}, nil
}

func parseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"02.01.2006", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q (expected DD.MM.YYYY or YYYY-MM-DD)", value)
}
