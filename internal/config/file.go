// CLAUDE:SUMMARY Defines pointeuse config structs and parses YAML configuration files with defaults.
// Package config handles pointeuse configuration from a YAML file plus
// environment secrets.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/pointeuse/punch"
)

// Config is the top-level pointeuse configuration.
type Config struct {
	BaseURL        string            `yaml:"base_url"`
	UserID         string            `yaml:"user_id"`
	IDPMarker      string            `yaml:"idp_marker"`
	MisrouteMarker string            `yaml:"misroute_marker"`
	Browser        BrowserConfig     `yaml:"browser"`
	Selectors      punch.SelectorSet `yaml:"selectors"`
	Timeouts       TimeoutConfig     `yaml:"timeouts"`
	Labels         LabelConfig       `yaml:"labels"`
	Schedules      map[string][]Slot `yaml:"schedules"`
	DayPlan        map[string]string `yaml:"day_plan"`
	Sinks          []SinkConfig      `yaml:"sinks"`
	DumpDir        string            `yaml:"dump_dir"` // HTML snapshots on failed runs; empty disables
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote           string   `yaml:"remote"` // DevTools websocket URL; empty launches locally
	Mode             string   `yaml:"mode"`   // headless | headful
	ResourceBlocking []string `yaml:"resource_blocking"`
}

// TimeoutConfig bounds every wait in the run.
type TimeoutConfig struct {
	Element          Duration `yaml:"element"`            // per-stage element waits
	Settle           Duration `yaml:"settle"`             // pause after actions for rendering to catch up
	Icon             Duration `yaml:"icon"`               // time-tracking icon wait
	Link             Duration `yaml:"link"`               // view-timesheet link wait
	Navigate         Duration `yaml:"navigate"`           // direct URL navigation
	LoginNavWait     Duration `yaml:"login_nav_wait"`     // navigation race during the credential step
	CodeNavRace      Duration `yaml:"code_nav_race"`      // navigation race after code submit
	CodeSubmitWait   Duration `yaml:"code_submit_wait"`   // fixed cap racing the code-submit navigation
	CodePollInterval Duration `yaml:"code_poll_interval"` // pause between code-field polls
	CodePollAttempts int      `yaml:"code_poll_attempts"`
	EntryPause       Duration `yaml:"entry_pause"` // pause between entries
}

// LabelConfig overrides the display text of the kind dropdown options
// (locale variants).
type LabelConfig struct {
	ClockIn  string `yaml:"clock_in"`
	ClockOut string `yaml:"clock_out"`
}

// Slot is one scheduled punch in YAML form.
type Slot struct {
	Time string `yaml:"time"`
	Kind string `yaml:"kind"` // clock_in | clock_out
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout | webhook
	URL  string `yaml:"url"`  // for webhook
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.IDPMarker == "" {
		c.IDPMarker = "accounts.sap.com"
	}
	if c.MisrouteMarker == "" {
		c.MisrouteMarker = "companyentry"
	}
	if c.Browser.Mode == "" {
		c.Browser.Mode = "headless"
	}
	if c.Timeouts.Element <= 0 {
		c.Timeouts.Element = Duration(10 * time.Second)
	}
	if c.Timeouts.Settle <= 0 {
		c.Timeouts.Settle = Duration(2 * time.Second)
	}
	if c.Timeouts.Icon <= 0 {
		c.Timeouts.Icon = Duration(15 * time.Second)
	}
	if c.Timeouts.Link <= 0 {
		c.Timeouts.Link = Duration(10 * time.Second)
	}
	if c.Timeouts.Navigate <= 0 {
		c.Timeouts.Navigate = Duration(30 * time.Second)
	}
	if c.Timeouts.LoginNavWait <= 0 {
		c.Timeouts.LoginNavWait = Duration(10 * time.Second)
	}
	if c.Timeouts.CodeNavRace <= 0 {
		c.Timeouts.CodeNavRace = Duration(20 * time.Second)
	}
	if c.Timeouts.CodeSubmitWait <= 0 {
		c.Timeouts.CodeSubmitWait = Duration(8 * time.Second)
	}
	if c.Timeouts.CodePollInterval <= 0 {
		c.Timeouts.CodePollInterval = Duration(time.Second)
	}
	if c.Timeouts.CodePollAttempts <= 0 {
		c.Timeouts.CodePollAttempts = 10
	}
	if c.Timeouts.EntryPause <= 0 {
		c.Timeouts.EntryPause = Duration(2 * time.Second)
	}
	if c.Labels.ClockIn == "" {
		c.Labels.ClockIn = punch.ClockIn.DefaultLabel()
	}
	if c.Labels.ClockOut == "" {
		c.Labels.ClockOut = punch.ClockOut.DefaultLabel()
	}
	if len(c.DayPlan) == 0 && len(c.Schedules) > 0 {
		if _, ok := c.Schedules["standard"]; ok {
			c.DayPlan = map[string]string{"default": "standard"}
			if _, ok := c.Schedules["friday"]; ok {
				c.DayPlan["friday"] = "friday"
			}
		}
	}
	if len(c.Sinks) == 0 {
		c.Sinks = []SinkConfig{{Type: "stdout"}}
	}
	defaultSelectors(&c.Selectors)
}

func defaultSelectors(s *punch.SelectorSet) {
	def := func(field *string, sel string) {
		if *field == "" {
			*field = sel
		}
	}
	def(&s.UsernameInput, "#j_username")
	def(&s.PasswordInput, "#j_password")
	def(&s.LoginButton, "#logOnFormSubmit")
	def(&s.CodeInput, "#otp-input")
	def(&s.TimeTrackingIcon, `div[data-help-id="time-tracking"]`)
	def(&s.ViewTimesheetLink, `a[title="View Timesheet"]`)
	def(&s.EntriesPanel, `button[title="Time Entries"]`)
	def(&s.AddEntryButton, `button[title="Add Entry"]`)
	def(&s.TimeInput, `input[placeholder="Time"]`)
	def(&s.TypeDropdown, `input[role="combobox"]`)
	def(&s.SubmitButton, `button[title="Save"]`)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Validate reports startup-time configuration errors. Secrets are validated
// separately; the user id is deliberately not required here because only the
// URL-fallback navigation needs it.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("config: base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.Browser.Mode != "headless" && c.Browser.Mode != "headful" {
		return fmt.Errorf("config: browser.mode %q (want headless or headful)", c.Browser.Mode)
	}
	if len(c.Schedules) == 0 {
		return fmt.Errorf("config: at least one schedule is required")
	}
	for name, slots := range c.Schedules {
		for i, slot := range slots {
			if !punch.ValidTime(slot.Time) {
				return fmt.Errorf("config: schedule %q slot %d: time %q does not match HH:MM", name, i, slot.Time)
			}
			if slot.Kind != string(punch.ClockIn) && slot.Kind != string(punch.ClockOut) {
				return fmt.Errorf("config: schedule %q slot %d: unknown kind %q", name, i, slot.Kind)
			}
			if i > 0 && slots[i-1].Time > slot.Time {
				return fmt.Errorf("config: schedule %q is not time-ascending at slot %d", name, i)
			}
		}
	}
	if len(c.DayPlan) == 0 {
		return fmt.Errorf("config: day_plan is required")
	}
	for day, name := range c.DayPlan {
		if day != "default" {
			if _, ok := weekdayNames[day]; !ok {
				return fmt.Errorf("config: day_plan key %q is not a weekday", day)
			}
		}
		if _, ok := c.Schedules[name]; !ok {
			return fmt.Errorf("config: day_plan %s references unknown schedule %q", day, name)
		}
	}
	if _, ok := c.DayPlan["default"]; !ok {
		return fmt.Errorf("config: day_plan needs a default schedule")
	}
	for i, s := range c.Sinks {
		switch s.Type {
		case "stdout":
		case "webhook":
			if s.URL == "" {
				return fmt.Errorf("config: sink %d: webhook needs a url", i)
			}
		default:
			return fmt.Errorf("config: sink %d: unknown type %q", i, s.Type)
		}
	}
	return nil
}

// ScheduleSet converts the YAML schedules into punch types.
func (c *Config) ScheduleSet() map[string]punch.Schedule {
	out := make(map[string]punch.Schedule, len(c.Schedules))
	for name, slots := range c.Schedules {
		sched := punch.Schedule{Name: name, Slots: make([]punch.Entry, 0, len(slots))}
		for _, slot := range slots {
			sched.Slots = append(sched.Slots, punch.Entry{Time: slot.Time, Kind: punch.Kind(slot.Kind)})
		}
		out[name] = sched
	}
	return out
}

// Plan converts the YAML day plan into a punch.DayPlan.
func (c *Config) Plan() punch.DayPlan {
	plan := punch.DayPlan{Default: c.DayPlan["default"]}
	for day, name := range c.DayPlan {
		if day == "default" {
			continue
		}
		w, ok := weekdayNames[day]
		if !ok {
			continue
		}
		if plan.Weekdays == nil {
			plan.Weekdays = make(map[time.Weekday]string)
		}
		plan.Weekdays[w] = name
	}
	return plan
}

// LabelMap returns the display text per kind.
func (c *Config) LabelMap() map[punch.Kind]string {
	return map[punch.Kind]string{
		punch.ClockIn:  c.Labels.ClockIn,
		punch.ClockOut: c.Labels.ClockOut,
	}
}
