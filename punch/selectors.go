package punch

// SelectorSet maps logical UI roles to selector strings. Selectors are
// opaque, immutable configuration; every use must tolerate a selector
// failing and fall back rather than assume correctness.
type SelectorSet struct {
	UsernameInput     string `json:"username_input" yaml:"username_input"`
	PasswordInput     string `json:"password_input" yaml:"password_input"`
	LoginButton       string `json:"login_button" yaml:"login_button"`
	CodeInput         string `json:"code_input" yaml:"code_input"`
	TimeTrackingIcon  string `json:"time_tracking_icon" yaml:"time_tracking_icon"`
	ViewTimesheetLink string `json:"view_timesheet_link" yaml:"view_timesheet_link"`
	EntriesPanel      string `json:"entries_panel" yaml:"entries_panel"`
	AddEntryButton    string `json:"add_entry_button" yaml:"add_entry_button"`
	TimeInput         string `json:"time_input" yaml:"time_input"`
	TypeDropdown      string `json:"type_dropdown" yaml:"type_dropdown"`
	SubmitButton      string `json:"submit_button" yaml:"submit_button"`
}
