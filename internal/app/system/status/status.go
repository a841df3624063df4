// internal/app/system/status/status.go
package status

// Account/record statuses shared by users, teams, and events.
const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a known record status.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}
