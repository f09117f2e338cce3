package function

import "fmt"

// Severity of a message reported to the host.
type Severity int

const (
	// Error blocks downstream use of the node's outputs.
	Error Severity = iota
	Warning
	// Remark is informational.
	Remark
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Remark:
		return "remark"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Messages holds the three message channels of one evaluation.
type Messages struct {
	Errors   []string
	Warnings []string
	Remarks  []string
}

func (m *Messages) Errorf(format string, args ...any) {
	m.Errors = append(m.Errors, fmt.Sprintf(format, args...))
}

func (m *Messages) Warnf(format string, args ...any) {
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, args...))
}

func (m *Messages) Remarkf(format string, args ...any) {
	m.Remarks = append(m.Remarks, fmt.Sprintf(format, args...))
}

func (m *Messages) HasErrors() bool {
	return len(m.Errors) > 0
}

func (m *Messages) Empty() bool {
	return len(m.Errors) == 0 && len(m.Warnings) == 0 && len(m.Remarks) == 0
}

// Clear drops every message. The backing arrays are released so a later
// evaluation can never observe stale entries.
func (m *Messages) Clear() {
	m.Errors = nil
	m.Warnings = nil
	m.Remarks = nil
}

// Each visits all messages, errors first.
func (m *Messages) Each(fn func(Severity, string)) {
	for _, s := range m.Errors {
		fn(Error, s)
	}
	for _, s := range m.Warnings {
		fn(Warning, s)
	}
	for _, s := range m.Remarks {
		fn(Remark, s)
	}
}
