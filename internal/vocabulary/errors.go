package vocabulary

import "fmt"

// ConfigurationError reports a vocabulary that violates a static invariant,
// such as two entries sharing a canonical name. It is raised at load time.
type ConfigurationError struct {
	Message string
	Skill   string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := "vocabulary configuration error"
	if e.Skill != "" {
		msg = fmt.Sprintf("%s for skill %q", msg, e.Skill)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
