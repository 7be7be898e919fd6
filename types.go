package members

import "fmt"

// Logger is the minimal logging surface this package writes to.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds member session and registration options.
type Config interface {
	// GetSessionLifetime returns the default session lifetime in hours.
	GetSessionLifetime() int
	// GetRegistrationRoles returns the role set assigned to new accounts.
	GetRegistrationRoles() []string
	// GetVerificationKeyName returns the meta key the email verification
	// key is stored under. Empty means AccountVerificationKeyName.
	GetVerificationKeyName() string
}

// StaticConfig is a plain-value Config implementation.
type StaticConfig struct {
	SessionLifetime     int
	RegistrationRoles   []string
	VerificationKeyName string
}

func (c StaticConfig) GetSessionLifetime() int {
	if c.SessionLifetime <= 0 {
		return 24
	}
	return c.SessionLifetime
}

func (c StaticConfig) GetRegistrationRoles() []string {
	if len(c.RegistrationRoles) == 0 {
		return []string{RoleMember}
	}
	return c.RegistrationRoles
}

func (c StaticConfig) GetVerificationKeyName() string {
	return c.VerificationKeyName
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] MEMBERS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] MEMBERS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] MEMBERS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
