package config

import "fmt"

// ErrorReason classifies configuration resolution failures.
type ErrorReason string

const (
	// ReasonUnknownEnvironment indicates the environment name has no base
	// URL mapping and no explicit override was provided.
	ReasonUnknownEnvironment ErrorReason = "unknown_environment"

	// ReasonInvalidValue indicates a setting value outside its accepted set.
	ReasonInvalidValue ErrorReason = "invalid_value"

	// ReasonMissingRemoteURL indicates remote mode was requested without a
	// remote endpoint.
	ReasonMissingRemoteURL ErrorReason = "missing_remote_url"
)

// Error is returned when resolution of the raw settings fails. It is fatal
// at startup: no browser session is ever created from an unresolvable
// configuration.
type Error struct {
	Reason ErrorReason
	Key    string
	Value  string
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonUnknownEnvironment:
		return fmt.Sprintf("config: unknown environment %q and no %s override set", e.Value, KeyBaseURL)
	case ReasonMissingRemoteURL:
		return fmt.Sprintf("config: %s is enabled but %s is empty", KeyUseRemote, KeyRemoteURL)
	default:
		return fmt.Sprintf("config: invalid value %q for %s", e.Value, e.Key)
	}
}
