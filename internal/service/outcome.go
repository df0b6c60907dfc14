package service

import "errors"

// ViolationMessage is reported when a labelled PR lacks a required reviewer
const ViolationMessage = "Reviewers check failed."

// CommentAction describes what happened to the advisory comment
type CommentAction string

const (
	CommentNone    CommentAction = "none"
	CommentCreated CommentAction = "created"
	CommentUpdated CommentAction = "updated"
	CommentDeleted CommentAction = "deleted"
)

// Outcome is the result of a completed check
type Outcome struct {
	Passed    bool
	Message   string
	Action    CommentAction
	CommentID int64
	DryRun    bool
}

// ErrorKind classifies a failed run
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfig
	KindPlatform
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// ConfigError is returned before any API call when an input is missing
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PlatformError wraps a failed GitHub API call. Error returns the
// underlying message unchanged so it can be reported as is.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return e.Err.Error()
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Kind returns the ErrorKind of err
func Kind(err error) ErrorKind {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return KindConfig
	}
	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return KindPlatform
	}
	return KindUnknown
}
