package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAction     = errors.New("invalid action")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidProtocol   = errors.New("invalid protocol")
	ErrInvalidPort       = errors.New("invalid port specification")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidFilePath   = errors.New("invalid file path")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileTooLarge      = errors.New("file too large")
	ErrDetectionFailed   = errors.New("access port detection failed")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDriverUnavailable = errors.New("firewall utility unavailable")
	ErrApplyFailed       = errors.New("rule apply failed")
	ErrRuleNotFound      = errors.New("rule not found")
	ErrParseFailed       = errors.New("rule document parse failed")
	ErrIO                = errors.New("I/O failure")
	ErrConfigNotFound    = errors.New("config not found")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrFilterInvalid     = errors.New("invalid filter expression")
	ErrCanceled          = errors.New("operation canceled")
)

// Is reports whether any error in err's chain matches target.
// Is 判断 err 链中是否存在与 target 匹配的错误。
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// As 在 err 链中查找第一个与 target 匹配的错误。
var As = errors.As

func NewActionError(action string) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, action)
}

func NewDirectionError(direction string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDirection, direction)
}

func NewProtocolError(protocol string) error {
	return fmt.Errorf("%w: %s", ErrInvalidProtocol, protocol)
}

func NewPortError(port string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPort, port)
}

func NewAddressError(addr string) error {
	return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
}

func NewApplyError(rule string, diagnostic string) error {
	return fmt.Errorf("%w: rule=%s: %s", ErrApplyFailed, rule, diagnostic)
}

func NewDriverUnavailableError(binary string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrDriverUnavailable, binary, reason)
}

func NewPermissionError(detail string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, detail)
}

func NewDetectionError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDetectionFailed, reason)
}

func NewNotFoundError(selector string) error {
	return fmt.Errorf("%w: %s", ErrRuleNotFound, selector)
}

func NewParseError(path string, entry int, reason string) error {
	return fmt.Errorf("%w: %s: entry %d: %s", ErrParseFailed, path, entry, reason)
}

func NewIOError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrIO, path, reason)
}

func NewFileError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, reason)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}

func NewFilterError(expr string, reason error) error {
	return fmt.Errorf("%w: %q: %v", ErrFilterInvalid, expr, reason)
}
