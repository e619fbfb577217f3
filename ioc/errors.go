package ioc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Reason classifies a ResolutionError.
type Reason uint8

const (
	ReasonUnregistered Reason = iota + 1
	ReasonCircularDependency
	ReasonConstructionFailed
	ReasonTypeNameUnresolvable
)

var (
	ErrUnregistered         = errors.New("service not registered")
	ErrCircularDependency   = errors.New("circular dependency")
	ErrConstructionFailed   = errors.New("construction failed")
	ErrTypeNameUnresolvable = errors.New("default type name unresolvable")
)

func (r Reason) String() string {
	switch r {
	case ReasonUnregistered:
		return "unregistered"
	case ReasonCircularDependency:
		return "circular_dependency"
	case ReasonConstructionFailed:
		return "construction_failed"
	case ReasonTypeNameUnresolvable:
		return "type_name_unresolvable"
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

func (r Reason) sentinel() error {
	switch r {
	case ReasonUnregistered:
		return ErrUnregistered
	case ReasonCircularDependency:
		return ErrCircularDependency
	case ReasonConstructionFailed:
		return ErrConstructionFailed
	case ReasonTypeNameUnresolvable:
		return ErrTypeNameUnresolvable
	}
	return nil
}

// ResolutionError is the only error returned by Resolve and friends.
//
// errors.Is matches the sentinel of its Reason (ErrUnregistered, ...), and
// errors.Unwrap yields the underlying cause of a construction failure.
type ResolutionError struct {
	Reason Reason
	Key    ServiceKey
	// Path is the chain of service types under construction when the error
	// was raised, outermost first. For cycles it ends with the re-entered type.
	Path []reflect.Type
	// TypeName is set for ReasonTypeNameUnresolvable.
	TypeName string
	Cause    error
}

func (e *ResolutionError) Error() string {
	var sb strings.Builder
	sb.WriteString("ioc: ")
	switch e.Reason {
	case ReasonUnregistered:
		fmt.Fprintf(&sb, "no binding registered for %s", e.Key)
	case ReasonCircularDependency:
		fmt.Fprintf(&sb, "circular dependency while resolving %s: %s", e.Key, formatPath(e.Path))
	case ReasonConstructionFailed:
		fmt.Fprintf(&sb, "failed to construct %s", e.Key)
	case ReasonTypeNameUnresolvable:
		fmt.Fprintf(&sb, "default type %q for %s is not loaded", e.TypeName, e.Key)
	default:
		fmt.Fprintf(&sb, "%s: %s", e.Reason, e.Key)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *ResolutionError) Is(target error) bool {
	return target != nil && target == e.Reason.sentinel()
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// IsReason reports whether err is a ResolutionError with the given reason.
// Unlike errors.Is it only looks at the outermost ResolutionError.
func IsReason(err error, reason Reason) bool {
	var re *ResolutionError
	return errors.As(err, &re) && re.Reason == reason
}

func formatPath(path []reflect.Type) string {
	names := make([]string, len(path))
	for i, t := range path {
		names[i] = TypeName(t)
	}
	return strings.Join(names, " -> ")
}

func unregistered(key ServiceKey, path []reflect.Type) *ResolutionError {
	return &ResolutionError{Reason: ReasonUnregistered, Key: key, Path: path}
}

func circular(key ServiceKey, path []reflect.Type) *ResolutionError {
	return &ResolutionError{Reason: ReasonCircularDependency, Key: key, Path: append(path, key.Type)}
}

func typeNameUnresolvable(key ServiceKey, name string, cause error) *ResolutionError {
	return &ResolutionError{Reason: ReasonTypeNameUnresolvable, Key: key, TypeName: name, Cause: cause}
}

// constructionFailed wraps cause unless it already carries a ResolutionError,
// in which case the innermost failure propagates unchanged.
func constructionFailed(key ServiceKey, path []reflect.Type, cause error) *ResolutionError {
	var re *ResolutionError
	if errors.As(cause, &re) {
		return re
	}
	return &ResolutionError{Reason: ReasonConstructionFailed, Key: key, Path: path, Cause: cause}
}
