package engine

import "fmt"

// TransitionErrorKind identifies which transition rule rejected a request.
type TransitionErrorKind string

const (
	KindUnknownAction        TransitionErrorKind = "unknown_action"
	KindActionDisabled       TransitionErrorKind = "action_disabled"
	KindInstanceFinal        TransitionErrorKind = "instance_final"
	KindInvalidSourceState   TransitionErrorKind = "invalid_source_state"
	KindUnknownTargetState   TransitionErrorKind = "unknown_target_state"
	KindTargetStateDisabled  TransitionErrorKind = "target_state_disabled"
	KindInitialStateDisabled TransitionErrorKind = "initial_state_disabled"
)

// ValidationError rejects a malformed workflow definition. It always names
// the first rule that failed and, where applicable, the offending entity.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid workflow definition: " + e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransitionError rejects a start or execute request against a valid
// definition. These are business-rule rejections, never transient faults.
type TransitionError struct {
	Kind    TransitionErrorKind
	Message string
}

func (e *TransitionError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func transitionErrorf(kind TransitionErrorKind, format string, args ...any) *TransitionError {
	return &TransitionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
