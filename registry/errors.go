package registry

import "errors"

// Kind is a stable fault category for programmatic handling.
//
// Every mutating operation validates fully before touching local
// state, so a returned fault implies no registry-visible side effect.
// Callers should branch on Kind/RuleID rather than matching error
// strings.
type Kind string

const (
	// KindInvalidAddress: a required address argument is the zero address.
	KindInvalidAddress Kind = "InvalidAddress"
	// KindUnauthorized: caller is not the admin of the targeted org/app.
	KindUnauthorized Kind = "Unauthorized"
	// KindInvalidLabel: label fails length, character or hyphen rules.
	KindInvalidLabel Kind = "InvalidLabel"
	// KindAlreadyRegistered: an org or app record exists at the derived node.
	KindAlreadyRegistered Kind = "AlreadyRegistered"
	// KindNotRegistered: the referenced org or app has no admin record.
	KindNotRegistered Kind = "NotRegistered"
	// KindTargetHasNoCode: the proxy or implementation address has no deployed code.
	KindTargetHasNoCode Kind = "TargetHasNoCode"
	// KindInternal: a collaborator call failed; the operation aborted whole.
	KindInternal Kind = "Internal"
)

// Error is the registry's structured error type.
//
// RuleID is a stable identifier (e.g. REG-ADDR-001) naming the
// violated admission rule. Message is for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
