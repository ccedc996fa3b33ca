package regrpc

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/appreg/registry"
)

// mapErr converts a structured registry fault into a gRPC status.
//
// The stable RuleID is carried in the message ("REG-XXX-NNN: ...") so
// the client can rebuild the structured error across the wire.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var re *registry.Error
	if !errors.As(err, &re) {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(codeFor(re.Kind), re.RuleID+": "+re.Message)
}

func codeFor(kind registry.Kind) codes.Code {
	switch kind {
	case registry.KindInvalidAddress, registry.KindInvalidLabel:
		return codes.InvalidArgument
	case registry.KindUnauthorized:
		return codes.PermissionDenied
	case registry.KindAlreadyRegistered:
		return codes.AlreadyExists
	case registry.KindNotRegistered:
		return codes.NotFound
	case registry.KindTargetHasNoCode:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// mapRPC converts a gRPC status back into a structured registry error.
//
// InvalidArgument is ambiguous between InvalidAddress and InvalidLabel;
// the RuleID prefix disambiguates. Unknown statuses pass through.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	ruleID, msg := splitRule(st.Message())
	kind, ok := kindFor(st.Code(), ruleID)
	if !ok {
		return err
	}
	return &registry.Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func kindFor(code codes.Code, ruleID string) (registry.Kind, bool) {
	if ruleID == "" {
		// Statuses without a rule ID did not come from the registry
		// core; pass them through untouched.
		return "", false
	}
	switch code {
	case codes.InvalidArgument:
		switch {
		case strings.HasPrefix(ruleID, "REG-LBL-"):
			return registry.KindInvalidLabel, true
		case strings.HasPrefix(ruleID, "REG-ADDR-"):
			return registry.KindInvalidAddress, true
		default:
			// Transport-level validation (e.g. malformed node strings)
			// is not a registry fault; pass it through.
			return "", false
		}
	case codes.PermissionDenied:
		return registry.KindUnauthorized, true
	case codes.AlreadyExists:
		return registry.KindAlreadyRegistered, true
	case codes.NotFound:
		return registry.KindNotRegistered, true
	case codes.FailedPrecondition:
		return registry.KindTargetHasNoCode, true
	default:
		return "", false
	}
}

func splitRule(msg string) (ruleID, rest string) {
	id, rest, ok := strings.Cut(msg, ": ")
	if !ok || !strings.HasPrefix(id, "REG-") {
		return "", msg
	}
	return id, rest
}
