package node

import "errors"

// Label validation errors. The registry wraps these into its own
// structured InvalidLabel fault; callers outside the registry can
// branch with errors.Is.
var (
	ErrLabelLength    = errors.New("node: label length must be 1..63")
	ErrLabelHyphen    = errors.New("node: label must not start or end with hyphen")
	ErrLabelCharacter = errors.New("node: label bytes must be a-z, 0-9 or hyphen")
)

// CheckLabel validates a raw label and returns its hash.
//
// Rules, in evaluation order: length in [1,63]; first and last byte
// not hyphen; every byte in {a-z, 0-9, -}. The order determines which
// error surfaces for labels violating more than one rule.
func CheckLabel(label string) (LabelHash, error) {
	if len(label) < 1 || len(label) > 63 {
		return LabelHash{}, ErrLabelLength
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return LabelHash{}, ErrLabelHyphen
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '-' {
			continue
		}
		return LabelHash{}, ErrLabelCharacter
	}
	return HashLabel(label), nil
}
