package contrast

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType matches every UnsupportedContrastTypeError.
var ErrUnsupportedType = errors.New("unsupported contrast type")

// UnsupportedContrastTypeError is returned for contrasts the FSL backend
// cannot express. Type carries the offending tag as written.
type UnsupportedContrastTypeError struct {
	Name string
	Type string
}

func (e *UnsupportedContrastTypeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("unimplemented contrast type %q", e.Type)
	}
	return fmt.Sprintf("unimplemented contrast type %q (contrast %q)", e.Type, e.Name)
}

func (e *UnsupportedContrastTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
