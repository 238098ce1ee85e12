package chain

import (
	stderrors "errors"

	"github.com/wippyai/scale-codec/errors"
)

func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}
