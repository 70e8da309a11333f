package shell

import (
	"errors"
	"fmt"
	"os"

	platformerrors "github.com/jmgilman/go/errors"
)

// ErrorPrefix starts every line reporting a failed command
const ErrorPrefix = "Error: "

func notFoundf(format string, args ...interface{}) error {
	return platformerrors.Newf(platformerrors.CodeNotFound, format, args...)
}

func alreadyExistsf(format string, args ...interface{}) error {
	return platformerrors.Newf(platformerrors.CodeAlreadyExists, format, args...)
}

func invalidArgsf(format string, args ...interface{}) error {
	return platformerrors.Newf(platformerrors.CodeInvalidInput, format, args...)
}

func unsupportedf(format string, args ...interface{}) error {
	return platformerrors.Newf(platformerrors.CodeNotImplemented, format, args...)
}

// classifyError maps an error from the filesystem or the OS to a platform
// error, keeping the original one as the cause.
func classifyError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	var platformErr platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return err
	}

	code := platformerrors.CodeExecutionFailed
	switch {
	case errors.Is(err, os.ErrNotExist):
		code = platformerrors.CodeNotFound
	case errors.Is(err, os.ErrExist):
		code = platformerrors.CodeAlreadyExists
	case errors.Is(err, os.ErrPermission):
		code = platformerrors.CodeForbidden
	}

	return platformerrors.Wrapf(err, code, format, args...)
}

// describeError renders err the way it is shown to the user, without the
// "[CODE]" tag platform errors carry in Error().
func describeError(err error) string {
	var platformErr platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		return err.Error()
	}

	msg := platformErr.Message()
	if cause := platformErr.Unwrap(); cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, describeError(cause))
	}
	return msg
}
