package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/access"
	"github.com/jbmukiza/mahudhurio/core/attendance"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "caller not authenticated")
	errHttpForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errStoreUnavailable = echo.NewHTTPError(http.StatusServiceUnavailable, "attendance store unavailable")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how
// to handle our errors. signalShutdown is called in order to gracefully
// shutdown the Server whenever a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		// A denied capability never distinguishes "does not exist" from
		// "not permitted".
		switch errors.Cause(err) {
		case access.ErrDenied:
			writeHTTPError(ctx, errHttpForbidden.Code, errHttpForbidden.Message)
			return
		case attendance.ErrInvalidDate, attendance.ErrUnknownStatus:
			writeHTTPError(ctx, http.StatusBadRequest, errors.Cause(err).Error())
			return
		}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *attendance.UnknownStudentError:
			// nothing was committed; the caller must fix the roster and resend
			code = http.StatusBadRequest
			message = origErr.Error()
		case *attendance.StoreError:
			// safe to retry: a save either commits whole or not at all
			code = errStoreUnavailable.Code
			message = errStoreUnavailable.Message
			if logger != nil {
				logger.Error("attendance store failure", origErr)
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			if logger != nil {
				args := []interface{}{errors.Wrap(err, msg)}
				if ident, cErr := contextIdentity(ctx); cErr == nil {
					args = append(args, ident)
				}
				logger.Error(msg, args...)
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		writeHTTPError(ctx, code, message)
	}
}

func writeHTTPError(ctx echo.Context, code int, message interface{}) {
	if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	if ctx.Response().Committed {
		return
	}
	var err error
	if ctx.Request().Method == http.MethodHead {
		err = ctx.NoContent(code)
	} else {
		err = ctx.JSON(code, message)
	}
	if err != nil {
		ctx.Echo().Logger.Error(err)
	}
}
