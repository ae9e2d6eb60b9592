package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/jsonapi"
)

// NewHTTPErrorHandler returns the Echo error handler. Every failure is
// rendered as a JSON:API error document. Routes without a handler and
// unsupported methods both answer with a generic 404.
func NewHTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		// Don't send response if already sent
		if c.Response().Committed {
			return
		}

		obj, cause := errorObject(err, c)
		status, _ := strconv.Atoi(obj.Status)

		if status >= http.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).WithError(err).Error("Request failed")
		}

		if c.Echo().Debug && cause != nil {
			obj.Meta = map[string]interface{}{"cause": cause.Error()}
		}

		doc := jsonapi.ErrorDocument{Errors: []jsonapi.ErrorObject{obj}}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = writeDocument(c, status, doc)
		}
		if err != nil {
			log.WithError(err).Warn("Failed to write error response")
		}
	}
}

// errorObject classifies err. The returned cause is only exposed in debug mode.
func errorObject(err error, c echo.Context) (jsonapi.ErrorObject, error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return jsonapi.ErrorObject{
			Status: strconv.Itoa(apiErr.Status()),
			Title:  apiErr.Title(),
			Detail: apiErr.Detail,
		}, apiErr.Err
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return jsonapi.ErrorObject{
				Status: strconv.Itoa(http.StatusNotFound),
				Title:  apierr.KindNotFound.Title(),
				Detail: fmt.Sprintf("No resource available for %s %s", c.Request().Method, c.Request().URL.Path),
			}, nil
		default:
			return jsonapi.ErrorObject{
				Status: strconv.Itoa(he.Code),
				Title:  http.StatusText(he.Code),
				Detail: fmt.Sprint(he.Message),
			}, he.Internal
		}
	}

	// Don't expose internal errors in production
	return jsonapi.ErrorObject{
		Status: strconv.Itoa(http.StatusInternalServerError),
		Title:  apierr.KindInternal.Title(),
		Detail: "An internal error occurred. Please try again later.",
	}, err
}

// writeDocument renders v with the JSON:API media type.
func writeDocument(c echo.Context, status int, v interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, jsonapi.MediaType)
	c.Response().WriteHeader(status)
	return c.Echo().JSONSerializer.Serialize(c, v, "")
}
