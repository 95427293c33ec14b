package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// RequestValidator checks requests under prefix against the OpenAPI document before
// they reach a handler. Authentication is left to JWTAuth.
func RequestValidator(swagger *openapi3.T, prefix string) (echo.MiddlewareFunc, error) {
	// Paths in the document are relative to the server URL; match on the stripped path.
	swagger.Servers = nil

	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if !strings.HasPrefix(req.URL.Path, prefix+"/") {
				return next(ctx)
			}

			body, err := readBody(req)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
			}

			probe := req.Clone(req.Context())
			probe.URL.Path = strings.TrimPrefix(req.URL.Path, prefix)
			probe.URL.RawPath = ""
			probe.Body = io.NopCloser(bytes.NewReader(body))

			route, pathParams, err := router.FindRoute(probe)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(ctx)
				}
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
				Request:    probe,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
			}

			return next(ctx)
		}
	}, nil
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// validationMessage keeps the first line: the schema dump that follows is noise to clients.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Error()
		if line, _, ok := strings.Cut(msg, "\n"); ok {
			return line
		}
		return msg
	}
	msg := err.Error()
	if line, _, ok := strings.Cut(msg, "\n"); ok {
		return line
	}
	return msg
}
