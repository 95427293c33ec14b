package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/fanout"
	_ "dispatch/internal/generated/docs" // registers the document served under /swagger
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const APIBaseURL = "/api/v1"

// NewEcho assembles the HTTP surface: the REST API under APIBaseURL, the websocket
// endpoint, health and docs.
func NewEcho(cfg Config, root *CompositionRoot, hub *fanout.Hub, logger *slog.Logger) (*echo.Echo, error) {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := httpin.RequestValidator(swagger, APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("request validator: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpin.ErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORS())
	e.Use(httpin.JWTAuth([]byte(cfg.JWTSecret), public))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws", root.CreateSocketEndpoint(hub).Handle)

	servers.RegisterHandlersWithBaseURL(e, root.CreateHTTPServer(), APIBaseURL)

	return e, nil
}

func public(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/health" || strings.HasPrefix(path, "/swagger/")
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
