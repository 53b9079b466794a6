package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// NewRateLimiter limits requests per client IP with an in-memory token bucket store.
func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

// RequestIDContext copies the X-Request-ID assigned by middleware.RequestID into the request context,
// so shell loggers can correlate their records with the request.
func RequestIDContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(shell.ContextWithRequestID(req.Context(), requestID)))
		}

		return next(c)
	}
}

// RequestLoggerConfig logs one zap record per request, at Error level for failed ones.
func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = zapcore.ErrorLevel
			}

			log.Log(level, "request",
				zap.String("uri", v.URI),
				zap.String("method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String(shell.LogAttrRequestID, v.RequestID),
			)

			return nil
		},
	}
}

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate reports struct tag violations as 400 Bad Request.
func (v *Validator) Validate(i interface{}) error {
	if err := v.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}

	return nil
}

type jsoniterSerializer struct{}

func (jsoniterSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	encoder := jsonAPI.NewEncoder(c.Response())
	if indent != "" {
		encoder.SetIndent("", indent)
	}

	return encoder.Encode(i)
}

func (jsoniterSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := jsonAPI.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}

	return nil
}
