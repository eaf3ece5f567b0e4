package router

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"academy/internal/auth"
	"academy/internal/config"
	"academy/internal/errors"
	"academy/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	courseHandler *handler.CourseHandler,
	resourceHandler *handler.ResourceHandler,
	progressHandler *handler.ProgressHandler,
	seedHandler *handler.SeedHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = ErrorHandler(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.GET("/courses", courseHandler.ListCourses)
	api.GET("/courses/:id", courseHandler.GetCourse)
	api.GET("/resources", resourceHandler.ListResources)

	// Secured routes (require JWT authentication)
	bearer := BearerAuth(jwtService)

	api.GET("/auth/me", authHandler.Me, bearer)

	// Progress routes
	api.GET("/progress", progressHandler.ListProgress, bearer)
	api.POST("/progress", progressHandler.CompleteLesson, bearer)
	api.GET("/progress/summary", progressHandler.Summary, bearer)

	// Admin routes
	api.POST("/admin/seed", seedHandler.Seed, bearer)
}

// BearerAuth validates "Authorization: Bearer <token>" and stores *auth.Claims
// under auth.ContextKey. A missing token is 401; a rejected one is 403.
func BearerAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:     auth.ContextKey,
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: jwtService.ParseTokenFunc,
		ErrorHandler: func(c echo.Context, err error) error {
			if stderrors.Is(err, auth.ErrTokenInvalid) || stderrors.Is(err, auth.ErrTokenExpired) {
				httpErr := errors.MapErrorToHTTP(errors.ErrForbidden)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			httpErr := errors.MapErrorToHTTP(errors.ErrUnauthorized)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// ErrorHandler renders every error as errors.ErrorResponse.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}

		var he *echo.HTTPError
		if stderrors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case errors.ErrorResponse:
				body = msg
			case string:
				body = errors.ErrorResponse{Error: msg}
			default:
				body = errors.ErrorResponse{Error: http.StatusText(status)}
			}
		} else {
			e.Logger.Error(err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			e.Logger.Error(err)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
