package middleware

import (
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// serve runs one request through an echo instance with mw in front of /test.
func serve(mw echo.MiddlewareFunc, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/test", okHandler, mw)
	e.POST("/test", okHandler, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
