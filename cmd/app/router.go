package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodGet, "/api/users", app.listUsersHandler)
	router.HandlerFunc(http.MethodPost, "/api/users", app.rateLimit(app.registerUserHandler))
	router.HandlerFunc(http.MethodPost, "/api/login", app.rateLimit(app.loginUserHandler))
	router.HandlerFunc(http.MethodPost, "/api/logout", app.requireAuthUser(app.logoutUserHandler))

	// blog service
	router.HandlerFunc(http.MethodGet, "/api/blogs", app.requireAuthUser(app.listBlogsHandler))
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/api/blogs/stats", app.blogStatsHandler)
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))

	return app.recoverPanic(app.logRequest(app.enableCORS(app.authenticate(router))))
}
