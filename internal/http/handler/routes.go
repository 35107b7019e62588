package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recordgate/internal/service"
)

// Deps carries the services the routes are bound to.
type Deps struct {
	Gateway service.AccessGateway
	Records service.RecordService
	Users   service.UserService
	// FetchTimeout bounds a record fetch, including streaming the body.
	FetchTimeout time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, deps Deps, log *zap.Logger) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessCheck())

	auth := app.Group("/auth")
	auth.Post("/register", RegisterUser(deps.Users, log))
	auth.Get("/user/:walletAddress", GetUser(deps.Users, log))
	auth.Get("/users", ListUsers(deps.Users, log))

	records := app.Group("/records")
	records.Post("/upload", UploadRecord(deps.Records, log))
	records.Get("/:hash", FetchRecord(deps.Gateway, deps.Users, log, deps.FetchTimeout))
	records.Post("/:hash/grants", GrantAccess(deps.Records, log))
	records.Delete("/:hash/grants/:grantee", RevokeAccess(deps.Records, log))

	app.Get("/owners/:address/records", ListOwnerRecords(deps.Records, log))
	app.Get("/grantees/:address/shared", ListSharedRecords(deps.Records, log))
	app.Get("/transactions/:handle", TransactionStatus(deps.Records, log))
}
