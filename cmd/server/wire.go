// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"referme_backend/internal/app"
	"referme_backend/internal/auth"
	"referme_backend/internal/config"
	"referme_backend/internal/email"
	"referme_backend/internal/job"
	"referme_backend/internal/jobs"
	"referme_backend/internal/message"
	"referme_backend/internal/platform/database"
	"referme_backend/internal/platform/elasticsearch"
	"referme_backend/internal/platform/logger"
	"referme_backend/internal/profile"
	"referme_backend/internal/shared"
	"referme_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		elasticsearch.NewClient,
		provideFileStorage,
		provideCleanup,

		// Auth
		auth.NewJWTService,

		// Core User Services
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),

		// Email
		email.NewGomailSender,

		// Domain Modules
		profile.NewGORMRepository,
		profile.NewService,
		profile.NewHandler,
		job.NewGORMRepository,
		job.NewService,
		job.NewHandler,
		message.NewGORMRepository,
		message.NewService,
		message.NewHandler,
		auth.NewHandler,

		// Jobs
		jobs.NewTokenCleanupJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
