// File: internal/jobs/token_cleanup.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"referme_backend/internal/config"
	"referme_backend/internal/profile"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TokenCleanupJob periodically clears expired company-email verification tokens.
type TokenCleanupJob struct {
	profileService profile.Service
	logger         *zap.Logger
	cfg            *config.Config
	cronScheduler  *cron.Cron
}

// NewTokenCleanupJob creates a new TokenCleanupJob.
func NewTokenCleanupJob(
	profileService profile.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *TokenCleanupJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &TokenCleanupJob{
		profileService: profileService,
		logger:         logger.Named("TokenCleanupJob"),
		cfg:            cfg,
		cronScheduler:  scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *TokenCleanupJob) SetupAndStart() error {
	jobSpec := j.cfg.TokenCleanupJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Token cleanup job schedule not defined (TOKEN_CLEANUP_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule token cleanup job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Token cleanup job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *TokenCleanupJob) runJob() {
	j.logger.Info("Starting token cleanup job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cleared, err := j.profileService.ClearExpiredVerificationTokens(ctx)
	if err != nil {
		j.logger.Error("Token cleanup job run failed", zap.Error(err))
	} else {
		j.logger.Info("Token cleanup job run completed", zap.Int64("tokens_cleared", cleared))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *TokenCleanupJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping token cleanup job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Token cleanup job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Token cleanup job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
