package jobs

import (
	"fmt"
	"log/slog"

	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	placeholderAuditJob *PlaceholderAuditJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	placeholderEntriesHandler queries.GetPlaceholderEntriesQueryHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		placeholderAuditJob: NewPlaceholderAuditJob(placeholderEntriesHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.placeholderAuditJob.Start(); err != nil {
		return fmt.Errorf("failed to start placeholder audit job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.placeholderAuditJob.Stop()
}
