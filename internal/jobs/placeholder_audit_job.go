// Package jobs provides scheduled background tasks for the order intake
// service, built on github.com/robfig/cron/v3.
package jobs

import (
	"context"
	"log/slog"

	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// PlaceholderAuditJob reports catalog entries that were provisioned as
// placeholders during imports and still await curation. Runs daily so that
// unreviewed placeholder tests and sample types keep showing up in the logs
// until someone resolves them.
type PlaceholderAuditJob struct {
	handler queries.GetPlaceholderEntriesQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewPlaceholderAuditJob creates a new placeholder audit job.
func NewPlaceholderAuditJob(handler queries.GetPlaceholderEntriesQueryHandler, logger *slog.Logger) *PlaceholderAuditJob {
	return &PlaceholderAuditJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "placeholder_audit_job"),
	}
}

// Start begins the placeholder audit job to run daily.
func (j *PlaceholderAuditJob) Start() error {
	_, err := j.cron.AddFunc("@daily", func() {
		ctx := context.Background()
		query := queries.NewGetPlaceholderEntriesQuery()

		entries, err := j.handler.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Placeholder audit job failed", "error", err)
			return
		}

		for _, e := range entries {
			j.logger.WarnContext(ctx, "Placeholder catalog entry awaiting curation",
				"kind", e.Kind,
				"id", e.ID,
				"server_id", e.ServerID,
				"name", e.Name,
				"code", e.Code,
			)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Placeholder audit job started (running daily)")
	return nil
}

// Stop stops the placeholder audit job.
func (j *PlaceholderAuditJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Placeholder audit job stopped")
}
