package order

import (
	"fmt"

	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
)

// Status represents where the order stands in the external system of record's
// processing pipeline. Intake only ever produces Pending and Requested; the
// remaining values arrive through status synchronization and imports.
type Status string

const (
	// StatusPending is the initial status while intake is in progress.
	StatusPending Status = "pending"

	// StatusRequested means intake finished and the order was handed to the
	// system of record. Reachable only from the terminal workflow step.
	StatusRequested Status = "requested"

	// StatusLogisticRequested means specimen collection has been requested.
	StatusLogisticRequested Status = "logistic_requested"

	// StatusSent means the specimen shipment left the collection site.
	StatusSent Status = "sent"

	// StatusReceived means the laboratory received the specimens.
	StatusReceived Status = "received"

	// StatusProcessing means the laboratory is running the tests.
	StatusProcessing Status = "processing"

	// StatusSemiReported means a partial report is available.
	StatusSemiReported Status = "semi_reported"

	// StatusReported means the final report is available.
	StatusReported Status = "reported"

	// StatusReportDownloaded means the requester retrieved the report.
	StatusReportDownloaded Status = "report_downloaded"
)

func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusPending:           {},
		StatusRequested:         {},
		StatusLogisticRequested: {},
		StatusSent:              {},
		StatusReceived:          {},
		StatusProcessing:        {},
		StatusSemiReported:      {},
		StatusReported:          {},
		StatusReportDownloaded:  {},
	}
}

// ParseStatus converts a wire string to a Status, validating it.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that the status is one of the defined pipeline states.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
