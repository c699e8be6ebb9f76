// Package queries contains read operations over the order aggregate.
// Queries bypass the unit of work and read through a plain database handle,
// returning read models shaped for the HTTP layer.
package queries

import (
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
	"github.com/arvni/provider-panel-sub000/internal/pkg/guard"
)

var ErrGetOrderSummaryQueryIsNotConstructed = errors.New(
	"GetOrderSummaryQuery must be created via NewGetOrderSummaryQuery constructor",
)

// GetOrderSummaryQuery retrieves the summary of one order: workflow
// position, status, and aggregate counts.
type GetOrderSummaryQuery struct {
	orderID uint

	guard guard.ConstructorGuard
}

// NewGetOrderSummaryQuery creates a summary query for the given order.
func NewGetOrderSummaryQuery(orderID uint) (GetOrderSummaryQuery, error) {
	if orderID == 0 {
		return GetOrderSummaryQuery{}, errs.NewValueIsRequiredError("orderID")
	}
	return GetOrderSummaryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderSummaryQueryIsNotConstructed)
}

// OrderID returns the queried order's id.
func (q GetOrderSummaryQuery) OrderID() uint {
	return q.orderID
}

// GetOrderSummaryQueryResponse is the order read model returned to clients.
type GetOrderSummaryQueryResponse struct {
	ID          uint   `json:"id"`
	ReferenceID string `json:"reference_id"`
	ServerID    *int64 `json:"server_id,omitempty"`
	Step        string `json:"step"`
	Status      string `json:"status"`
	ItemsCount  int64  `json:"order_items_count"`
	SampleCount int64  `json:"samples_count"`
	FormsCount  int    `json:"forms_count"`
}
