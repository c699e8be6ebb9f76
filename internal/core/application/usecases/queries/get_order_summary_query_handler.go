package queries

import (
	"context"
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderSummaryQueryHandler reads one order's summary directly from the
// database, counting items and linked samples without hydrating the full
// aggregate.
type GetOrderSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderSummaryQueryHandler creates a handler over the given database handle.
func NewGetOrderSummaryQueryHandler(db *gorm.DB) GetOrderSummaryQueryHandler {
	return GetOrderSummaryQueryHandler{db: db}
}

// Handle executes the summary query.
func (h GetOrderSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderSummaryQuery,
) (GetOrderSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderSummaryQueryResponse{}, err
	}

	var ord order.Order
	if err := h.db.WithContext(ctx).First(&ord, "id = ?", query.OrderID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderSummaryQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return GetOrderSummaryQueryResponse{}, err
	}

	var itemsCount int64
	if err := h.db.WithContext(ctx).Model(&order.Item{}).
		Where("order_id = ?", ord.ID).
		Count(&itemsCount).Error; err != nil {
		return GetOrderSummaryQueryResponse{}, err
	}

	var sampleCount int64
	if err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT ois.sample_id)
		FROM order_item_samples ois
		JOIN order_items oi ON oi.id = ois.order_item_id
		WHERE oi.order_id = ?
	`, ord.ID).Scan(&sampleCount).Error; err != nil {
		return GetOrderSummaryQueryResponse{}, err
	}

	return GetOrderSummaryQueryResponse{
		ID:          ord.ID,
		ReferenceID: ord.ReferenceID.String(),
		ServerID:    ord.ServerID,
		Step:        ord.Step.String(),
		Status:      ord.Status.String(),
		ItemsCount:  itemsCount,
		SampleCount: sampleCount,
		FormsCount:  len(ord.Forms),
	}, nil
}
