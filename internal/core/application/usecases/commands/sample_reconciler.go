package commands

import (
	"context"
	"strconv"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/sample"
	"github.com/arvni/provider-panel-sub000/internal/core/ports"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
)

// sampleReconciler upserts sample records against the submitted sample
// details, enforcing the barcode-required policy of each sample type. It runs
// inside the step engine's unit of work, so any failure (most importantly an
// unresolvable barcode on a barcode-required sample type) aborts the whole
// step with no partial writes.
type sampleReconciler struct {
	samples ports.SampleRepository
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
}

func newSampleReconciler(uow UoW) sampleReconciler {
	return sampleReconciler{
		samples: uow.SampleRepository(),
		catalog: uow.CatalogRepository(),
		orders:  uow.OrderRepository(),
	}
}

// Reconcile upserts each submitted sample and returns the ids of every
// resulting sample row. The caller prunes order samples not in this list.
func (r sampleReconciler) Reconcile(
	ctx context.Context,
	ord *order.Order,
	details []SampleDetailPayload,
) ([]uint, error) {
	ids := make([]uint, 0, len(details))

	for _, d := range details {
		smp, err := r.reconcileOne(ctx, ord, d)
		if err != nil {
			return nil, err
		}
		ids = append(ids, smp.ID)
	}

	return ids, nil
}

func (r sampleReconciler) reconcileOne(
	ctx context.Context,
	ord *order.Order,
	d SampleDetailPayload,
) (*sample.Sample, error) {
	st, err := r.catalog.SampleTypeByID(ctx, d.SampleTypeID)
	if err != nil {
		return nil, err
	}

	smp, err := r.locate(ctx, st.ID, d)
	if err != nil {
		return nil, err
	}
	isNew := smp == nil
	if isNew {
		smp = &sample.Sample{}
	}

	smp.SampleTypeID = st.ID
	if d.SampleID != "" {
		sid := d.SampleID
		smp.SampleID = &sid
	} else {
		smp.SampleID = nil
	}
	smp.CollectionDate = d.CollectionDate.TimePtr()
	smp.PatientID = d.PatientID

	if st.SampleIDRequired {
		if d.SampleID == "" {
			return nil, errs.NewValueIsRequiredError("sample_id")
		}
		mat, matErr := r.samples.MaterialByBarcode(ctx, d.SampleID)
		if matErr != nil {
			return nil, matErr
		}
		if mat == nil {
			// An unresolvable barcode means an unlabeled physical specimen:
			// hard failure, the step must not commit.
			return nil, errs.NewObjectNotFoundError("barcode", d.SampleID)
		}
		smp.MaterialID = &mat.ID
	} else {
		// Switching to a type without barcodes must not leave a stale link.
		smp.MaterialID = nil
	}

	if isNew {
		err = r.samples.Add(ctx, smp)
	} else {
		err = r.samples.Update(ctx, smp)
	}
	if err != nil {
		return nil, err
	}

	if d.OrderItemID != nil {
		if !itemBelongsToOrder(ord, *d.OrderItemID) {
			return nil, errs.NewObjectNotFoundError("order item",
				strconv.FormatUint(uint64(*d.OrderItemID), 10))
		}
		if err = r.orders.AttachItemSample(ctx, *d.OrderItemID, smp.ID); err != nil {
			return nil, err
		}
	}

	return smp, nil
}

// locate finds the sample this submission refers to: by local id when given,
// else by (sample type, human-readable sample id) so resubmitting the same
// barcode never duplicates a row. Returns nil when the submission is new.
func (r sampleReconciler) locate(
	ctx context.Context,
	sampleTypeID uint,
	d SampleDetailPayload,
) (*sample.Sample, error) {
	if d.ID != nil {
		return r.samples.Get(ctx, *d.ID)
	}
	if d.SampleID != "" {
		return r.samples.FindByTypeAndSampleID(ctx, sampleTypeID, d.SampleID)
	}
	return nil, nil
}

func itemBelongsToOrder(ord *order.Order, itemID uint) bool {
	for _, item := range ord.OrderItems {
		if item.ID == itemID {
			return true
		}
	}
	return false
}
