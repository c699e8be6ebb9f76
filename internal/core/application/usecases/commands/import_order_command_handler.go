package commands

import (
	"context"
	"log/slog"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/sample"
)

// ImportResult reports what an import produced.
type ImportResult struct {
	OrderID         uint  `json:"order_id"`
	OrderItemsCount int64 `json:"order_items_count"`
	SamplesCount    int64 `json:"samples_count"`
}

// ImportOrderCommandHandler is the external import reconciler. It accepts a
// full externally-authored order payload and performs an idempotent
// create-or-update across the aggregate graph, keyed by the order's external
// identifier. A known external id short-circuits to a status update; a first
// import builds the whole graph (patients, items, samples, materials) in
// one unit of work.
type ImportOrderCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

// NewImportOrderCommandHandler creates the import reconciler.
func NewImportOrderCommandHandler(uowFactory UoWFactory, logger *slog.Logger) ImportOrderCommandHandler {
	return ImportOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "import_order"),
	}
}

// Handle performs the import and returns the local order id plus item and
// sample counts. Any failure rolls back every nested write.
func (h *ImportOrderCommandHandler) Handle(ctx context.Context, cmd ImportOrderCommand) (ImportResult, error) {
	if err := cmd.Validate(); err != nil {
		return ImportResult{}, err
	}
	payload := cmd.Payload()

	// Status was checked by the command constructor.
	status, err := order.ParseStatus(payload.Order.Status)
	if err != nil {
		return ImportResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ImportResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	owner, err := uow.UserRepository().ByReferrerID(ctx, payload.ReferrerID)
	if err != nil {
		return ImportResult{}, err
	}

	orders := uow.OrderRepository()

	existing, err := orders.GetByServerID(ctx, payload.Order.ID)
	if err != nil {
		return ImportResult{}, err
	}
	if existing != nil {
		// Idempotency short-circuit: nested entities were created by the
		// original import, only the status moves.
		return h.refreshStatus(ctx, uow, existing, status)
	}

	resolver := newIdentityResolver(uow, h.logger)

	mainPatient, err := resolver.ResolvePatient(ctx, payload.Order.MainPatient, owner.ID)
	if err != nil {
		return ImportResult{}, err
	}

	patientIDs := []uint{mainPatient.ID}
	seen := map[uint]struct{}{mainPatient.ID: {}}
	for _, pp := range payload.Order.Patients {
		p, resolveErr := resolver.ResolvePatient(ctx, pp, owner.ID)
		if resolveErr != nil {
			return ImportResult{}, resolveErr
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		patientIDs = append(patientIDs, p.ID)
		seen[p.ID] = struct{}{}
	}

	// Imported orders arrive complete: the workflow starts (and stays) at
	// the terminal step, status comes from the payload.
	serverID := payload.Order.ID
	ord := order.NewOrder(owner.ID)
	ord.ServerID = &serverID
	ord.Step = order.StepFinalize
	ord.Status = status
	ord.MainPatientID = &mainPatient.ID

	if err = orders.Add(ctx, ord); err != nil {
		return ImportResult{}, err
	}
	if err = orders.ReplacePatients(ctx, ord.ID, patientIDs); err != nil {
		return ImportResult{}, err
	}

	for _, itemPayload := range payload.Order.OrderItems {
		if err = h.importItem(ctx, uow, resolver, ord, owner.ID, itemPayload); err != nil {
			return ImportResult{}, err
		}
	}

	itemCount, err := orders.CountItems(ctx, ord.ID)
	if err != nil {
		return ImportResult{}, err
	}
	sampleCount, err := orders.CountSamples(ctx, ord.ID)
	if err != nil {
		return ImportResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ImportResult{}, err
	}

	h.logger.InfoContext(ctx, "imported order",
		"order_id", ord.ID, "server_id", serverID,
		"items", itemCount, "samples", sampleCount)

	return ImportResult{
		OrderID:         ord.ID,
		OrderItemsCount: itemCount,
		SamplesCount:    sampleCount,
	}, nil
}

func (h *ImportOrderCommandHandler) refreshStatus(
	ctx context.Context,
	uow UoW,
	existing *order.Order,
	status order.Status,
) (ImportResult, error) {
	orders := uow.OrderRepository()

	if err := orders.UpdateStatus(ctx, existing.ID, status); err != nil {
		return ImportResult{}, err
	}
	itemCount, err := orders.CountItems(ctx, existing.ID)
	if err != nil {
		return ImportResult{}, err
	}
	sampleCount, err := orders.CountSamples(ctx, existing.ID)
	if err != nil {
		return ImportResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ImportResult{}, err
	}

	return ImportResult{
		OrderID:         existing.ID,
		OrderItemsCount: itemCount,
		SamplesCount:    sampleCount,
	}, nil
}

func (h *ImportOrderCommandHandler) importItem(
	ctx context.Context,
	uow UoW,
	resolver identityResolver,
	ord *order.Order,
	ownerID uint,
	payload ImportedOrderItem,
) error {
	orders := uow.OrderRepository()

	test, err := resolver.ResolveTest(ctx, payload)
	if err != nil {
		return err
	}

	itemServerID := payload.ID
	item := &order.Item{
		OrderID:  ord.ID,
		TestID:   test.ID,
		ServerID: &itemServerID,
	}
	if err = orders.AddItem(ctx, item); err != nil {
		return err
	}

	for _, samplePayload := range payload.Samples {
		if err = h.importSample(ctx, uow, resolver, item, samplePayload); err != nil {
			return err
		}
	}

	for _, patientPayload := range payload.Patients {
		p, resolveErr := resolver.ResolvePatient(ctx, patientPayload.ImportedPatient, ownerID)
		if resolveErr != nil {
			return resolveErr
		}
		if err = orders.AttachItemPatient(ctx, item.ID, p.ID, patientPayload.IsMain); err != nil {
			return err
		}
	}

	return nil
}

func (h *ImportOrderCommandHandler) importSample(
	ctx context.Context,
	uow UoW,
	resolver identityResolver,
	item *order.Item,
	payload ImportedSample,
) error {
	samples := uow.SampleRepository()
	patients := uow.PatientRepository()

	st, err := resolver.ResolveSampleType(ctx, payload)
	if err != nil {
		return err
	}

	var smp *sample.Sample
	if payload.SampleID != "" {
		smp, err = samples.FindByTypeAndSampleID(ctx, st.ID, payload.SampleID)
		if err != nil {
			return err
		}
	}
	isNew := smp == nil
	if isNew {
		smp = &sample.Sample{SampleTypeID: st.ID}
		if payload.SampleID != "" {
			sid := payload.SampleID
			smp.SampleID = &sid
		}
	}
	smp.CollectionDate = payload.CollectionDate.TimePtr()

	// Unlike intake, a missing material is tolerated here: the specimen was
	// labeled remotely, the local panel may simply never have seen the tube.
	if payload.SampleID != "" {
		mat, matErr := samples.MaterialByBarcode(ctx, payload.SampleID)
		if matErr != nil {
			return matErr
		}
		if mat != nil {
			smp.MaterialID = &mat.ID
		}
	}

	if payload.PatientID != nil {
		p, findErr := patients.FindByServerID(ctx, *payload.PatientID)
		if findErr != nil {
			return findErr
		}
		if p != nil {
			smp.PatientID = &p.ID
		}
	}

	if isNew {
		err = samples.Add(ctx, smp)
	} else {
		err = samples.Update(ctx, smp)
	}
	if err != nil {
		return err
	}

	return uow.OrderRepository().AttachItemSample(ctx, item.ID, smp.ID)
}
