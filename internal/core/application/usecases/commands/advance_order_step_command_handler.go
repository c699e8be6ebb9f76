package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/services"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
)

// AdvanceOrderStepCommandHandler is the order step engine. It loads the
// order, applies the step-specific aggregate mutation inside one unit of
// work, advances the step pointer, and commits. A failure anywhere in the
// step body rolls the whole call back, so partial patient or sample writes
// are never observable.
//
// The handler does not serialize concurrent calls against the same order;
// that discipline (row lock or single-writer queue per order id) belongs to
// the caller.
type AdvanceOrderStepCommandHandler struct {
	uowFactory UoWFactory
}

// NewAdvanceOrderStepCommandHandler creates the step engine over the given
// unit of work factory.
func NewAdvanceOrderStepCommandHandler(uowFactory UoWFactory) AdvanceOrderStepCommandHandler {
	return AdvanceOrderStepCommandHandler{uowFactory: uowFactory}
}

// Handle performs one step advance and returns the updated order aggregate.
func (h *AdvanceOrderStepCommandHandler) Handle(
	ctx context.Context,
	cmd AdvanceOrderStepCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	ord, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	payload := cmd.Payload()
	switch cmd.Step() {
	case order.StepTestMethod:
		err = h.applyTestMethod(ctx, uow, ord, *payload.TestMethod)
	case order.StepPatientDetails:
		err = h.applyPatientDetails(ctx, uow, ord, *payload.PatientDetails, cmd.ActorID())
	case order.StepPatientTest:
		err = h.applyPatientTest(ctx, uow, ord, *payload.PatientTest)
	case order.StepClinicalDetails:
		ord.MergeFiles(payload.ClinicalDetails.Files)
	case order.StepSampleDetails:
		err = h.applySampleDetails(ctx, uow, ord, *payload.SampleDetails)
	case order.StepConsentForm:
		ord.Consents = ord.Consents.MergeFiles(order.ConsentFilesKey, payload.ConsentForm.Files)
	case order.StepFinalize:
		err = ord.MarkRequested()
	}
	if err != nil {
		return nil, err
	}

	ord.AdvanceStep(cmd.Step())
	if err = orders.Update(ctx, ord); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ord, nil
}

// applyTestMethod replaces the order's test selection and recomputes the
// attached form set from the selection delta. Form copies that survive the
// delta keep their collected values.
func (h *AdvanceOrderStepCommandHandler) applyTestMethod(
	ctx context.Context,
	uow UoW,
	ord *order.Order,
	payload TestMethodPayload,
) error {
	catalogRepo := uow.CatalogRepository()

	tests, err := catalogRepo.TestsByIDs(ctx, payload.TestIDs)
	if err != nil {
		return err
	}
	known := make(map[uint]struct{}, len(tests))
	for _, t := range tests {
		known[t.ID] = struct{}{}
	}
	for _, id := range payload.TestIDs {
		if _, ok := known[id]; !ok {
			return errs.NewObjectNotFoundError("test", strconv.FormatUint(uint64(id), 10))
		}
	}

	prev := ord.TestIDs()
	reconciler := services.NewFormSetReconciler(catalogRepo)
	forms, err := reconciler.Reconcile(ctx, ord.Forms, prev, payload.TestIDs)
	if err != nil {
		return err
	}
	ord.Forms = forms

	return uow.OrderRepository().SyncTests(ctx, ord, payload.TestIDs)
}

// applyPatientDetails persists submitted patients (dirty-checked updates for
// known ids, creations owned by the actor otherwise), promotes the first to
// main patient, replaces the order's patient set, and upserts the declared
// relation edges without detaching existing ones.
func (h *AdvanceOrderStepCommandHandler) applyPatientDetails(
	ctx context.Context,
	uow UoW,
	ord *order.Order,
	payload PatientDetailsPayload,
	actorID uint,
) error {
	if len(payload.Patients) == 0 {
		return errs.NewValueIsRequiredError("patients")
	}

	patients := uow.PatientRepository()
	ids := make([]uint, 0, len(payload.Patients))

	for _, pp := range payload.Patients {
		if pp.ID != nil {
			existing, err := patients.Get(ctx, *pp.ID)
			if err != nil {
				return err
			}
			if changed := existing.Apply(pp.demographics()); changed {
				if err = patients.Update(ctx, existing); err != nil {
					return err
				}
			}
			ids = append(ids, existing.ID)
			continue
		}

		created := &patient.Patient{UserID: actorID}
		created.Apply(pp.demographics())
		if err := patients.Add(ctx, created); err != nil {
			return err
		}
		ids = append(ids, created.ID)
	}

	mainID := ids[0]
	ord.MainPatientID = &mainID
	if err := uow.OrderRepository().ReplacePatients(ctx, ord.ID, ids); err != nil {
		return err
	}

	for i, pp := range payload.Patients {
		if len(pp.Relatives) == 0 {
			continue
		}
		edges := make([]patient.Relation, 0, len(pp.Relatives))
		for _, rel := range pp.Relatives {
			targetID, err := resolveRelationTarget(rel.Target, mainID)
			if err != nil {
				return err
			}
			edges = append(edges, patient.Relation{
				PatientID:    ids[i],
				RelativeID:   targetID,
				Relationship: rel.Relationship,
				Description:  rel.Description,
			})
		}
		if err := patients.UpsertRelations(ctx, ids[i], edges); err != nil {
			return err
		}
	}

	return nil
}

// resolveRelationTarget resolves a relation target reference: the literal
// "main" means the main patient computed by this same call.
func resolveRelationTarget(target string, mainID uint) (uint, error) {
	if target == "main" {
		return mainID, nil
	}
	id, err := strconv.ParseUint(target, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("relatives.target",
			fmt.Errorf("%q is neither a patient id nor \"main\"", target))
	}
	return uint(id), nil
}

// applyPatientTest rewires the patient edges of the order's items. Declared
// assignments replace an item's patient list wholesale, with index 0 flagged
// as main for that item. Without assignments every item defaults to the
// order's single main patient.
func (h *AdvanceOrderStepCommandHandler) applyPatientTest(
	ctx context.Context,
	uow UoW,
	ord *order.Order,
	payload PatientTestPayload,
) error {
	orders := uow.OrderRepository()

	if len(payload.Assignments) == 0 {
		if ord.MainPatientID == nil {
			return errs.NewValueIsRequiredError("main patient")
		}
		for i := range ord.OrderItems {
			if err := orders.SetItemPatients(ctx, ord.OrderItems[i].ID, []uint{*ord.MainPatientID}); err != nil {
				return err
			}
		}
		return nil
	}

	for _, assignment := range payload.Assignments {
		item := ord.ItemForTest(assignment.TestID)
		if item == nil {
			return errs.NewObjectNotFoundError("order item for test",
				strconv.FormatUint(uint64(assignment.TestID), 10))
		}
		if len(assignment.PatientIDs) == 0 {
			return errs.NewValueIsRequiredError("patient_ids")
		}
		if err := orders.SetItemPatients(ctx, item.ID, assignment.PatientIDs); err != nil {
			return err
		}
	}
	return nil
}

// applySampleDetails reconciles the submitted sample set through the
// sample/material reconciler, then prunes every sample still linked to the
// order but absent from the submission. The submission is the full desired
// sample set, not a patch.
func (h *AdvanceOrderStepCommandHandler) applySampleDetails(
	ctx context.Context,
	uow UoW,
	ord *order.Order,
	payload SampleDetailsPayload,
) error {
	reconciler := newSampleReconciler(uow)
	keep, err := reconciler.Reconcile(ctx, ord, payload.Samples)
	if err != nil {
		return err
	}

	_, err = uow.SampleRepository().PruneOrderSamples(ctx, ord.ID, keep)
	return err
}
