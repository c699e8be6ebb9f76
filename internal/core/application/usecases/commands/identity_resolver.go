package commands

import (
	"context"
	"log/slog"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/core/ports"
)

// identityResolver finds or provisions local entities for externally-issued
// references during import. Patients resolve by external id, then reference
// code, then id-number, and are created when nothing matches. Catalog
// references (tests, sample types) favor availability over strict referential
// integrity: an unknown external id yields a placeholder row, with a
// warning-level audit signal so catalog curation can correct it later.
type identityResolver struct {
	patients ports.PatientRepository
	catalog  ports.CatalogRepository
	logger   *slog.Logger
}

func newIdentityResolver(uow UoW, logger *slog.Logger) identityResolver {
	return identityResolver{
		patients: uow.PatientRepository(),
		catalog:  uow.CatalogRepository(),
		logger:   logger,
	}
}

// ResolvePatient upserts the patient described by the import payload. Found
// patients get a dirty-checked demographic refresh and an external-id
// backfill; otherwise a new patient owned by ownerID is created. There is no
// fuzzy matching: payloads carrying no external identity always create.
func (r identityResolver) ResolvePatient(
	ctx context.Context,
	in ImportedPatient,
	ownerID uint,
) (*patient.Patient, error) {
	found, err := r.findPatient(ctx, in)
	if err != nil {
		return nil, err
	}

	if found == nil {
		created := &patient.Patient{
			UserID:        ownerID,
			ServerID:      in.ID,
			ReferenceCode: in.ReferenceCode,
			IDNumber:      in.IDNumber,
		}
		created.Apply(in.demographics())
		if err = r.patients.Add(ctx, created); err != nil {
			return nil, err
		}
		return created, nil
	}

	changed := found.Apply(in.demographics())
	if in.ID != nil && found.ServerID == nil {
		found.ServerID = in.ID
		changed = true
	}
	if changed {
		if err = r.patients.Update(ctx, found); err != nil {
			return nil, err
		}
	}
	return found, nil
}

func (r identityResolver) findPatient(ctx context.Context, in ImportedPatient) (*patient.Patient, error) {
	if in.ID != nil {
		if p, err := r.patients.FindByServerID(ctx, *in.ID); err != nil || p != nil {
			return p, err
		}
	}
	if in.ReferenceCode != nil && *in.ReferenceCode != "" {
		if p, err := r.patients.FindByReferenceCode(ctx, *in.ReferenceCode); err != nil || p != nil {
			return p, err
		}
	}
	if in.IDNumber != nil && *in.IDNumber != "" {
		if p, err := r.patients.FindByIDNumber(ctx, *in.IDNumber); err != nil || p != nil {
			return p, err
		}
	}
	return nil, nil
}

// ResolveTest resolves a test by external id, provisioning an inactive
// placeholder from the payload's embedded summary when the catalog does not
// know the id yet.
func (r identityResolver) ResolveTest(ctx context.Context, in ImportedOrderItem) (*catalog.Test, error) {
	serverID := in.TestID
	if serverID == 0 {
		serverID = in.Test.ID
	}

	found, err := r.catalog.TestByServerID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if found != nil {
		return found, nil
	}

	placeholder := &catalog.Test{
		ServerID:    &serverID,
		Name:        in.Test.Name,
		Code:        in.Test.Code,
		IsActive:    false,
		Placeholder: true,
	}
	if err = r.catalog.AddTest(ctx, placeholder); err != nil {
		return nil, err
	}
	r.logger.WarnContext(ctx, "provisioned placeholder test from import",
		"server_id", serverID, "code", in.Test.Code, "name", in.Test.Name)
	return placeholder, nil
}

// ResolveSampleType resolves a sample type by external id, provisioning a
// non-orderable placeholder when unknown.
func (r identityResolver) ResolveSampleType(ctx context.Context, in ImportedSample) (*catalog.SampleType, error) {
	serverID := in.SampleTypeID
	if serverID == 0 {
		serverID = in.SampleType.ID
	}

	found, err := r.catalog.SampleTypeByServerID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if found != nil {
		return found, nil
	}

	placeholder := &catalog.SampleType{
		ServerID:    &serverID,
		Name:        in.SampleType.Name,
		Orderable:   false,
		Placeholder: true,
	}
	if err = r.catalog.AddSampleType(ctx, placeholder); err != nil {
		return nil, err
	}
	r.logger.WarnContext(ctx, "provisioned placeholder sample type from import",
		"server_id", serverID, "name", in.SampleType.Name)
	return placeholder, nil
}
