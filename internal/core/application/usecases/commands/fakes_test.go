package commands_test

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/commands"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/patient"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/sample"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/user"
	"github.com/arvni/provider-panel-sub000/internal/core/ports"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is the shared in-memory state behind the fake repositories. Join
// tables are kept explicitly so association semantics (replace vs attach)
// can be asserted.
type memStore struct {
	nextID uint

	orders   map[uint]*order.Order
	items    map[uint]*order.Item
	patients map[uint]*patient.Patient
	tests    map[uint]*catalog.Test
	stypes   map[uint]*catalog.SampleType
	samples  map[uint]*sample.Sample
	mats     map[uint]*sample.Material
	users    map[uint]*user.User

	formsByTest map[uint][]catalog.OrderForm

	orderPatients map[uint][]uint                // order id -> patient ids
	itemPatients  map[uint][]order.ItemPatient   // item id -> edges
	itemSamples   map[uint][]uint                // item id -> sample ids
	relations     map[[2]uint]patient.Relation   // (patient, relative) -> edge

	patientUpdates int
	sampleAdds     int
}

func newMemStore() *memStore {
	return &memStore{
		orders:        map[uint]*order.Order{},
		items:         map[uint]*order.Item{},
		patients:      map[uint]*patient.Patient{},
		tests:         map[uint]*catalog.Test{},
		stypes:        map[uint]*catalog.SampleType{},
		samples:       map[uint]*sample.Sample{},
		mats:          map[uint]*sample.Material{},
		users:         map[uint]*user.User{},
		formsByTest:   map[uint][]catalog.OrderForm{},
		orderPatients: map[uint][]uint{},
		itemPatients:  map[uint][]order.ItemPatient{},
		itemSamples:   map[uint][]uint{},
		relations:     map[[2]uint]patient.Relation{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) orderItems(orderID uint) []order.Item {
	var out []order.Item
	for _, item := range s.items {
		if item.OrderID == orderID {
			out = append(out, *item)
		}
	}
	return out
}

// fakeUoW implements commands.UoW over a memStore. Begin/Commit/Rollback only
// track lifecycle; there is no transactional isolation, which is fine for
// asserting commit decisions.
type fakeUoW struct {
	store      *memStore
	committed  bool
	rolledBack bool
}

func (u *fakeUoW) Begin(context.Context) error    { return nil }
func (u *fakeUoW) Commit(context.Context) error   { u.committed = true; return nil }
func (u *fakeUoW) Rollback(context.Context) error { u.rolledBack = true; return nil }

func (u *fakeUoW) OrderRepository() ports.OrderRepository     { return &fakeOrderRepo{u.store} }
func (u *fakeUoW) PatientRepository() ports.PatientRepository { return &fakePatientRepo{u.store} }
func (u *fakeUoW) CatalogRepository() ports.CatalogRepository { return &fakeCatalogRepo{u.store} }
func (u *fakeUoW) SampleRepository() ports.SampleRepository   { return &fakeSampleRepo{u.store} }
func (u *fakeUoW) UserRepository() ports.UserRepository       { return &fakeUserRepo{u.store} }

type fakeUoWFactory struct {
	uow *fakeUoW
}

func (f *fakeUoWFactory) Create() commands.UoW { return f.uow }

func newFakeUoW() (*fakeUoW, commands.UoWFactory, *memStore) {
	store := newMemStore()
	uow := &fakeUoW{store: store}
	return uow, &fakeUoWFactory{uow: uow}, store
}

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Add(_ context.Context, o *order.Order) error {
	o.ID = r.s.id()
	r.s.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	if _, ok := r.s.orders[o.ID]; !ok {
		return errs.NewObjectNotFoundError("order", o.ID)
	}
	r.s.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id uint) (*order.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	o.OrderItems = r.s.orderItems(id)
	return o, nil
}

func (r *fakeOrderRepo) GetByServerID(_ context.Context, serverID int64) (*order.Order, error) {
	for _, o := range r.s.orders {
		if o.ServerID != nil && *o.ServerID == serverID {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) SyncTests(_ context.Context, o *order.Order, testIDs []uint) error {
	want := map[uint]struct{}{}
	for _, id := range testIDs {
		want[id] = struct{}{}
	}
	for id, item := range r.s.items {
		if item.OrderID != o.ID {
			continue
		}
		if _, keep := want[item.TestID]; !keep {
			delete(r.s.items, id)
			delete(r.s.itemSamples, id)
			delete(r.s.itemPatients, id)
		}
	}
	have := map[uint]struct{}{}
	for _, item := range r.s.items {
		if item.OrderID == o.ID {
			have[item.TestID] = struct{}{}
		}
	}
	for _, testID := range testIDs {
		if _, ok := have[testID]; ok {
			continue
		}
		item := &order.Item{ID: r.s.id(), OrderID: o.ID, TestID: testID}
		r.s.items[item.ID] = item
	}
	o.OrderItems = r.s.orderItems(o.ID)
	return nil
}

func (r *fakeOrderRepo) AddItem(_ context.Context, item *order.Item) error {
	item.ID = r.s.id()
	r.s.items[item.ID] = item
	return nil
}

func (r *fakeOrderRepo) ReplacePatients(_ context.Context, orderID uint, patientIDs []uint) error {
	r.s.orderPatients[orderID] = append([]uint(nil), patientIDs...)
	return nil
}

func (r *fakeOrderRepo) SetItemPatients(_ context.Context, itemID uint, patientIDs []uint) error {
	edges := make([]order.ItemPatient, 0, len(patientIDs))
	for i, pid := range patientIDs {
		edges = append(edges, order.ItemPatient{OrderItemID: itemID, PatientID: pid, IsMain: i == 0})
	}
	r.s.itemPatients[itemID] = edges
	return nil
}

func (r *fakeOrderRepo) AttachItemPatient(_ context.Context, itemID, patientID uint, isMain bool) error {
	for i, edge := range r.s.itemPatients[itemID] {
		if edge.PatientID == patientID {
			r.s.itemPatients[itemID][i].IsMain = isMain
			return nil
		}
	}
	r.s.itemPatients[itemID] = append(r.s.itemPatients[itemID],
		order.ItemPatient{OrderItemID: itemID, PatientID: patientID, IsMain: isMain})
	return nil
}

func (r *fakeOrderRepo) AttachItemSample(_ context.Context, itemID, sampleID uint) error {
	for _, sid := range r.s.itemSamples[itemID] {
		if sid == sampleID {
			return nil
		}
	}
	r.s.itemSamples[itemID] = append(r.s.itemSamples[itemID], sampleID)
	return nil
}

func (r *fakeOrderRepo) LinkedSampleIDs(_ context.Context, orderID uint) ([]uint, error) {
	seen := map[uint]struct{}{}
	var out []uint
	for itemID, sampleIDs := range r.s.itemSamples {
		item, ok := r.s.items[itemID]
		if !ok || item.OrderID != orderID {
			continue
		}
		for _, sid := range sampleIDs {
			if _, dup := seen[sid]; dup {
				continue
			}
			seen[sid] = struct{}{}
			out = append(out, sid)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) CountItems(_ context.Context, orderID uint) (int64, error) {
	return int64(len(r.s.orderItems(orderID))), nil
}

func (r *fakeOrderRepo) CountSamples(ctx context.Context, orderID uint) (int64, error) {
	ids, _ := r.LinkedSampleIDs(ctx, orderID)
	return int64(len(ids)), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uint, status order.Status) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return errs.NewObjectNotFoundError("order", orderID)
	}
	o.Status = status
	return nil
}

type fakePatientRepo struct{ s *memStore }

func (r *fakePatientRepo) Add(_ context.Context, p *patient.Patient) error {
	p.ID = r.s.id()
	r.s.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Update(_ context.Context, p *patient.Patient) error {
	if _, ok := r.s.patients[p.ID]; !ok {
		return errs.NewObjectNotFoundError("patient", p.ID)
	}
	r.s.patients[p.ID] = p
	r.s.patientUpdates++
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, id uint) (*patient.Patient, error) {
	p, ok := r.s.patients[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("patient", id)
	}
	return p, nil
}

func (r *fakePatientRepo) FindByServerID(_ context.Context, serverID int64) (*patient.Patient, error) {
	for _, p := range r.s.patients {
		if p.ServerID != nil && *p.ServerID == serverID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindByReferenceCode(_ context.Context, code string) (*patient.Patient, error) {
	for _, p := range r.s.patients {
		if p.ReferenceCode != nil && *p.ReferenceCode == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindByIDNumber(_ context.Context, idNumber string) (*patient.Patient, error) {
	for _, p := range r.s.patients {
		if p.IDNumber != nil && *p.IDNumber == idNumber {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) UpsertRelations(_ context.Context, patientID uint, relations []patient.Relation) error {
	for _, rel := range relations {
		rel.PatientID = patientID
		r.s.relations[[2]uint{rel.PatientID, rel.RelativeID}] = rel
	}
	return nil
}

type fakeCatalogRepo struct{ s *memStore }

func (r *fakeCatalogRepo) TestByID(_ context.Context, id uint) (*catalog.Test, error) {
	t, ok := r.s.tests[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("test", id)
	}
	return t, nil
}

func (r *fakeCatalogRepo) TestsByIDs(_ context.Context, ids []uint) ([]catalog.Test, error) {
	var out []catalog.Test
	for _, id := range ids {
		if t, ok := r.s.tests[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) TestByServerID(_ context.Context, serverID int64) (*catalog.Test, error) {
	for _, t := range r.s.tests {
		if t.ServerID != nil && *t.ServerID == serverID {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) AddTest(_ context.Context, t *catalog.Test) error {
	t.ID = r.s.id()
	r.s.tests[t.ID] = t
	return nil
}

func (r *fakeCatalogRepo) SampleTypeByID(_ context.Context, id uint) (*catalog.SampleType, error) {
	st, ok := r.s.stypes[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("sample type", id)
	}
	return st, nil
}

func (r *fakeCatalogRepo) SampleTypeByServerID(_ context.Context, serverID int64) (*catalog.SampleType, error) {
	for _, st := range r.s.stypes {
		if st.ServerID != nil && *st.ServerID == serverID {
			return st, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) AddSampleType(_ context.Context, st *catalog.SampleType) error {
	st.ID = r.s.id()
	r.s.stypes[st.ID] = st
	return nil
}

func (r *fakeCatalogRepo) FormsForTests(_ context.Context, testIDs []uint) ([]catalog.OrderForm, error) {
	var out []catalog.OrderForm
	seen := map[uint]struct{}{}
	for _, id := range testIDs {
		for _, tpl := range r.s.formsByTest[id] {
			if _, dup := seen[tpl.ID]; dup {
				continue
			}
			seen[tpl.ID] = struct{}{}
			out = append(out, tpl)
		}
	}
	return out, nil
}

type fakeSampleRepo struct{ s *memStore }

func (r *fakeSampleRepo) Add(_ context.Context, smp *sample.Sample) error {
	smp.ID = r.s.id()
	r.s.samples[smp.ID] = smp
	r.s.sampleAdds++
	return nil
}

func (r *fakeSampleRepo) Update(_ context.Context, smp *sample.Sample) error {
	if _, ok := r.s.samples[smp.ID]; !ok {
		return errs.NewObjectNotFoundError("sample", smp.ID)
	}
	r.s.samples[smp.ID] = smp
	return nil
}

func (r *fakeSampleRepo) Get(_ context.Context, id uint) (*sample.Sample, error) {
	smp, ok := r.s.samples[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("sample", id)
	}
	return smp, nil
}

func (r *fakeSampleRepo) FindByTypeAndSampleID(_ context.Context, sampleTypeID uint, sampleID string) (*sample.Sample, error) {
	for _, smp := range r.s.samples {
		if smp.SampleTypeID == sampleTypeID && smp.SampleID != nil && *smp.SampleID == sampleID {
			return smp, nil
		}
	}
	return nil, nil
}

func (r *fakeSampleRepo) MaterialByBarcode(_ context.Context, barcode string) (*sample.Material, error) {
	for _, m := range r.s.mats {
		if m.Barcode == barcode {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeSampleRepo) AddMaterial(_ context.Context, m *sample.Material) error {
	m.ID = r.s.id()
	r.s.mats[m.ID] = m
	return nil
}

func (r *fakeSampleRepo) PruneOrderSamples(ctx context.Context, orderID uint, keep []uint) ([]uint, error) {
	keepSet := map[uint]struct{}{}
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}

	linked, _ := (&fakeOrderRepo{r.s}).LinkedSampleIDs(ctx, orderID)
	var victims []uint
	for _, sid := range linked {
		if _, ok := keepSet[sid]; !ok {
			victims = append(victims, sid)
		}
	}

	for itemID, sampleIDs := range r.s.itemSamples {
		item, ok := r.s.items[itemID]
		if !ok || item.OrderID != orderID {
			continue
		}
		var kept []uint
		for _, sid := range sampleIDs {
			if _, keepIt := keepSet[sid]; keepIt {
				kept = append(kept, sid)
			}
		}
		r.s.itemSamples[itemID] = kept
	}

	var deleted []uint
	for _, sid := range victims {
		referenced := false
		for _, sampleIDs := range r.s.itemSamples {
			for _, other := range sampleIDs {
				if other == sid {
					referenced = true
				}
			}
		}
		if !referenced {
			delete(r.s.samples, sid)
			deleted = append(deleted, sid)
		}
	}
	return deleted, nil
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Get(_ context.Context, id uint) (*user.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("user", id)
	}
	return u, nil
}

func (r *fakeUserRepo) ByReferrerID(_ context.Context, referrerID string) (*user.User, error) {
	for _, u := range r.s.users {
		if u.ReferrerID == referrerID {
			return u, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("referrer", referrerID)
}

func uintPtr(v uint) *uint    { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func uintStr(v uint) string   { return strconv.FormatUint(uint64(v), 10) }
