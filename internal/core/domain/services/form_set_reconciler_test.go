package services_test

import (
	"context"
	"testing"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTemplateSource maps test ids to their form templates the way the
// catalog's test_order_forms join does.
type fakeTemplateSource struct {
	byTest map[uint][]catalog.OrderForm
}

func (f fakeTemplateSource) FormsForTests(_ context.Context, testIDs []uint) ([]catalog.OrderForm, error) {
	var out []catalog.OrderForm
	seen := map[uint]struct{}{}
	for _, id := range testIDs {
		for _, tpl := range f.byTest[id] {
			if _, dup := seen[tpl.ID]; dup {
				continue
			}
			seen[tpl.ID] = struct{}{}
			out = append(out, tpl)
		}
	}
	return out, nil
}

func TestFormSetReconciler_Reconcile(t *testing.T) {
	f1 := catalog.OrderForm{ID: 1, Name: "F1"}
	f2 := catalog.OrderForm{ID: 2, Name: "F2"}
	f3 := catalog.OrderForm{ID: 3, Name: "F3"}

	source := fakeTemplateSource{byTest: map[uint][]catalog.OrderForm{
		1: {f1, f2},
		2: {f2},
		3: {f3},
	}}
	reconciler := services.NewFormSetReconciler(source)

	templateIDs := func(docs order.FormDocList) []uint {
		ids := make([]uint, 0, len(docs))
		for _, d := range docs {
			ids = append(ids, d.TemplateID)
		}
		return ids
	}

	t.Run("fresh order gets the full applicable set without duplicates", func(t *testing.T) {
		docs, err := reconciler.Reconcile(context.Background(), nil, nil, []uint{1, 2})

		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, templateIDs(docs))
	})

	t.Run("swapping tests drops only forms no remaining test needs", func(t *testing.T) {
		current := order.FormDocList{
			order.NewFormDoc(f1),
			order.NewFormDoc(f2),
		}

		// T1 leaves, T3 arrives; F2 stays because T2 still needs it, F1 goes.
		docs, err := reconciler.Reconcile(context.Background(), current, []uint{1, 2}, []uint{2, 3})

		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{2, 3}, templateIDs(docs))
		assert.False(t, docs.Contains(1))
	})

	t.Run("surviving form copies keep their collected values", func(t *testing.T) {
		filled := order.NewFormDoc(catalog.OrderForm{
			ID:     2,
			Name:   "F2",
			Fields: catalog.FormFieldList{{ID: "q1", Type: "text"}},
		})
		filled.Fields[0].Value = "answered"
		current := order.FormDocList{order.NewFormDoc(f1), filled}

		docs, err := reconciler.Reconcile(context.Background(), current, []uint{1, 2}, []uint{2, 3})

		require.NoError(t, err)
		var survivor *order.FormDoc
		for i := range docs {
			if docs[i].TemplateID == 2 {
				survivor = &docs[i]
			}
		}
		require.NotNil(t, survivor)
		require.Len(t, survivor.Fields, 1)
		assert.Equal(t, "answered", survivor.Fields[0].Value)
	})

	t.Run("adding a test whose form is already attached adds nothing", func(t *testing.T) {
		current := order.FormDocList{order.NewFormDoc(f1), order.NewFormDoc(f2)}

		docs, err := reconciler.Reconcile(context.Background(), current, []uint{1}, []uint{1, 2})

		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, templateIDs(docs))
	})

	t.Run("removing every test empties the set", func(t *testing.T) {
		current := order.FormDocList{order.NewFormDoc(f3)}

		docs, err := reconciler.Reconcile(context.Background(), current, []uint{3}, nil)

		require.NoError(t, err)
		assert.Empty(t, docs)
		assert.NotNil(t, docs)
	})

	t.Run("result does not depend on the order of test ids", func(t *testing.T) {
		current := order.FormDocList{order.NewFormDoc(f1), order.NewFormDoc(f2)}

		a, err := reconciler.Reconcile(context.Background(), current, []uint{1, 2}, []uint{2, 3})
		require.NoError(t, err)
		b, err := reconciler.Reconcile(context.Background(), current, []uint{2, 1}, []uint{3, 2})
		require.NoError(t, err)

		assert.ElementsMatch(t, templateIDs(a), templateIDs(b))
	})
}
