// Package services contains stateless domain services that coordinate logic
// across aggregates without owning persistence. Dependencies come in as
// narrow source interfaces so the services stay testable in isolation.
package services

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
)

// FormTemplateSource supplies the intake form templates applicable to a set
// of tests. Satisfied by ports.CatalogRepository.
type FormTemplateSource interface {
	FormsForTests(ctx context.Context, testIDs []uint) ([]catalog.OrderForm, error)
}

// FormSetReconciler computes the intake form set an order must carry after a
// change to its test selection.
//
// The result is independent of evaluation order: a form attached for a
// removed test survives whenever any remaining test still requires it, and a
// template never appears twice regardless of how many selected tests
// reference it. Form copies already on the order keep their collected values.
type FormSetReconciler struct {
	templates FormTemplateSource
}

// NewFormSetReconciler creates a reconciler over the given template source.
func NewFormSetReconciler(templates FormTemplateSource) FormSetReconciler {
	return FormSetReconciler{templates: templates}
}

// Reconcile diffs the previous and new test selections and returns the form
// documents the order must carry. With no prior selection and no current
// forms (fresh order) it simply returns the full set applicable to the new
// test ids.
func (r FormSetReconciler) Reconcile(
	ctx context.Context,
	current order.FormDocList,
	prevTestIDs []uint,
	newTestIDs []uint,
) (order.FormDocList, error) {
	if len(prevTestIDs) == 0 && len(current) == 0 {
		tpls, err := r.templates.FormsForTests(ctx, newTestIDs)
		if err != nil {
			return nil, err
		}
		docs := make(order.FormDocList, 0, len(tpls))
		for _, tpl := range tpls {
			if docs.Contains(tpl.ID) {
				continue
			}
			docs = append(docs, order.NewFormDoc(tpl))
		}
		return docs, nil
	}

	added := difference(newTestIDs, prevTestIDs)
	removed := difference(prevTestIDs, newTestIDs)

	result := current

	if len(removed) > 0 {
		removedTpls, err := r.templates.FormsForTests(ctx, removed)
		if err != nil {
			return nil, err
		}
		stillNeeded, err := r.templateIDSet(ctx, newTestIDs)
		if err != nil {
			return nil, err
		}

		drop := make(map[uint]struct{}, len(removedTpls))
		for _, tpl := range removedTpls {
			if _, keep := stillNeeded[tpl.ID]; keep {
				continue
			}
			drop[tpl.ID] = struct{}{}
		}

		kept := make(order.FormDocList, 0, len(result))
		for _, doc := range result {
			if _, gone := drop[doc.TemplateID]; gone {
				continue
			}
			kept = append(kept, doc)
		}
		result = kept
	}

	if len(added) > 0 {
		addedTpls, err := r.templates.FormsForTests(ctx, added)
		if err != nil {
			return nil, err
		}
		fresh := make(order.FormDocList, 0, len(addedTpls))
		for _, tpl := range addedTpls {
			if result.Contains(tpl.ID) || fresh.Contains(tpl.ID) {
				continue
			}
			fresh = append(fresh, order.NewFormDoc(tpl))
		}
		// New forms go in front so operators see the unfilled ones first.
		result = append(fresh, result...)
	}

	if result == nil {
		result = order.FormDocList{}
	}
	return result, nil
}

func (r FormSetReconciler) templateIDSet(ctx context.Context, testIDs []uint) (map[uint]struct{}, error) {
	tpls, err := r.templates.FormsForTests(ctx, testIDs)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(tpls))
	for _, tpl := range tpls {
		set[tpl.ID] = struct{}{}
	}
	return set, nil
}

// difference returns the elements of a that are not in b, preserving order.
func difference(a, b []uint) []uint {
	inB := make(map[uint]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	out := make([]uint, 0, len(a))
	for _, id := range a {
		if _, ok := inB[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
