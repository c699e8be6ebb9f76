package order_test

import (
	"testing"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("should start at the first step with pending status", func(t *testing.T) {
		o := order.NewOrder(42)

		assert.Equal(t, uint(42), o.UserID)
		assert.Equal(t, order.StepTestMethod, o.Step)
		assert.Equal(t, order.StatusPending, o.Status)
		assert.NotEqual(t, "", o.ReferenceID.String())
		assert.Nil(t, o.ServerID)
	})

	t.Run("should mint distinct reference ids", func(t *testing.T) {
		o1 := order.NewOrder(1)
		o2 := order.NewOrder(1)

		assert.NotEqual(t, o1.ReferenceID, o2.ReferenceID)
	})
}

func TestOrder_AdvanceStep(t *testing.T) {
	t.Run("should walk the full workflow", func(t *testing.T) {
		o := order.NewOrder(1)

		expected := []order.Step{
			order.StepPatientDetails,
			order.StepPatientTest,
			order.StepClinicalDetails,
			order.StepSampleDetails,
			order.StepConsentForm,
			order.StepFinalize,
		}
		for _, want := range expected {
			o.AdvanceStep(o.Step)
			assert.Equal(t, want, o.Step)
		}
	})

	t.Run("should stay at the terminal step", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Step = order.StepFinalize

		o.AdvanceStep(order.StepFinalize)
		o.AdvanceStep(order.StepFinalize)

		assert.Equal(t, order.StepFinalize, o.Step)
	})

	t.Run("should not move when an earlier step is re-applied", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Step = order.StepSampleDetails

		o.AdvanceStep(order.StepClinicalDetails)

		assert.Equal(t, order.StepSampleDetails, o.Step)
	})

	t.Run("should not move when a later step is applied out of order", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Step = order.StepTestMethod

		o.AdvanceStep(order.StepConsentForm)

		assert.Equal(t, order.StepTestMethod, o.Step)
	})
}

func TestOrder_MarkRequested(t *testing.T) {
	t.Run("should request an order at the terminal step", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Step = order.StepFinalize

		err := o.MarkRequested()

		require.NoError(t, err)
		assert.Equal(t, order.StatusRequested, o.Status)
	})

	t.Run("should refuse before the terminal step", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Step = order.StepSampleDetails

		err := o.MarkRequested()

		require.Error(t, err)
		assert.Equal(t, order.StatusPending, o.Status)
	})

	t.Run("should be idempotent at the terminal step", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Step = order.StepFinalize

		require.NoError(t, o.MarkRequested())
		require.NoError(t, o.MarkRequested())
		assert.Equal(t, order.StatusRequested, o.Status)
	})
}

func TestOrder_MergeFiles(t *testing.T) {
	t.Run("should union new paths without dropping stored ones", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Files = []string{"uploads/a.pdf", "uploads/b.pdf"}

		o.MergeFiles([]string{"uploads/b.pdf", "uploads/c.pdf"})

		assert.Equal(t, []string{"uploads/a.pdf", "uploads/b.pdf", "uploads/c.pdf"}, []string(o.Files))
	})

	t.Run("should skip empty paths", func(t *testing.T) {
		o := order.NewOrder(1)

		o.MergeFiles([]string{"", "uploads/a.pdf", ""})

		assert.Equal(t, []string{"uploads/a.pdf"}, []string(o.Files))
	})

	t.Run("merging nothing keeps the list intact", func(t *testing.T) {
		o := order.NewOrder(1)
		o.Files = []string{"uploads/a.pdf"}

		o.MergeFiles(nil)

		assert.Equal(t, []string{"uploads/a.pdf"}, []string(o.Files))
	})
}

func TestOrder_ItemForTest(t *testing.T) {
	o := order.NewOrder(1)
	o.OrderItems = []order.Item{
		{ID: 10, TestID: 3},
		{ID: 11, TestID: 7},
	}

	t.Run("should find the item joining a selected test", func(t *testing.T) {
		item := o.ItemForTest(7)

		require.NotNil(t, item)
		assert.Equal(t, uint(11), item.ID)
	})

	t.Run("should return nil for an unselected test", func(t *testing.T) {
		assert.Nil(t, o.ItemForTest(99))
	})

	t.Run("TestIDs should list the selected tests", func(t *testing.T) {
		assert.Equal(t, []uint{3, 7}, o.TestIDs())
	})
}

func TestNewFormDoc(t *testing.T) {
	t.Run("should copy template fields with empty values", func(t *testing.T) {
		tpl := catalog.OrderForm{
			ID:   5,
			Name: "Pre-test questionnaire",
			Fields: catalog.FormFieldList{
				{ID: "q1", Type: "text", Label: "Symptoms", Required: true},
				{ID: "q2", Type: "checkbox", Label: "Fasting"},
			},
		}

		doc := order.NewFormDoc(tpl)

		assert.Equal(t, uint(5), doc.TemplateID)
		assert.Equal(t, "Pre-test questionnaire", doc.Name)
		require.Len(t, doc.Fields, 2)
		assert.Equal(t, "q1", doc.Fields[0].ID)
		assert.True(t, doc.Fields[0].Required)
		assert.Equal(t, "", doc.Fields[0].Value)
		assert.Equal(t, "", doc.Fields[1].Value)
	})

	t.Run("filling the copy must not touch the template", func(t *testing.T) {
		tpl := catalog.OrderForm{
			ID:     6,
			Fields: catalog.FormFieldList{{ID: "q1", Type: "text", Label: "Symptoms"}},
		}

		doc := order.NewFormDoc(tpl)
		doc.Fields[0].Value = "positive"
		doc.Fields[0].Label = "edited"

		assert.Equal(t, "Symptoms", tpl.Fields[0].Label)
	})
}

func TestFormDocList_Contains(t *testing.T) {
	list := order.FormDocList{
		{TemplateID: 1},
		{TemplateID: 4},
	}

	assert.True(t, list.Contains(4))
	assert.False(t, list.Contains(2))
	assert.False(t, order.FormDocList(nil).Contains(1))
}

func TestConsentDoc_MergeFiles(t *testing.T) {
	t.Run("should append under the consent key without duplicates", func(t *testing.T) {
		doc := order.ConsentDoc{
			order.ConsentFilesKey: {"consent/a.pdf"},
		}

		merged := doc.MergeFiles(order.ConsentFilesKey, []string{"consent/a.pdf", "consent/b.pdf"})

		assert.Equal(t, []string{"consent/a.pdf", "consent/b.pdf"}, merged[order.ConsentFilesKey])
	})

	t.Run("should preserve foreign sub-keys", func(t *testing.T) {
		doc := order.ConsentDoc{
			"verbalConsent": {"recordings/v1.ogg"},
		}

		merged := doc.MergeFiles(order.ConsentFilesKey, []string{"consent/a.pdf"})

		assert.Equal(t, []string{"recordings/v1.ogg"}, merged["verbalConsent"])
		assert.Equal(t, []string{"consent/a.pdf"}, merged[order.ConsentFilesKey])
	})

	t.Run("should handle nil receiver", func(t *testing.T) {
		var doc order.ConsentDoc

		merged := doc.MergeFiles(order.ConsentFilesKey, []string{"consent/a.pdf"})

		assert.Equal(t, []string{"consent/a.pdf"}, merged[order.ConsentFilesKey])
	})
}
