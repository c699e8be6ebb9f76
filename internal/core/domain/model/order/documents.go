package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
)

// FormFieldValue is one field of an order-scoped form copy: the template's
// field definition plus the value collected during intake.
type FormFieldValue struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Value    string `json:"value"`
}

// FormDoc is an order-scoped copy of an intake form template. Attaching a
// template copies its field definitions into the order, so filling values
// never mutates the template itself.
type FormDoc struct {
	TemplateID uint             `json:"template_id"`
	Name       string           `json:"name"`
	Fields     []FormFieldValue `json:"fields"`
}

// NewFormDoc creates an order-scoped copy of a form template. Field values
// start empty; edits to the copy never reach the template.
func NewFormDoc(tpl catalog.OrderForm) FormDoc {
	fields := make([]FormFieldValue, 0, len(tpl.Fields))
	for _, f := range tpl.Fields {
		fields = append(fields, FormFieldValue{
			ID:       f.ID,
			Type:     f.Type,
			Label:    f.Label,
			Required: f.Required,
		})
	}
	return FormDoc{
		TemplateID: tpl.ID,
		Name:       tpl.Name,
		Fields:     fields,
	}
}

// FormDocList is the order's attached form set, persisted as a single jsonb
// document rather than relational rows.
type FormDocList []FormDoc

// Value implements driver.Valuer for jsonb persistence.
func (l FormDocList) Value() (driver.Value, error) {
	if l == nil {
		l = FormDocList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for jsonb persistence.
func (l *FormDocList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		if s, isString := src.(string); isString {
			raw = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into FormDocList", src)
		}
	}
	return json.Unmarshal(raw, l)
}

// Contains reports whether a form copied from the given template is attached.
func (l FormDocList) Contains(templateID uint) bool {
	for _, doc := range l {
		if doc.TemplateID == templateID {
			return true
		}
	}
	return false
}

// ConsentDoc is the order's consent block: a map of consent sub-keys to file
// path lists, persisted as jsonb. Uploaded consent-form files live under
// ConsentFilesKey; other sub-keys (e.g. recorded verbal consents) are owned
// by collaborators and must be preserved across merges.
type ConsentDoc map[string][]string

// ConsentFilesKey is the sub-key holding consent files uploaded during the
// consent-form step.
const ConsentFilesKey = "consentForm"

// Value implements driver.Valuer for jsonb persistence.
func (d ConsentDoc) Value() (driver.Value, error) {
	if d == nil {
		d = ConsentDoc{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for jsonb persistence.
func (d *ConsentDoc) Scan(src any) error {
	if src == nil {
		*d = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		if s, isString := src.(string); isString {
			raw = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into ConsentDoc", src)
		}
	}
	return json.Unmarshal(raw, d)
}

// MergeFiles appends files under the given sub-key, skipping duplicates and
// leaving every other sub-key untouched. Returns the merged document; the
// receiver may be nil.
func (d ConsentDoc) MergeFiles(key string, files []string) ConsentDoc {
	merged := ConsentDoc{}
	for k, v := range d {
		merged[k] = v
	}
	existing := merged[key]
	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		seen[f] = struct{}{}
	}
	for _, f := range files {
		if _, dup := seen[f]; dup {
			continue
		}
		existing = append(existing, f)
		seen[f] = struct{}{}
	}
	merged[key] = existing
	return merged
}
