package notion

import (
	"time"

	"github.com/jomei/notionapi"
)

// Property names expected on the expense database. The Category and Date
// columns tolerate several schema variants; everything else degrades to a
// zero value when absent.
const (
	propName     = "Name"
	propAmount   = "Amount"
	propCategory = "Category"
	propDate     = "Date"
	propComment  = "Comment"
)

// categoryKind enumerates the source representations a category may take.
type categoryKind int

const (
	categoryAbsent categoryKind = iota
	categorySelect
	categoryMultiSelect
	categoryRichText
)

// categoryValue is the tagged union over the possible category shapes.
type categoryValue struct {
	kind categoryKind
	name string
}

// categoryOf classifies a category property into its variant. The switch
// arms are ordered by extraction priority: single-select, multi-select
// (first entry), rich text (first fragment). An empty value inside a
// variant counts as absent.
func categoryOf(p notionapi.Property) categoryValue {
	switch prop := p.(type) {
	case *notionapi.SelectProperty:
		if prop.Select.Name != "" {
			return categoryValue{kind: categorySelect, name: prop.Select.Name}
		}
	case *notionapi.MultiSelectProperty:
		if len(prop.MultiSelect) > 0 && prop.MultiSelect[0].Name != "" {
			return categoryValue{kind: categoryMultiSelect, name: prop.MultiSelect[0].Name}
		}
	case *notionapi.RichTextProperty:
		if v := firstFragment(prop.RichText); v != "" {
			return categoryValue{kind: categoryRichText, name: v}
		}
	}
	return categoryValue{kind: categoryAbsent}
}

// titleText extracts the first text fragment of a title property.
// Returns empty string if the property is absent or not a title.
func titleText(p notionapi.Property) string {
	if title, ok := p.(*notionapi.TitleProperty); ok {
		return firstFragment(title.Title)
	}
	return ""
}

// richText extracts the first text fragment of a rich-text property.
// Returns empty string if the property is absent or not rich text.
func richText(p notionapi.Property) string {
	if rt, ok := p.(*notionapi.RichTextProperty); ok {
		return firstFragment(rt.RichText)
	}
	return ""
}

// numberValue extracts a number property. Missing, null or non-number
// values coerce to 0.
func numberValue(p notionapi.Property) float64 {
	if num, ok := p.(*notionapi.NumberProperty); ok {
		return num.Number
	}
	return 0
}

// dateStart extracts the start instant of a typed date property. Date-only
// values arrive as midnight UTC, which matches the "no timezone means UTC"
// rule. The second return is false when no start date is set.
func dateStart(p notionapi.Property) (time.Time, bool) {
	date, ok := p.(*notionapi.DateProperty)
	if !ok || date.Date == nil || date.Date.Start == nil {
		return time.Time{}, false
	}
	return time.Time(*date.Date.Start), true
}

func firstFragment(fragments []notionapi.RichText) string {
	if len(fragments) == 0 {
		return ""
	}
	if fragments[0].Text != nil {
		return fragments[0].Text.Content
	}
	return fragments[0].PlainText
}
