// Package extract implements the heuristic field extractors that derive
// structured article fields from fetched pages. Extractors are pure functions
// over a parsed document (or the resolved URL, for the media name) and report
// a miss instead of returning errors: adversarial or garbled markup can only
// ever produce an absent value.
package extract

import "github.com/PuerkitoBio/goquery"

// Field identifies one derived article field. Each field maps to its own
// extraction function; there is no extractor hierarchy.
type Field int

const (
	FieldContent Field = iota
	FieldTitle
	FieldDate
	FieldMediaName
	FieldJournalist
)

// Fields returns the derived fields in their canonical output column order.
func Fields() []Field {
	return []Field{FieldContent, FieldTitle, FieldDate, FieldMediaName, FieldJournalist}
}

// Column returns the output column name for the field.
func (f Field) Column() string {
	switch f {
	case FieldContent:
		return "content"
	case FieldTitle:
		return "title"
	case FieldDate:
		return "date"
	case FieldMediaName:
		return "media_name"
	case FieldJournalist:
		return "journalist_name"
	}
	return "unknown"
}

// RequiresFetch reports whether the field needs the fetched document. The
// media name is derived from the resolved URL alone.
func (f Field) RequiresFetch() bool {
	return f != FieldMediaName
}

// FromDocument applies the field's heuristic to a parsed page. ok is false
// when the heuristic found nothing. Calling this for FieldMediaName always
// reports a miss; use MediaName with the resolved URL instead.
func (f Field) FromDocument(doc *goquery.Document) (value string, ok bool) {
	switch f {
	case FieldContent:
		return Content(doc)
	case FieldTitle:
		return Title(doc)
	case FieldDate:
		return Date(doc)
	case FieldJournalist:
		return Journalist(doc)
	}
	return "", false
}
