package domain

import "encoding/json"

// ShapeDocument is the shared whiteboard state of one room: five
// independent ordered collections of opaque drawing primitives. The
// server never looks inside an element; documents are replaced
// wholesale on every update (last writer wins).
type ShapeDocument struct {
	Rectangles []json.RawMessage `json:"rectangles"`
	Circles    []json.RawMessage `json:"circles"`
	Arrows     []json.RawMessage `json:"arrows"`
	Scribbles  []json.RawMessage `json:"scribbles"`
	Text       []json.RawMessage `json:"text"`
}

// NewShapeDocument returns an empty document whose collections marshal
// as [] rather than null, so a freshly joined client renders cleanly.
func NewShapeDocument() ShapeDocument {
	return ShapeDocument{
		Rectangles: []json.RawMessage{},
		Circles:    []json.RawMessage{},
		Arrows:     []json.RawMessage{},
		Scribbles:  []json.RawMessage{},
		Text:       []json.RawMessage{},
	}
}
