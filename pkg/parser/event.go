package parser

import "fmt"

// EventType represents the different kinds of parser events.
type EventType string

const (
	TableStart        EventType = "table_start"
	TableStyle        EventType = "table_style"   // attribute text after {|
	TableCaptionStart EventType = "caption_start" // only when the table has |+
	TableCaption      EventType = "caption"
	RowStart          EventType = "row_start"
	RowStyle          EventType = "row_style" // attribute text after |-, empty for implied rows
	ColStart          EventType = "col_start"
	ColStyle          EventType = "col_style"
	ColEnd            EventType = "col_end" // cell content
	RowEnd            EventType = "row_end"
	TableEnd          EventType = "table_end"
)

var eventNames = map[EventType]string{
	TableStart:        "TableStart",
	TableStyle:        "TableStyle",
	TableCaptionStart: "TableCaptionStart",
	TableCaption:      "TableCaption",
	RowStart:          "RowStart",
	RowStyle:          "RowStyle",
	ColStart:          "ColStart",
	ColStyle:          "ColStyle",
	ColEnd:            "ColEnd",
	RowEnd:            "RowEnd",
	TableEnd:          "TableEnd",
}

// String returns the CamelCase name of the event type.
func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return string(t)
}

// HasText reports whether events of this type carry a text payload.
func (t EventType) HasText() bool {
	switch t {
	case TableStyle, TableCaption, RowStyle, ColStyle, ColEnd:
		return true
	}
	return false
}

// CellKind tells header cells from data cells.
type CellKind string

const (
	HeaderCell CellKind = "header"
	DataCell   CellKind = "data"
)

func (k CellKind) String() string {
	switch k {
	case HeaderCell:
		return "HeaderCell"
	case DataCell:
		return "DataCell"
	}
	return string(k)
}

// Event is one record of the parser output. Events are values and are never
// modified after the parser queues them.
type Event struct {
	Type EventType `json:"type" yaml:"type"`
	Text string    `json:"text,omitempty" yaml:"text,omitempty"`
	Cell CellKind  `json:"cell,omitempty" yaml:"cell,omitempty"`
}

// String renders the event as TableStart, RowStyle("x") or ColStart(HeaderCell).
func (e Event) String() string {
	switch {
	case e.Type == ColStart:
		return fmt.Sprintf("%s(%s)", e.Type, e.Cell)
	case e.Type.HasText():
		return fmt.Sprintf("%s(%q)", e.Type, e.Text)
	}
	return e.Type.String()
}

func simpleEvent(t EventType) Event {
	return Event{Type: t}
}

func textEvent(t EventType, text string) Event {
	return Event{Type: t, Text: text}
}

func colStartEvent(kind CellKind) Event {
	return Event{Type: ColStart, Cell: kind}
}
