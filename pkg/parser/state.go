package parser

// State is the position of the table parser in the table structure.
type State int

const (
	Idle      State = iota // outside any table
	InTable                // after {|, reading the table style
	InCaption              // after |+, reading the caption
	InRow                  // after |-, reading the row style
	InCell                 // reading the raw text of a cell
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case InTable:
		return "InTable"
	case InCaption:
		return "InCaption"
	case InRow:
		return "InRow"
	case InCell:
		return "InCell"
	default:
		return "unknown"
	}
}
