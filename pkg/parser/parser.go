package parser

import (
	"iter"
	"strings"

	"github.com/spicery/wikitext-table/pkg/tokenizer"
)

// Parser turns wiki table markup into a queue of events. It reads the whole
// input up front and is drained once; parse the text again with a new Parser.
type Parser struct {
	state    State
	tokens   []tokenizer.Token
	pos      int
	queue    []Event
	buffer   strings.Builder
	cell     CellKind // kind of the cell being read in InCell
	splitter *CellSplitter

	cleanCellText bool
	noWiki        bool
	inNoWiki      bool
	noWikiAt      int // buffer offset of the first nowiki region of the cell, -1 if none
	lastNoWikiEnd int // index of the last </nowiki> token, -1 if none
	tablesClosed  int
}

// Option configures a Parser.
type Option func(*Parser)

// WithCleanCellText controls whether segment text is trimmed and cells are
// split into ColStyle and ColEnd. When disabled the raw text is emitted and a
// cell produces only ColEnd. Enabled by default.
func WithCleanCellText(clean bool) Option {
	return func(p *Parser) {
		p.cleanCellText = clean
	}
}

// WithNoWiki controls whether markers between <nowiki> and </nowiki> are read
// as plain text. Enabled by default.
func WithNoWiki(enabled bool) Option {
	return func(p *Parser) {
		p.noWiki = enabled
	}
}

// New creates a parser for text. table must recognise the structural markers
// and cell the cell-content markers.
func New(table, cell *tokenizer.Tokenizer, text string, opts ...Option) *Parser {
	p := &Parser{
		state:         Idle,
		splitter:      NewCellSplitter(cell),
		cleanCellText: true,
		noWiki:        true,
		noWikiAt:      -1,
		lastNoWikiEnd: -1,
	}
	for _, opt := range opts {
		opt(p)
	}

	// add `\n` at start to match `\n{|` even when the table opens the text
	p.tokens = table.Tokenize("\n" + text)
	for i, tok := range p.tokens {
		if tok.Kind == tokenizer.NoWikiEnd {
			p.lastNoWikiEnd = i
		}
	}
	return p
}

// NewDefault creates a parser using the default vocabularies.
func NewDefault(text string, opts ...Option) *Parser {
	return New(tokenizer.NewStructural(), tokenizer.NewCell(), text, opts...)
}

// Parse returns every event of text using the default vocabularies.
func Parse(text string, opts ...Option) []Event {
	return NewDefault(text, opts...).Drain()
}

// Next returns the next event, or false once the input is exhausted.
func (p *Parser) Next() (Event, bool) {
	for len(p.queue) == 0 && p.pos < len(p.tokens) {
		p.step()
	}
	if len(p.queue) == 0 {
		return Event{}, false
	}
	event := p.queue[0]
	p.queue = p.queue[1:]
	return event, true
}

// All returns an iterator over the remaining events.
func (p *Parser) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			event, ok := p.Next()
			if !ok || !yield(event) {
				return
			}
		}
	}
}

// Drain returns all remaining events.
func (p *Parser) Drain() []Event {
	var events []Event
	for event := range p.All() {
		events = append(events, event)
	}
	return events
}

// State returns the current state of the machine.
func (p *Parser) State() State {
	return p.state
}

// TablesClosed returns how many TableEnd events have been queued so far.
func (p *Parser) TablesClosed() int {
	return p.tablesClosed
}

// TokenCount returns the number of structural tokens of the input.
func (p *Parser) TokenCount() int {
	return len(p.tokens)
}

func (p *Parser) emit(events ...Event) {
	for _, e := range events {
		if e.Type == TableEnd {
			p.tablesClosed++
		}
	}
	p.queue = append(p.queue, events...)
}

// segment returns and clears the text buffer.
func (p *Parser) segment() string {
	text := p.buffer.String()
	p.buffer.Reset()
	if p.cleanCellText {
		return strings.TrimSpace(text)
	}
	return text
}

// finishCell emits the style and content of the cell in the buffer.
func (p *Parser) finishCell() {
	raw := p.buffer.String()
	limit := len(raw)
	if p.noWikiAt >= 0 {
		limit = p.noWikiAt
	}
	p.buffer.Reset()
	p.noWikiAt = -1
	if !p.cleanCellText {
		p.emit(textEvent(ColEnd, raw))
		return
	}
	// a style separator never comes after nowiki text
	style, content := p.splitter.splitBefore(raw, limit)
	p.emit(textEvent(ColStyle, style), textEvent(ColEnd, content))
}

func (p *Parser) startCell(kind CellKind) {
	p.cell = kind
	p.emit(colStartEvent(kind))
	p.state = InCell
}

// startImpliedRow opens a row for a cell that was not preceded by |-.
func (p *Parser) startImpliedRow(kind CellKind) {
	p.emit(simpleEvent(RowStart), textEvent(RowStyle, ""))
	p.startCell(kind)
}

func (p *Parser) appendText(tok tokenizer.Token) {
	p.buffer.WriteString(tok.Text)
}

// step consumes one token.
func (p *Parser) step() {
	tok := p.tokens[p.pos]
	p.pos++

	if p.noWiki && p.stepNoWiki(tok) {
		return
	}

	switch p.state {
	case Idle:
		if tok.Kind == tokenizer.TableStart {
			p.buffer.Reset()
			p.emit(simpleEvent(TableStart))
			p.state = InTable
		}

	case InTable:
		switch tok.Kind {
		case tokenizer.TableCaption:
			p.emit(textEvent(TableStyle, p.segment()), simpleEvent(TableCaptionStart))
			p.state = InCaption
		case tokenizer.TableRow:
			p.emit(textEvent(TableStyle, p.segment()), simpleEvent(RowStart))
			p.state = InRow
		case tokenizer.DataCell:
			p.emit(textEvent(TableStyle, p.segment()))
			p.startImpliedRow(DataCell)
		case tokenizer.HeaderCell:
			p.emit(textEvent(TableStyle, p.segment()))
			p.startImpliedRow(HeaderCell)
		case tokenizer.TableEnd:
			p.buffer.Reset()
			p.emit(simpleEvent(TableEnd))
			p.state = Idle
		default:
			p.appendText(tok)
		}

	case InCaption:
		switch tok.Kind {
		case tokenizer.TableRow:
			p.emit(textEvent(TableCaption, p.segment()), simpleEvent(RowStart))
			p.state = InRow
		case tokenizer.HeaderCell:
			// a caption may be followed directly by header cells without |-
			p.emit(textEvent(TableCaption, p.segment()))
			p.startImpliedRow(HeaderCell)
		case tokenizer.DataCell:
			p.emit(textEvent(TableCaption, p.segment()))
			p.startImpliedRow(DataCell)
		case tokenizer.TableEnd:
			p.emit(textEvent(TableCaption, p.segment()), simpleEvent(TableEnd))
			p.state = Idle
		default:
			p.appendText(tok)
		}

	case InRow:
		switch tok.Kind {
		case tokenizer.DataCell, tokenizer.DataCellInline:
			p.emit(textEvent(RowStyle, p.segment()))
			p.startCell(DataCell)
		case tokenizer.HeaderCell, tokenizer.HeaderCellInline:
			p.emit(textEvent(RowStyle, p.segment()))
			p.startCell(HeaderCell)
		case tokenizer.TableRow:
			// empty row
			p.emit(textEvent(RowStyle, p.segment()), simpleEvent(RowEnd), simpleEvent(RowStart))
		case tokenizer.TableEnd:
			p.buffer.Reset()
			p.emit(simpleEvent(RowEnd), simpleEvent(TableEnd))
			p.state = Idle
		default:
			p.appendText(tok)
		}

	case InCell:
		switch tok.Kind {
		case tokenizer.DataCell:
			p.finishCell()
			p.startCell(DataCell)
		case tokenizer.HeaderCell:
			p.finishCell()
			p.startCell(HeaderCell)
		case tokenizer.DataCellInline:
			// || continues the row with a cell of the same kind
			p.finishCell()
			p.startCell(p.cell)
		case tokenizer.HeaderCellInline:
			// !! only separates header cells; in a data cell it is text
			if p.cell != HeaderCell {
				p.appendText(tok)
				return
			}
			p.finishCell()
			p.startCell(HeaderCell)
		case tokenizer.TableRow:
			p.finishCell()
			p.emit(simpleEvent(RowEnd), simpleEvent(RowStart))
			p.state = InRow
		case tokenizer.TableEnd:
			p.finishCell()
			p.emit(simpleEvent(RowEnd), simpleEvent(TableEnd))
			p.state = Idle
		default:
			p.appendText(tok)
		}
	}
}

// stepNoWiki handles <nowiki> regions and reports whether tok was consumed.
// Inside a region every token is text; the region markers are dropped. A
// <nowiki> with no </nowiki> after it is not consumed and reads as text.
func (p *Parser) stepNoWiki(tok tokenizer.Token) bool {
	if p.inNoWiki {
		if tok.Kind == tokenizer.NoWikiEnd {
			p.inNoWiki = false
		} else if p.state != Idle {
			p.appendText(tok)
		}
		return true
	}
	// p.pos is already past tok
	if tok.Kind == tokenizer.NoWikiStart && p.pos-1 < p.lastNoWikiEnd {
		p.inNoWiki = true
		if p.state == InCell && p.noWikiAt < 0 {
			p.noWikiAt = p.buffer.Len()
		}
		return true
	}
	return false
}
