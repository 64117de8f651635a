package config

// Parse parses config source into a best-effort AST. Recoverable errors are
// recorded and parsing resumes at the next line or matching brace; an
// EOF-fatal error stops parsing and the blocks read so far are returned.
func Parse(src string) (*Ast, []Error) {
	p := &parser{src: src, lex: newLexer(src)}
	p.advance()
	blocks := p.parseBlocks(false)
	return &Ast{Source: src, Blocks: blocks}, p.errs
}

type parser struct {
	src   string
	lex   *lexer
	tok   Token
	errs  []Error
	fatal bool
}

func (p *parser) advance() {
	if p.fatal {
		p.tok = Token{Kind: TokenEOF, Span: Span{len(p.src), len(p.src)}}
		return
	}
	tok, err := p.lex.next()
	if err != nil {
		p.errs = append(p.errs, *err)
		p.fatal = true
	}
	p.tok = tok
}

func (p *parser) errorf(kind ErrorKind, span Span, detail string) {
	err := newError(p.src, kind, span, detail)
	p.errs = append(p.errs, err)
	if !err.Recoverable() {
		p.fatal = true
	}
}

func (p *parser) unexpected(want string) {
	if p.fatal {
		return
	}
	if p.tok.Kind == TokenEOF {
		p.errorf(ErrUnexpectedEOF, p.tok.Span, "expected "+want)
		return
	}
	p.errorf(ErrUnexpectedToken, p.tok.Span, "expected "+want+", found "+p.tok.Kind.String())
}

// recover discards tokens up to and including the next newline at the
// current nesting level, or up to (not including) the brace closing the
// enclosing block.
func (p *parser) recover() {
	depth := 0
	for !p.fatal {
		switch p.tok.Kind {
		case TokenEOF:
			return
		case TokenNewline:
			if depth == 0 {
				p.advance()
				return
			}
		case TokenOpenBrace:
			depth++
		case TokenCloseBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// parseBlocks reads blocks until EOF or, when nested, until the closing
// brace, which is left for the caller.
func (p *parser) parseBlocks(nested bool) []Block {
	var blocks []Block
	for !p.fatal {
		switch p.tok.Kind {
		case TokenNewline:
			p.advance()
		case TokenEOF:
			if nested {
				p.unexpected("'}'")
			}
			return blocks
		case TokenCloseBrace:
			if nested {
				return blocks
			}
			p.errorf(ErrUnexpectedToken, p.tok.Span, "unbalanced '}'")
			p.advance()
		default:
			if b, ok := p.parseBlock(); ok {
				blocks = append(blocks, b)
			} else {
				p.recover()
			}
		}
	}
	return blocks
}

func (p *parser) parseBlock() (Block, bool) {
	start := p.tok.Span.Start
	var block Block

	if p.tok.isBare() && p.tok.Text == "override" {
		block.Override = true
		p.advance()
	}
	if !p.tok.isBare() {
		p.unexpected("block")
		return block, false
	}

	keyword := p.tok.Text
	switch keyword {
	case "file", "state", "mixin":
		p.advance()
		if !p.tok.isBare() {
			p.unexpected(keyword + " argument")
			return block, false
		}
		arg := p.tok.Text
		p.advance()
		children, ok := parseBraced(p, func() []Block { return p.parseBlocks(true) })
		if !ok {
			return block, false
		}
		switch keyword {
		case "file":
			block.Kind = &SelectorBlock{Pattern: arg, Children: children}
		case "state":
			block.Kind = &SelectorBlock{StateName: arg, Children: children}
		default:
			block.Kind = &MixinBlock{Name: arg, Children: children}
		}
	case "use":
		p.advance()
		if !p.tok.isBare() {
			p.unexpected("mixin name")
			return block, false
		}
		block.Kind = &UseBlock{Name: p.tok.Text}
		p.advance()
		if p.tok.Kind != TokenNewline && p.tok.Kind != TokenEOF && p.tok.Kind != TokenCloseBrace {
			p.unexpected("end of line")
			return block, false
		}
	default:
		p.advance()
		entries, ok := parseBraced(p, p.parseEntries)
		if !ok {
			return block, false
		}
		block.Kind = &MappingBlock{Name: keyword, Entries: entries}
	}

	block.Span = Span{start, p.tok.Span.Start}
	return block, true
}

// parseBraced parses `{ body }`. A block cut short by the end of input is
// still returned so the AST keeps what was read.
func parseBraced[T any](p *parser, body func() []T) ([]T, bool) {
	if p.tok.Kind != TokenOpenBrace {
		p.unexpected("'{'")
		return nil, false
	}
	p.advance()
	items := body()
	if p.tok.Kind != TokenCloseBrace {
		p.unexpected("'}'")
		return items, p.fatal
	}
	p.advance()
	return items, true
}

// parseEntries reads mapping entries until the closing brace.
func (p *parser) parseEntries() []MappingEntry {
	var entries []MappingEntry
	for !p.fatal {
		switch {
		case p.tok.Kind == TokenNewline:
			p.advance()
		case p.tok.Kind == TokenCloseBrace:
			return entries
		case p.tok.Kind == TokenEOF:
			p.unexpected("'}'")
			return entries
		case p.tok.isBare():
			if e, ok := p.parseEntry(); ok {
				entries = append(entries, e)
			}
		default:
			p.unexpected("entry name")
			p.recover()
		}
	}
	return entries
}

func (p *parser) parseEntry() (MappingEntry, bool) {
	entry := MappingEntry{Name: p.tok.Text, Span: p.tok.Span}
	p.advance()

	for !p.fatal && p.tok.Kind != TokenNewline && p.tok.Kind != TokenCloseBrace && p.tok.Kind != TokenEOF {
		v, ok := p.parseValue()
		if !ok {
			p.recover()
			return entry, false
		}
		entry.Values = append(entry.Values, v)
	}
	if p.fatal {
		return entry, false
	}
	if len(entry.Values) == 0 {
		p.errorf(ErrMissingValue, entry.Span, "")
		return entry, false
	}
	entry.Span.End = entry.Values[len(entry.Values)-1].Span.End
	return entry, true
}

// parseValue reads a list or a scalar made of adjacent pieces, so that
// what$" are "you is the single value "what are you".
func (p *parser) parseValue() (Value, bool) {
	if p.tok.Kind == TokenListOpen {
		return p.parseList()
	}
	if !p.tok.isValuePiece() {
		p.unexpected("value")
		return Value{}, false
	}
	text, span := p.parseScalar()
	return Value{Text: text, Span: span}, true
}

func (p *parser) parseScalar() (string, Span) {
	span := p.tok.Span
	text := p.tok.Text
	p.advance()
	for p.tok.Adjacent && p.tok.isValuePiece() {
		text += p.tok.Text
		span.End = p.tok.Span.End
		p.advance()
	}
	return text, span
}

// parseListItem reads the pieces of one list item. Pieces separated by
// whitespace are joined with a single space.
func (p *parser) parseListItem() string {
	text, _ := p.parseScalar()
	for p.tok.isValuePiece() {
		next, _ := p.parseScalar()
		text += " " + next
	}
	return text
}

func (p *parser) parseList() (Value, bool) {
	v := Value{IsList: true, Items: []string{}, Span: p.tok.Span}
	p.advance()
	expectItem := true
	for !p.fatal {
		switch {
		case p.tok.Kind == TokenNewline:
			p.advance()
		case p.tok.Kind == TokenListClose:
			v.Span.End = p.tok.Span.End
			p.advance()
			return v, true
		case p.tok.Kind == TokenSemicolon:
			expectItem = true
			p.advance()
		case p.tok.Kind == TokenEOF:
			p.errorf(ErrUnterminatedList, Span{v.Span.Start, len(p.src)}, "")
			return v, false
		case expectItem && p.tok.isValuePiece():
			v.Items = append(v.Items, p.parseListItem())
			expectItem = false
		default:
			// The list is abandoned; `]` and `;` are plain text again.
			p.lex.listDepth = 0
			p.unexpected("';' or ']'")
			return v, false
		}
	}
	return v, false
}
