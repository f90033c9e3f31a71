package parser

import "strings"

// specialWords is the default special-command vocabulary a host world
// registers (spec §4.2); StmtParser only needs the names to know these
// identifiers start a SpecialStmt rather than an expression statement.
// A host may add more at runtime via RegisterSpecialWord.
var specialWords = map[string]bool{
	"OPEN": true, "GET": true, "PUT": true, "INPUT": true, "SEEK": true,
	"SETBYTE": true, "SETWORD": true, "SETLONG": true, "SETSTR": true,
	"CREATEKEYMAP": true, "USEKEYMAP": true,
	"CREATESHIPPROPERTY": true, "CREATEPLANETPROPERTY": true,
	"BIND": true, "ON": true, "RUNHOOK": true,
	"LOAD": true, "TRYLOAD": true, "OPTION": true, "REDIM": true,
	"EVAL": true, "STOP": true, "ABORT": true, "END": true,
}

// RegisterSpecialWord lets a host add a special-command keyword beyond
// the built-in set, per spec §4.2's extension hook.
func RegisterSpecialWord(name string) { specialWords[strings.ToUpper(name)] = true }

// StmtParser drives a Tokenizer across statement grammar, building Stmt
// and Expr AST nodes (spec §4.1/§4.2). It owns no CodeEmitter state —
// code emission happens later, when the resulting Stmt tree's Compile
// method runs against a vm.BytecodeObject.
type StmtParser struct {
	tok  *Tokenizer
	expr *ExprParser
}

func NewStmtParser(tok *Tokenizer) *StmtParser {
	return &StmtParser{tok: tok, expr: NewExprParser(tok)}
}

func (p *StmtParser) expectKeyword(kw string) {
	if !p.tok.CheckAdvanceKeyword(kw) {
		panic(&SyntaxError{Pos: p.tok.Current().Pos, Msg: "expected " + kw})
	}
}

func (p *StmtParser) expectIdent() string {
	cur := p.tok.Current()
	if cur.Type != TOKEN_IDENT {
		panic(&SyntaxError{Pos: cur.Pos, Msg: "expected identifier"})
	}
	p.tok.Advance()
	return cur.Text
}

func (p *StmtParser) atEOL() bool { return p.tok.Current().Type == TOKEN_EOL }

// ParseBlock parses statements until one of the given terminator
// keywords is the current token (left unconsumed so the caller can
// advance past it and know which terminator matched).
func (p *StmtParser) ParseBlock(terminators ...string) *Block {
	pos := p.tok.Current().Pos
	b := &Block{stmtBase: stmtBase{pos}}
	for {
		p.skipBlankLines()
		if p.tok.Current().Type == TOKEN_EOL && p.tok.src == nil {
			break
		}
		matched := false
		for _, kw := range terminators {
			if p.tok.PeekIsKeyword(kw) {
				matched = true
				break
			}
		}
		if matched {
			break
		}
		if p.tok.Current().Type == TOKEN_IDENT {
			b.Stmts = append(b.Stmts, p.ParseStatement())
			continue
		}
		break
	}
	return b
}

func (p *StmtParser) skipBlankLines() {
	for p.tok.Current().Type == TOKEN_EOL {
		if !p.tok.nextLine() {
			return
		}
		p.tok.have = false
	}
}

// ParseStatement parses exactly one statement (spec §4.2's full list).
func (p *StmtParser) ParseStatement() Stmt {
	pos := p.tok.Current().Pos
	cur := p.tok.Current()

	if cur.Type == TOKEN_IDENT {
		upper := strings.ToUpper(cur.Text)
		switch upper {
		case "DIM":
			return p.parseDim(pos)
		case "IF":
			return p.parseIf(pos)
		case "WHILE":
			return p.parseWhile(pos, false)
		case "UNTIL":
			return p.parseWhile(pos, true)
		case "DO":
			return p.parseDoLoop(pos)
		case "FOR":
			return p.parseFor(pos)
		case "FOREACH":
			return p.parseForEach(pos)
		case "BREAK":
			p.tok.Advance()
			return &BreakStmt{stmtBase: stmtBase{pos}, Label: p.optionalLabel(pos.Line)}
		case "CONTINUE":
			p.tok.Advance()
			return &ContinueStmt{stmtBase: stmtBase{pos}, Label: p.optionalLabel(pos.Line)}
		case "RETURN":
			p.tok.Advance()
			if p.atEOL() || p.tok.Current().Pos.Line != pos.Line {
				return &ReturnStmt{stmtBase: stmtBase{pos}}
			}
			return &ReturnStmt{stmtBase: stmtBase{pos}, Value: p.expr.ParseExpression()}
		case "TRY":
			return p.parseTry(pos)
		case "SELECT":
			return p.parseSelect(pos)
		case "WITH":
			return p.parseWith(pos)
		case "PRINT":
			return p.parsePrint(pos)
		case "CALL":
			p.tok.Advance()
			return &CallStmt{stmtBase: stmtBase{pos}, Call: p.expr.ParseExpression()}
		case "SUB", "FUNCTION":
			return p.parseProc(pos, upper == "FUNCTION")
		case "STRUCT":
			return p.parseStruct(pos)
		}
		if specialWords[upper] {
			return p.parseSpecial(pos, upper)
		}
	}

	// Fall through: an expression statement, possibly `lvalue = rhs`
	// sugar for `lvalue := rhs` (spec Open Question (iii)). The expression
	// parser reads that `=` as a comparison, so a top-level comparison
	// whose left side is assignable is rewritten into an assignment here.
	x := p.expr.ParseExpression()
	if be, ok := x.(*BinaryExpr); ok && be.Op == "=" {
		if lv, ok := be.X.(Assignable); ok {
			return &ExprStmt{stmtBase: stmtBase{pos}, X: &assignWrapper{exprBase{pos}, lv, be.Y}}
		}
	}
	if p.tok.Current().Type == TOKEN_EQ {
		p.tok.Advance()
		lv, ok := x.(Assignable)
		if !ok {
			panic(&SyntaxError{Pos: pos, Msg: "left side of '=' is not assignable"})
		}
		rhs := p.expr.ParseExpression()
		return &ExprStmt{stmtBase: stmtBase{pos}, X: &assignWrapper{exprBase{pos}, lv, rhs}}
	}
	if p.tok.Current().Type == TOKEN_ASSIGN {
		p.tok.Advance()
		lv, ok := x.(Assignable)
		if !ok {
			panic(&SyntaxError{Pos: pos, Msg: "left side of ':=' is not assignable"})
		}
		rhs := p.expr.ParseExpression()
		return &ExprStmt{stmtBase: stmtBase{pos}, X: &assignWrapper{exprBase{pos}, lv, rhs}}
	}
	return &ExprStmt{stmtBase: stmtBase{pos}, X: x}
}

// assignWrapper adapts Assignable.CompileStore into a plain Expr so an
// assignment can sit inside an ExprStmt like any other expression.
type assignWrapper struct {
	exprBase
	LV  Assignable
	RHS Expr
}

func (a *assignWrapper) CompileValue(e Emitter)  { a.LV.CompileStore(e, a.RHS) }
func (a *assignWrapper) CompileEffect(e Emitter) { a.LV.CompileStore(e, a.RHS); e.Emit(OpPop, 0, 0, 0) }

func (p *StmtParser) optionalLabel(line int) string {
	if p.tok.Current().Type == TOKEN_IDENT && p.tok.Current().Pos.Line == line {
		return p.expectIdent()
	}
	return ""
}

func (p *StmtParser) parseDim(pos Position) Stmt {
	p.tok.Advance() // DIM
	s := &DimStmt{stmtBase: stmtBase{pos}}
	for {
		name := p.expectIdent()
		var init Expr
		if p.tok.CheckAdvanceType(TOKEN_ASSIGN) || p.tok.CheckAdvanceType(TOKEN_EQ) {
			init = p.expr.ParseExpression()
		}
		s.Decls = append(s.Decls, DimDecl{Name: name, Init: init})
		if p.tok.CheckAdvanceType(TOKEN_COMMA) {
			continue
		}
		break
	}
	return s
}

func (p *StmtParser) parseIf(pos Position) Stmt {
	p.tok.Advance() // IF
	s := &IfStmt{stmtBase: stmtBase{pos}}
	cond := p.expr.ParseExpression()
	p.expectKeyword("THEN")
	body := p.ParseBlock("ELSEIF", "ELSE", "ENDIF")
	s.Branches = append(s.Branches, IfBranch{Cond: cond, Body: body})
	for p.tok.CheckAdvanceKeyword("ELSEIF") {
		c := p.expr.ParseExpression()
		p.expectKeyword("THEN")
		b := p.ParseBlock("ELSEIF", "ELSE", "ENDIF")
		s.Branches = append(s.Branches, IfBranch{Cond: c, Body: b})
	}
	if p.tok.CheckAdvanceKeyword("ELSE") {
		b := p.ParseBlock("ENDIF")
		s.Branches = append(s.Branches, IfBranch{Cond: nil, Body: b})
	}
	p.expectKeyword("ENDIF")
	return s
}

func (p *StmtParser) parseWhile(pos Position, negate bool) Stmt {
	p.tok.Advance() // WHILE or UNTIL
	cond := p.expr.ParseExpression()
	body := p.ParseBlock("LOOP", "ENDWHILE")
	if !p.tok.CheckAdvanceKeyword("LOOP") {
		p.expectKeyword("ENDWHILE")
	}
	return &WhileStmt{stmtBase: stmtBase{pos}, Cond: cond, Negate: negate, Body: body}
}

// parseDoLoop parses `Do [While c | Until c] ... Loop [While c | Until
// c]` (spec §4.2/§8): the entry and exit conditions are independently
// optional, so "Do While False ... Loop" must run the body zero times
// rather than falling through to the tail-position Loop keyword.
func (p *StmtParser) parseDoLoop(pos Position) Stmt {
	p.tok.Advance() // DO
	s := &DoLoopStmt{stmtBase: stmtBase{pos}}
	if p.tok.CheckAdvanceKeyword("WHILE") {
		s.HeadCond = p.expr.ParseExpression()
	} else if p.tok.CheckAdvanceKeyword("UNTIL") {
		s.HeadCond = p.expr.ParseExpression()
		s.HeadNegate = true
	}
	s.Body = p.ParseBlock("LOOP")
	p.expectKeyword("LOOP")
	if p.tok.CheckAdvanceKeyword("WHILE") {
		s.TailCond = p.expr.ParseExpression()
	} else if p.tok.CheckAdvanceKeyword("UNTIL") {
		s.TailCond = p.expr.ParseExpression()
		s.TailNegate = true
	}
	return s
}

func (p *StmtParser) parseFor(pos Position) Stmt {
	p.tok.Advance() // FOR
	name := p.expectIdent()
	if !p.tok.CheckAdvanceType(TOKEN_ASSIGN) && !p.tok.CheckAdvanceType(TOKEN_EQ) {
		panic(&SyntaxError{Pos: p.tok.Current().Pos, Msg: "expected ':=' in For"})
	}
	from := p.expr.ParseExpression()
	p.expectKeyword("TO")
	to := p.expr.ParseExpression()
	var step Expr
	if p.tok.CheckAdvanceKeyword("STEP") {
		step = p.expr.ParseExpression()
	}
	body := p.ParseBlock("NEXT")
	p.expectKeyword("NEXT")
	return &ForStmt{stmtBase: stmtBase{pos}, Var: name, From: from, To: to, Step: step, Body: body}
}

// parseForEach parses `ForEach set [As var] [Do] ... Next` (spec §4.2,
// §8 scenario 3). Without `As`, Var is left "" so ForEachStmt.Compile
// pushes each element onto the context stack instead of binding a name.
func (p *StmtParser) parseForEach(pos Position) Stmt {
	p.tok.Advance() // FOREACH
	coll := p.expr.ParseExpression()
	var name string
	if p.tok.CheckAdvanceKeyword("AS") {
		name = p.expectIdent()
	}
	p.tok.CheckAdvanceKeyword("DO")
	body := p.ParseBlock("NEXT")
	p.expectKeyword("NEXT")
	return &ForEachStmt{stmtBase: stmtBase{pos}, Var: name, Coll: coll, Body: body}
}

func (p *StmtParser) parseTry(pos Position) Stmt {
	p.tok.Advance() // TRY
	body := p.ParseBlock("ELSE", "ENDTRY")
	var elseBody Stmt
	if p.tok.CheckAdvanceKeyword("ELSE") {
		elseBody = p.ParseBlock("ENDTRY")
	}
	p.expectKeyword("ENDTRY")
	return &TryStmt{stmtBase: stmtBase{pos}, Body: body, Else: elseBody}
}

func (p *StmtParser) parseSelect(pos Position) Stmt {
	p.tok.Advance() // SELECT
	subject := p.expr.ParseExpression()
	s := &SelectStmt{stmtBase: stmtBase{pos}, Subject: subject}
	for p.tok.CheckAdvanceKeyword("CASE") {
		op := ""
		if p.tok.CheckAdvanceKeyword("IS") {
			for _, cand := range []string{"<>", "<=", ">=", "=", "<", ">"} {
				_ = cand
			}
			switch p.tok.Current().Type {
			case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE:
				op = binaryOpText[p.tok.Current().Type]
				p.tok.Advance()
			}
		}
		val := p.expr.ParseExpression()
		body := p.ParseBlock("CASE", "ELSE", "ENDSELECT")
		s.Cases = append(s.Cases, SelectCase{Op: op, Value: val, Body: body})
	}
	if p.tok.CheckAdvanceKeyword("ELSE") {
		s.Else = p.ParseBlock("ENDSELECT")
	}
	p.expectKeyword("ENDSELECT")
	return s
}

func (p *StmtParser) parseWith(pos Position) Stmt {
	p.tok.Advance() // WITH
	target := p.expr.ParseExpression()
	body := p.ParseBlock("ENDWITH")
	p.expectKeyword("ENDWITH")
	return &WithStmt{stmtBase: stmtBase{pos}, Target: target, Body: body}
}

func (p *StmtParser) parsePrint(pos Position) Stmt {
	p.tok.Advance() // PRINT
	s := &PrintStmt{stmtBase: stmtBase{pos}}
	if p.atEOL() {
		return s
	}
	for {
		s.Args = append(s.Args, p.expr.ParseExpression())
		if p.tok.CheckAdvanceType(TOKEN_COMMA) || p.tok.CheckAdvanceType(TOKEN_SEMI) {
			continue
		}
		break
	}
	return s
}

func (p *StmtParser) parseProc(pos Position, isFunc bool) Stmt {
	p.tok.Advance() // SUB or FUNCTION
	name := p.expectIdent()
	var params []string
	if p.tok.CheckAdvanceType(TOKEN_LPAREN) {
		if p.tok.Current().Type != TOKEN_RPAREN {
			for {
				params = append(params, p.expectIdent())
				if p.tok.CheckAdvanceType(TOKEN_COMMA) {
					continue
				}
				break
			}
		}
		if !p.tok.CheckAdvanceType(TOKEN_RPAREN) {
			panic(&SyntaxError{Pos: p.tok.Current().Pos, Msg: "expected ')'"})
		}
	}
	endKw := "ENDSUB"
	if isFunc {
		endKw = "ENDFUNCTION"
	}
	body := p.ParseBlock(endKw)
	p.expectKeyword(endKw)
	return &ProcDecl{stmtBase: stmtBase{pos}, Name: name, Params: params, IsFunction: isFunc, Body: body}
}

// parseStruct parses `Struct name / field [:= init], ... / EndStruct`
// (spec §4.2), reusing Dim's initializer grammar for each field: fields
// may be comma-separated on one line, and each may carry a `:=`/`=`
// initializer just like a Dim declaration.
func (p *StmtParser) parseStruct(pos Position) Stmt {
	p.tok.Advance() // STRUCT
	name := p.expectIdent()
	s := &StructDecl{stmtBase: stmtBase{pos}, Name: name}
	for !p.tok.PeekIsKeyword("ENDSTRUCT") {
		p.skipBlankLines()
		if p.tok.PeekIsKeyword("ENDSTRUCT") {
			break
		}
		for {
			fieldName := p.expectIdent()
			var init Expr
			if p.tok.CheckAdvanceType(TOKEN_ASSIGN) || p.tok.CheckAdvanceType(TOKEN_EQ) {
				init = p.expr.ParseExpression()
			}
			s.Fields = append(s.Fields, StructField{Name: fieldName, Init: init})
			if p.tok.CheckAdvanceType(TOKEN_COMMA) {
				continue
			}
			break
		}
	}
	p.expectKeyword("ENDSTRUCT")
	return s
}

// parseSpecial parses a host-registered special command: the name
// followed by a comma-separated argument list to end of line. The
// compiler does not interpret the arguments; it only emits them and
// lets the runtime registry give them meaning (spec §4.2).
func (p *StmtParser) parseSpecial(pos Position, name string) Stmt {
	p.tok.Advance()
	s := &SpecialStmt{stmtBase: stmtBase{pos}, Name: name}
	if p.atEOL() || p.tok.Current().Pos.Line != pos.Line {
		return s
	}
	for {
		s.Args = append(s.Args, p.expr.ParseExpression())
		if p.tok.CheckAdvanceType(TOKEN_COMMA) {
			continue
		}
		break
	}
	return s
}
