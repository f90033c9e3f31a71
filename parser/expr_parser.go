package parser

import "fmt"

// ExprParser is a precedence-climbing recursive-descent parser over a
// Tokenizer's stream, producing Expr AST nodes (spec §4.3). It knows
// nothing about statement grammar; its set of prefix/infix forms is
// fixed.
type ExprParser struct {
	tok *Tokenizer
}

func NewExprParser(tok *Tokenizer) *ExprParser {
	return &ExprParser{tok: tok}
}

// SyntaxError is raised for any malformed expression; the StatementCompiler
// wraps it into a types.Error with E_SYNTAX (spec §7).
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

const (
	precNone = iota
	precOr
	precAnd
	precNot
	precCompare
	precConcat
	precAdd
	precMul
	precUnary
	precPow
	precCall
)

var binaryPrec = map[TokenType]int{
	TOKEN_OR:    precOr,
	TOKEN_AND:   precAnd,
	TOKEN_EQ:    precCompare,
	TOKEN_NE:    precCompare,
	TOKEN_LT:    precCompare,
	TOKEN_GT:    precCompare,
	TOKEN_LE:    precCompare,
	TOKEN_GE:    precCompare,
	TOKEN_AMP:   precConcat,
	TOKEN_HASH:  precConcat,
	TOKEN_PLUS:  precAdd,
	TOKEN_MINUS: precAdd,
	TOKEN_STAR:  precMul,
	TOKEN_SLASH: precMul,
	TOKEN_BACKSLASH: precMul,
	TOKEN_MOD:   precMul,
	TOKEN_CARET: precPow,
}

var binaryOpText = map[TokenType]string{
	TOKEN_OR: "OR", TOKEN_AND: "AND",
	TOKEN_EQ: "=", TOKEN_NE: "<>", TOKEN_LT: "<", TOKEN_GT: ">", TOKEN_LE: "<=", TOKEN_GE: ">=",
	TOKEN_AMP: "&", TOKEN_HASH: "#",
	TOKEN_PLUS: "+", TOKEN_MINUS: "-", TOKEN_STAR: "*", TOKEN_SLASH: "/",
	TOKEN_BACKSLASH: `\`, TOKEN_MOD: "MOD", TOKEN_CARET: "^",
}

// ParseExpression parses a full expression, including the
// low-precedence OR/AND forms.
func (p *ExprParser) ParseExpression() Expr {
	return p.parseTernary()
}

// parseTernary parses at OR precedence. No inline-conditional syntax is
// recognized here, so the parser never builds a TernaryExpr.
func (p *ExprParser) parseTernary() Expr {
	cond := p.parseBinary(precOr)
	return cond
}

func (p *ExprParser) parseBinary(minPrec int) Expr {
	left := p.parseUnary()
	for {
		cur := p.tok.Current()
		prec, ok := binaryPrec[cur.Type]
		if !ok || prec < minPrec {
			return left
		}
		op := binaryOpText[cur.Type]
		pos := cur.Pos
		p.tok.Advance()
		nextMin := prec + 1
		if cur.Type == TOKEN_CARET {
			nextMin = prec // right-associative power
		}
		right := p.parseBinary(nextMin)
		left = &BinaryExpr{exprBase: exprBase{pos}, Op: op, X: left, Y: right}
	}
}

func (p *ExprParser) parseUnary() Expr {
	cur := p.tok.Current()
	switch cur.Type {
	case TOKEN_MINUS:
		p.tok.Advance()
		return &UnaryExpr{exprBase: exprBase{cur.Pos}, Op: "-", X: p.parseUnary()}
	case TOKEN_NOT:
		p.tok.Advance()
		return &UnaryExpr{exprBase: exprBase{cur.Pos}, Op: "NOT", X: p.parseUnary()}
	case TOKEN_PLUS:
		p.tok.Advance()
		return p.parseUnary()
	}
	return p.parsePostfix()
}

func (p *ExprParser) parsePostfix() Expr {
	x := p.parsePrimary()
	for {
		cur := p.tok.Current()
		switch cur.Type {
		case TOKEN_LPAREN:
			p.tok.Advance()
			args := p.parseArgList()
			x = &CallExpr{exprBase: exprBase{cur.Pos}, Callee: x, Args: args}
		case TOKEN_DOT:
			p.tok.Advance()
			field := p.tok.Advance()
			if field.Type != TOKEN_IDENT {
				panic(&SyntaxError{Pos: field.Pos, Msg: "expected field name after '.'"})
			}
			x = &FieldExpr{exprBase: exprBase{cur.Pos}, X: x, Field: field.Text}
		case TOKEN_HASH:
			// lookahead only matters inside argument lists; '#' as a
			// postfix here is concat and handled by parseBinary, so stop.
			return x
		default:
			return x
		}
	}
}

func (p *ExprParser) parseArgList() []Expr {
	var args []Expr
	if p.tok.Current().Type == TOKEN_RPAREN {
		p.tok.Advance()
		return args
	}
	for {
		args = append(args, p.ParseExpression())
		if p.tok.CheckAdvanceType(TOKEN_COMMA) {
			continue
		}
		break
	}
	if !p.tok.CheckAdvanceType(TOKEN_RPAREN) {
		panic(&SyntaxError{Pos: p.tok.Current().Pos, Msg: "expected ')'"})
	}
	return args
}

func (p *ExprParser) parsePrimary() Expr {
	cur := p.tok.Current()
	switch cur.Type {
	case TOKEN_INT:
		p.tok.Advance()
		return &IntLit{exprBase: exprBase{cur.Pos}, Val: cur.IntVal}
	case TOKEN_FLOAT:
		p.tok.Advance()
		return &FloatLit{exprBase: exprBase{cur.Pos}, Val: cur.FloatVal}
	case TOKEN_STRING:
		p.tok.Advance()
		return &StringLit{exprBase: exprBase{cur.Pos}, Val: cur.StrVal}
	case TOKEN_BOOL:
		p.tok.Advance()
		return &BoolLit{exprBase: exprBase{cur.Pos}, Val: cur.IntVal != 0}
	case TOKEN_LPAREN:
		p.tok.Advance()
		inner := p.ParseExpression()
		if !p.tok.CheckAdvanceType(TOKEN_RPAREN) {
			panic(&SyntaxError{Pos: p.tok.Current().Pos, Msg: "expected ')'"})
		}
		return inner
	case TOKEN_LT:
		// list literal: < a, b, c >, reusing '<'/'>' since the grammar
		// has no separate bracket pair. Items are parsed above comparison
		// precedence so the closing '>' is not read as an operator; an
		// item using a comparison, AND or OR needs parentheses.
		p.tok.Advance()
		var items []Expr
		if p.tok.Current().Type != TOKEN_GT {
			for {
				items = append(items, p.parseBinary(precConcat))
				if p.tok.CheckAdvanceType(TOKEN_COMMA) {
					continue
				}
				break
			}
		}
		if !p.tok.CheckAdvanceType(TOKEN_GT) {
			panic(&SyntaxError{Pos: p.tok.Current().Pos, Msg: "expected '>' to close list literal"})
		}
		return &ListExpr{exprBase: exprBase{cur.Pos}, Items: items}
	case TOKEN_IDENT:
		if p.tok.PeekIsKeyword("TRY") {
			return p.parseCatchExpr()
		}
		p.tok.Advance()
		return &Ident{exprBase: exprBase{cur.Pos}, Name: cur.Text}
	}
	panic(&SyntaxError{Pos: cur.Pos, Msg: "unexpected token " + cur.Type.String()})
}

// parseCatchExpr parses the inline `Try <expr> Else <expr>` catch form
// (spec §4.3's catch-expression), distinct from the Try statement.
func (p *ExprParser) parseCatchExpr() Expr {
	pos := p.tok.Current().Pos
	p.tok.Advance() // TRY
	tryExpr := p.ParseExpression()
	if !p.tok.CheckAdvanceKeyword("ELSE") {
		panic(&SyntaxError{Pos: p.tok.Current().Pos, Msg: "expected Else in catch expression"})
	}
	elseExpr := p.ParseExpression()
	return &CatchExpr{exprBase: exprBase{pos}, Try: tryExpr, Default: elseExpr}
}

// ParseLValue parses an expression restricted to assignable forms
// (identifier, index, or field access), used on the left of ':='.
func (p *ExprParser) ParseLValue() Assignable {
	x := p.ParseExpression()
	a, ok := x.(Assignable)
	if !ok {
		panic(&SyntaxError{Pos: x.Pos(), Msg: "expression is not assignable"})
	}
	return a
}
