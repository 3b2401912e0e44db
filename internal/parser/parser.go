// Package parser implements a recursive-descent / Pratt parser that turns
// a horse token stream into the AST vocabulary of spec §6.
//
// A Parser{tokens, pos} struct advances over a pre-scanned token
// slice, precedence-climbing for binary operators with peek/expect
// helpers. The statement-level grammar (if/elif/else, while, for, def,
// class, INDENT/DEDENT blocks) is built directly from spec §6's AST
// contract and the indentation tokens internal/lexer produces.
package parser

import (
	"fmt"

	"github.com/kristofer/horse/internal/ast"
	"github.com/kristofer/horse/internal/lexer"
)

type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New constructs a Parser over a fully tokenized input.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource lexes and parses src in one step.
func ParseSource(src string) (*ast.Program, error) {
	l := lexer.New(src)
	toks, err := l.Tokenize()
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.at(tt) {
		return lexer.Token{}, fmt.Errorf("parser: expected %s but got %s (%q) at line %d", tt, p.cur().Type, p.cur().Literal, p.cur().Line)
	}
	return p.advance(), nil
}

// skipNewlines consumes any run of blank NEWLINE tokens (blank lines).
func (p *Parser) skipNewlines() {
	for p.at(lexer.TokenNewline) {
		p.advance()
	}
}

// ParseProgram parses a full source unit into the top-level Program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.at(lexer.TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		p.skipNewlines()
	}
	return prog, nil
}

// parseBlock parses an indented statement block introduced by `:` and a
// NEWLINE, i.e. `: NEWLINE INDENT stmt+ DEDENT`.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	if p.at(lexer.TokenNewline) {
		p.advance()
		p.skipNewlines()
		if _, err := p.expect(lexer.TokenIndent); err != nil {
			return nil, err
		}
		var stmts []ast.Statement
		for !p.at(lexer.TokenDedent) && !p.at(lexer.TokenEOF) {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			p.skipNewlines()
		}
		if _, err := p.expect(lexer.TokenDedent); err != nil {
			return nil, err
		}
		return stmts, nil
	}
	// Single-line body: `if x: return 1`
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return []ast.Statement{stmt}, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenDef:
		return p.parseDef()
	case lexer.TokenClass:
		return p.parseClass()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenRaise:
		return p.parseRaise()
	case lexer.TokenBreak:
		p.advance()
		return &ast.Break{}, nil
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseIf() (ast.Statement, error) {
	p.advance() // if
	cond, err := p.parseExpression(lowestPrec)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Expression: cond, Body: body}
	for p.at(lexer.TokenElif) {
		p.advance()
		econd, err := p.parseExpression(lowestPrec)
		if err != nil {
			return nil, err
		}
		ebody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, ast.ElifBranch{Expression: econd, Body: ebody})
	}
	if p.at(lexer.TokenElse) {
		p.advance()
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.FinalElse = elseBody
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	p.advance()
	cond, err := p.parseExpression(lowestPrec)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Expression: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIn); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression(lowestPrec)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{ItemName: name.Literal, ListExpression: iter, Body: body}, nil
}

func (p *Parser) parseDef() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	var params []ast.FunctionParameter
	for !p.at(lexer.TokenRParen) {
		pname, err := p.expect(lexer.TokenIdentifier)
		if err != nil {
			return nil, err
		}
		param := ast.FunctionParameter{Name: pname.Literal}
		if p.at(lexer.TokenAssign) {
			p.advance()
			def, err := p.parseExpression(lowestPrec)
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.at(lexer.TokenComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.DeclareFunction{FunctionName: name.Literal, Parameters: params, Body: body}, nil
}

func (p *Parser) parseClass() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ClassDeclaration{ClassName: name.Literal, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	p.advance()
	if p.at(lexer.TokenNewline) || p.at(lexer.TokenEOF) || p.at(lexer.TokenDedent) {
		return &ast.Return{}, nil
	}
	expr, err := p.parseExpression(lowestPrec)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Expression: expr}, nil
}

func (p *Parser) parseRaise() (ast.Statement, error) {
	p.advance()
	expr, err := p.parseExpression(lowestPrec)
	if err != nil {
		return nil, err
	}
	return &ast.Raise{Expression: expr}, nil
}

func (p *Parser) parseExprStatement() (ast.Statement, error) {
	expr, err := p.parseExpression(lowestPrec)
	if err != nil {
		return nil, err
	}
	if p.at(lexer.TokenAssign) {
		path, ok := toAssignPath(expr)
		if !ok {
			return nil, fmt.Errorf("parser: invalid assignment target at line %d", p.cur().Line)
		}
		p.advance()
		value, err := p.parseExpression(lowestPrec)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Path: path, Expression: value}, nil
	}
	return &ast.StandaloneExpr{Expression: expr}, nil
}

// toAssignPath converts a chain of MemberAccess/Variable nodes into the
// dotted-path form spec §6's Assign node expects.
func toAssignPath(expr ast.Expression) ([]string, bool) {
	var rev []string
	for {
		switch e := expr.(type) {
		case *ast.Variable:
			rev = append(rev, e.Name)
			out := make([]string, len(rev))
			for i, s := range rev {
				out[len(rev)-1-i] = s
			}
			return out, true
		case *ast.MemberAccess:
			rev = append(rev, e.Name)
			expr = e.Expr
		default:
			return nil, false
		}
	}
}
