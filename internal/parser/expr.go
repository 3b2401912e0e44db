package parser

import (
	"fmt"
	"strconv"

	"github.com/kristofer/horse/internal/ast"
	"github.com/kristofer/horse/internal/lexer"
)

const lowestPrec = 0

// precedence levels, lowest to highest.
const (
	precOr = iota + 1
	precXor
	precAnd
	precNot
	precCompare
	precShift
	precAdd
	precMul
	precUnary
	precCall
)

func binOpPrecedence(tt lexer.TokenType) (int, ast.Operator, bool) {
	switch tt {
	case lexer.TokenOr:
		return precOr, ast.OpOr, true
	case lexer.TokenXor:
		return precXor, ast.OpXor, true
	case lexer.TokenAnd:
		return precAnd, ast.OpAnd, true
	case lexer.TokenEqEq:
		return precCompare, ast.OpEquals, true
	case lexer.TokenNotEq:
		return precCompare, ast.OpNotEquals, true
	case lexer.TokenLess:
		return precCompare, ast.OpLess, true
	case lexer.TokenLessEq:
		return precCompare, ast.OpLessEquals, true
	case lexer.TokenGreater:
		return precCompare, ast.OpGreater, true
	case lexer.TokenGreaterEq:
		return precCompare, ast.OpGreaterEquals, true
	case lexer.TokenShl:
		return precShift, ast.OpBitShiftLeft, true
	case lexer.TokenShr:
		return precShift, ast.OpBitShiftRight, true
	case lexer.TokenPlus:
		return precAdd, ast.OpPlus, true
	case lexer.TokenMinus:
		return precAdd, ast.OpMinus, true
	case lexer.TokenStar:
		return precMul, ast.OpMultiply, true
	case lexer.TokenSlash:
		return precMul, ast.OpDivide, true
	case lexer.TokenPercent:
		return precMul, ast.OpMod, true
	default:
		return 0, 0, false
	}
}

// parseExpression implements precedence-climbing: it parses a unary/primary
// expression then folds in binary operators whose precedence is at least
// minPrec, recursing for the right-hand side.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec, op, ok := binOpPrecedence(p.cur().Type)
		if !ok || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Type {
	case lexer.TokenMinus:
		p.advance()
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Op: ast.OpMinus, Operand: operand}, nil
	case lexer.TokenPlus:
		p.advance()
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Op: ast.OpPlus, Operand: operand}, nil
	case lexer.TokenNot:
		p.advance()
		operand, err := p.parseExpression(precNot)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Op: ast.OpNot, Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by any chain of
// `.name`, `[index]`, `(args)` suffixes.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.TokenDot:
			p.advance()
			name, err := p.expect(lexer.TokenIdentifier)
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberAccess{Expr: expr, Name: name.Literal}
		case lexer.TokenLBracket:
			p.advance()
			idx, err := p.parseExpression(lowestPrec)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexAccess{Expr: expr, Index: idx}
		case lexer.TokenLParen:
			p.advance()
			var args []ast.Expression
			for !p.at(lexer.TokenRParen) {
				arg, err := p.parseExpression(lowestPrec)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.at(lexer.TokenComma) {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(lexer.TokenRParen); err != nil {
				return nil, err
			}
			expr = &ast.FunctionCall{Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenInteger:
		p.advance()
		return &ast.IntegerValue{Text: tok.Literal}, nil
	case lexer.TokenFloat:
		p.advance()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: invalid float literal %q at line %d", tok.Literal, tok.Line)
		}
		return &ast.FloatValue{Value: f}, nil
	case lexer.TokenString:
		p.advance()
		return &ast.StringValue{Value: tok.Literal}, nil
	case lexer.TokenTrue:
		p.advance()
		return &ast.BooleanValue{Value: true}, nil
	case lexer.TokenFalse:
		p.advance()
		return &ast.BooleanValue{Value: false}, nil
	case lexer.TokenNone:
		p.advance()
		return &ast.NoneValue{}, nil
	case lexer.TokenIdentifier:
		p.advance()
		return &ast.Variable{Name: tok.Literal}, nil
	case lexer.TokenLBracket:
		p.advance()
		var elems []ast.Expression
		for !p.at(lexer.TokenRBracket) {
			e, err := p.parseExpression(lowestPrec)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.at(lexer.TokenComma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.TokenRBracket); err != nil {
			return nil, err
		}
		return &ast.Array{Elements: elems}, nil
	case lexer.TokenLParen:
		p.advance()
		inner, err := p.parseExpression(lowestPrec)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		// Parenthesized nodes never survive the parser (spec §4.1.1): the
		// wrapped expression is returned directly, exactly as if there had
		// been no parentheses at all.
		return inner, nil
	default:
		return nil, fmt.Errorf("parser: unexpected token %s (%q) at line %d", tok.Type, tok.Literal, tok.Line)
	}
}
