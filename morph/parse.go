// Package morph parses vector outlines and blends one outline into another.
//
// The pipeline is Parse → Normalize → Balance → Lerp. Blend runs all of it
// for two outline strings.
package morph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrSyntax is returned for outlines that cannot be parsed.
var ErrSyntax = errors.New("morph: invalid outline")

var (
	outlineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Command", Pattern: `[MmLlHhVvCcSsQqTtAaZz]`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Separator", Pattern: `[\s,]+`},
	})

	commandTokenType   = outlineLexer.Symbols()["Command"]
	separatorTokenType = outlineLexer.Symbols()["Separator"]
)

// Command is a drawing command in absolute coordinates. Op is one of
// M L H V C S Q T A Z.
type Command struct {
	Op   byte
	Args []float64
}

// arity is the number of arguments per coordinate group.
var arity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'S': 4, 'Q': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

type token struct {
	command bool
	text    string
	pos     lexer.Position
}

func tokenize(outline string) ([]token, error) {
	lex, err := outlineLexer.LexString("", outline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	tokens := make([]token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() || t.Type == separatorTokenType {
			continue
		}
		tokens = append(tokens, token{command: t.Type == commandTokenType, text: t.Value, pos: t.Pos})
	}
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peekNumber() bool {
	return p.pos < len(p.tokens) && !p.tokens[p.pos].command
}

func (p *parser) number() (float64, error) {
	if !p.peekNumber() {
		return 0, p.errorf("expected number")
	}
	t := p.tokens[p.pos]
	p.pos++
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrSyntax, t.pos, err)
	}
	return v, nil
}

// flag reads an arc flag. Flags may be written without separators
// ("a1 1 0 01 5 5"), so a multi-digit number token is split after its
// first character and the remainder is left for the next read.
func (p *parser) flag() (float64, error) {
	if !p.peekNumber() {
		return 0, p.errorf("expected arc flag")
	}
	t := &p.tokens[p.pos]
	switch t.text[0] {
	case '0', '1':
	default:
		return 0, p.errorf("invalid arc flag %q", t.text)
	}
	v := float64(t.text[0] - '0')
	if len(t.text) == 1 {
		p.pos++
		return v, nil
	}
	t.text = t.text[1:]
	t.pos.Column++
	t.pos.Offset++
	return v, nil
}

func (p *parser) errorf(format string, args ...any) error {
	where := "end of outline"
	if p.pos < len(p.tokens) {
		where = p.tokens[p.pos].pos.String()
	}
	return fmt.Errorf("%w: %s: %s", ErrSyntax, where, fmt.Sprintf(format, args...))
}

// Parse converts an outline into absolute drawing commands. Relative
// commands are resolved against the running cursor and implicit repeated
// coordinate groups become explicit commands; bare pairs after a move are
// line commands.
func Parse(outline string) ([]Command, error) {
	tokens, err := tokenize(outline)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty outline", ErrSyntax)
	}

	p := &parser{tokens: tokens}
	var (
		cmds       []Command
		curX, curY float64
		subX, subY float64
	)

	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		if !t.command {
			return nil, p.errorf("unexpected number %q", t.text)
		}
		p.pos++

		letter := t.text[0]
		op := strings.ToUpper(t.text)[0]
		relative := letter != op
		if len(cmds) == 0 && op != 'M' {
			return nil, fmt.Errorf("%w: %s: outline must start with a move", ErrSyntax, t.pos)
		}

		if op == 'Z' {
			cmds = append(cmds, Command{Op: 'Z'})
			curX, curY = subX, subY
			continue
		}

		first := true
		for first || p.peekNumber() {
			args := make([]float64, arity[op])
			for i := range args {
				var v float64
				if op == 'A' && (i == 3 || i == 4) {
					v, err = p.flag()
				} else {
					v, err = p.number()
				}
				if err != nil {
					return nil, err
				}
				args[i] = v
			}

			groupOp := op
			if op == 'M' && !first {
				groupOp = 'L'
			}

			if relative {
				switch groupOp {
				case 'H':
					args[0] += curX
				case 'V':
					args[0] += curY
				case 'A':
					args[5] += curX
					args[6] += curY
				default:
					for i := 0; i < len(args); i += 2 {
						args[i] += curX
						args[i+1] += curY
					}
				}
			}

			switch groupOp {
			case 'H':
				curX = args[0]
			case 'V':
				curY = args[0]
			default:
				curX, curY = args[len(args)-2], args[len(args)-1]
			}
			if groupOp == 'M' {
				subX, subY = curX, curY
			}

			cmds = append(cmds, Command{Op: groupOp, Args: args})
			first = false
		}
	}
	return cmds, nil
}
