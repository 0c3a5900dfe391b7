// internal/rules/ruleexpr.go
package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/solatis/valkeeper/internal/types"
)

/*
 * Textual rule expressions.
 *
 * One expression builds one field constraint:
 *
 *   <path> <type>[?|!] [<op> <operand> [<operand>]] [minlen=N] [maxlen=N] [pattern="RE2"]
 *
 * Examples:
 *   user.age numi ge 18
 *   user.email email!
 *   order.ships_at datetime? gt "2026-08-12T10:00Z"
 *   score numf btwn $limits.min $limits.max
 *   name str minlen=2 pattern="^[A-Z]"
 *
 * Operands are parsed against the variant: numbers for numu/numi/numf, raw
 * or double-quoted text for str/date/datetime. An unquoted operand starting
 * with '$' is a field-path reference. bool and email take no operation.
 */

type token struct {
	text   string
	quoted bool
}

// ParseRule parses a single rule expression.
func ParseRule(expr string) (string, Schema, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return "", nil, err
	}
	if len(toks) < 2 {
		return "", nil, fmt.Errorf("%w: %q needs a path and a type", types.ErrInvalidRule, expr)
	}
	path := toks[0].text
	if _, err := ParsePath(path); err != nil {
		return "", nil, fmt.Errorf("%w: path %q: %v", types.ErrInvalidRule, path, err)
	}

	typeName := toks[1].text
	presence := byte(0)
	if n := len(typeName); n > 0 && (typeName[n-1] == '?' || typeName[n-1] == '!') {
		presence = typeName[n-1]
		typeName = typeName[:n-1]
	}
	kind, ok := ParseSchemaKind(typeName)
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown type %q", types.ErrInvalidRule, typeName)
	}

	rest := toks[2:]
	var op Operation
	if len(rest) > 0 && !strings.Contains(rest[0].text, "=") {
		op, rest, err = parseOperation(kind, rest)
		if err != nil {
			return "", nil, err
		}
	}

	opts, err := parseOptions(kind, rest)
	if err != nil {
		return "", nil, err
	}

	schema := buildSchema(kind, op, opts)
	switch presence {
	case '?':
		schema = withRequired(schema, false)
	case '!':
		schema = withRequired(schema, true)
	}
	return path, schema, nil
}

// ParseRules parses each expression into one ObjectSchema. Later expressions
// for the same path replace earlier ones.
func ParseRules(exprs []string) (ObjectSchema, error) {
	schema := NewObjectSchema()
	for _, expr := range exprs {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		path, leaf, err := ParseRule(expr)
		if err != nil {
			return ObjectSchema{}, err
		}
		schema = schema.Field(path, leaf)
	}
	return schema, nil
}

// FormatRule renders the canonical expression for path and schema.
func FormatRule(path string, schema Schema) string {
	var sb strings.Builder
	sb.WriteString(path)
	sb.WriteByte(' ')
	sb.WriteString(schema.SchemaKind().String())
	if schema.IsRequired() {
		sb.WriteByte('!')
	} else {
		sb.WriteByte('?')
	}
	if op, ok := operationOf(schema); ok {
		sb.WriteByte(' ')
		sb.WriteString(op.Op.String())
		for _, o := range op.Operands() {
			sb.WriteByte(' ')
			sb.WriteString(formatOperand(o))
		}
	}
	if s, ok := schema.(StrValidation); ok {
		if s.MinLen > 0 {
			fmt.Fprintf(&sb, " minlen=%d", s.MinLen)
		}
		if s.MaxLen > 0 {
			fmt.Fprintf(&sb, " maxlen=%d", s.MaxLen)
		}
		if s.Pattern != "" {
			sb.WriteString(" pattern=" + strconv.Quote(s.Pattern))
		}
	}
	return sb.String()
}

func formatOperand(o Operand) string {
	if !o.IsField() && o.Value.Kind == OperandStr {
		return strconv.Quote(o.Value.S)
	}
	return o.String()
}

// parseOperation consumes "<op> <operand> [<operand>]" from toks.
func parseOperation(kind SchemaKind, toks []token) (Operation, []token, error) {
	opName := toks[0].text
	op, ok := ParseOperator(opName)
	if !ok || toks[0].quoted {
		return Operation{}, nil, fmt.Errorf("%w: unknown operator %q", types.ErrInvalidRule, opName)
	}
	if kind == SchemaBool || kind == SchemaEmail {
		return Operation{}, nil, fmt.Errorf("%w: type %s takes no operator", types.ErrInvalidRule, kind)
	}

	arity := 1
	if op == OpBtwn {
		arity = 2
	}
	if len(toks) < 1+arity {
		return Operation{}, nil, fmt.Errorf("%w: %s needs %d operand(s)", types.ErrInvalidRule, op, arity)
	}

	operands := make([]Operand, arity)
	for i := 0; i < arity; i++ {
		o, err := parseOperand(kind, toks[1+i])
		if err != nil {
			return Operation{}, nil, err
		}
		operands[i] = o
	}

	result := Operation{Op: op, A: operands[0]}
	if op == OpBtwn {
		result.B = operands[1]
	}
	return result, toks[1+arity:], nil
}

// parseOperand parses a literal for kind, or a $path reference.
func parseOperand(kind SchemaKind, tok token) (Operand, error) {
	if !tok.quoted && strings.HasPrefix(tok.text, "$") {
		path := tok.text[1:]
		if _, err := ParsePath(path); err != nil {
			return Operand{}, fmt.Errorf("%w: reference %q: %v", types.ErrInvalidRule, tok.text, err)
		}
		return Ref(path), nil
	}

	switch kind {
	case SchemaNumU, SchemaNumI, SchemaNumF:
		if tok.quoted {
			return Operand{}, fmt.Errorf("%w: %s operand %q must be a number", types.ErrInvalidRule, kind, tok.text)
		}
	}

	switch kind {
	case SchemaNumU:
		u, err := strconv.ParseUint(tok.text, 10, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("%w: %q is not a u64", types.ErrInvalidRule, tok.text)
		}
		return Lit(U64Value(u)), nil
	case SchemaNumI:
		i, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("%w: %q is not an i64", types.ErrInvalidRule, tok.text)
		}
		return Lit(I64Value(i)), nil
	case SchemaNumF:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("%w: %q is not an f64", types.ErrInvalidRule, tok.text)
		}
		return Lit(F64Value(f)), nil
	default:
		return Lit(StrValue(tok.text)), nil
	}
}

type ruleOptions struct {
	minLen  int
	maxLen  int
	pattern string
}

// parseOptions consumes trailing key=value tokens.
func parseOptions(kind SchemaKind, toks []token) (ruleOptions, error) {
	var opts ruleOptions
	for _, tok := range toks {
		key, value, ok := strings.Cut(tok.text, "=")
		if !ok {
			return opts, fmt.Errorf("%w: unexpected token %q", types.ErrInvalidRule, tok.text)
		}
		if kind != SchemaStr {
			return opts, fmt.Errorf("%w: option %q applies to str only", types.ErrInvalidRule, key)
		}
		switch key {
		case "minlen", "maxlen":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return opts, fmt.Errorf("%w: %s=%q is not a length", types.ErrInvalidRule, key, value)
			}
			if key == "minlen" {
				opts.minLen = n
			} else {
				opts.maxLen = n
			}
		case "pattern":
			opts.pattern = value
		default:
			return opts, fmt.Errorf("%w: unknown option %q", types.ErrInvalidRule, key)
		}
	}
	return opts, nil
}

func buildSchema(kind SchemaKind, op Operation, opts ruleOptions) Schema {
	switch kind {
	case SchemaBool:
		return NewBoolValidation()
	case SchemaNumU:
		return NewNumUValidation().WithOperation(op)
	case SchemaNumI:
		return NewNumIValidation().WithOperation(op)
	case SchemaNumF:
		return NewNumFValidation().WithOperation(op)
	case SchemaStr:
		return NewStrValidation().WithOperation(op).
			MinLength(opts.minLen).MaxLength(opts.maxLen).Match(opts.pattern)
	case SchemaDate:
		return NewDateValidation().WithOperation(op)
	case SchemaDateTime:
		return NewDateTimeValidation().WithOperation(op)
	default:
		return NewEmailValidation()
	}
}

func withRequired(s Schema, required bool) Schema {
	switch v := s.(type) {
	case BoolValidation:
		v.Required = required
		return v
	case NumUValidation:
		v.Required = required
		return v
	case NumIValidation:
		v.Required = required
		return v
	case NumFValidation:
		v.Required = required
		return v
	case StrValidation:
		v.Required = required
		return v
	case DateValidation:
		v.Required = required
		return v
	case DateTimeValidation:
		v.Required = required
		return v
	case EmailValidation:
		v.Required = required
		return v
	default:
		return s
	}
}

// tokenize splits expr on whitespace. A token starting with '"', or a
// key="value" token, is read as a Go quoted string.
func tokenize(expr string) ([]token, error) {
	var toks []token
	s := expr
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return toks, nil
		}

		prefix := ""
		if eq := strings.Index(s, `="`); s[0] != '"' && eq > 0 && !strings.ContainsFunc(s[:eq], unicode.IsSpace) {
			prefix = s[:eq+1]
		}
		if prefix != "" || s[0] == '"' {
			quoted, err := strconv.QuotedPrefix(s[len(prefix):])
			if err != nil {
				return nil, fmt.Errorf("%w: unterminated quote in %q", types.ErrInvalidRule, expr)
			}
			text, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", types.ErrInvalidRule, err)
			}
			toks = append(toks, token{text: prefix + text, quoted: prefix == ""})
			s = s[len(prefix)+len(quoted):]
			continue
		}

		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			end = len(s)
		}
		toks = append(toks, token{text: s[:end]})
		s = s[end:]
	}
}
