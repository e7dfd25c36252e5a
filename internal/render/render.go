package render

import (
	"fmt"
	"strings"
)

// UndefinedReferenceError reports a {{ }} placeholder naming something the
// node never declared. Emitting empty text instead would corrupt installed
// artifacts silently, so this is fatal.
type UndefinedReferenceError struct {
	Ref string
}

func (e *UndefinedReferenceError) Error() string {
	return fmt.Sprintf("undefined reference %q", e.Ref)
}

// SyntaxError reports malformed template delimiters.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "template syntax: " + e.Msg
}

// Render evaluates src against ctx. Placeholders resolve against the
// context's namespaces; a conditional block whose guard is undefined or
// empty renders to nothing, which is how optional per-project variables
// behave.
func Render(src string, ctx *Context) (string, error) {
	var out strings.Builder

	for len(src) > 0 {
		expr := strings.Index(src, "{{")
		tag := strings.Index(src, "{%")

		switch {
		case expr == -1 && tag == -1:
			out.WriteString(src)
			return out.String(), nil

		case tag == -1 || (expr != -1 && expr < tag):
			out.WriteString(src[:expr])
			src = src[expr:]
			end := strings.Index(src, "}}")
			if end == -1 {
				return "", &SyntaxError{Msg: "unclosed {{"}
			}
			path := strings.TrimSpace(src[2:end])
			val, ok := ctx.lookup(path)
			if !ok {
				return "", &UndefinedReferenceError{Ref: path}
			}
			out.WriteString(val)
			src = src[end+2:]

		default:
			out.WriteString(src[:tag])
			src = src[tag:]
			rendered, rest, err := renderBlock(src, ctx)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
			src = rest
		}
	}
	return out.String(), nil
}

// renderBlock consumes one {% if %}...{% endif %} block at the start of
// src, returning its rendered output and the remaining input.
func renderBlock(src string, ctx *Context) (rendered, rest string, err error) {
	name, arg, after, err := readTag(src)
	if err != nil {
		return "", "", err
	}
	if name != "if" {
		return "", "", &SyntaxError{Msg: fmt.Sprintf("unexpected {%% %s %%}", name)}
	}
	if arg == "" {
		return "", "", &SyntaxError{Msg: "if tag missing expression"}
	}

	body, rest, err := readUntilEndif(after)
	if err != nil {
		return "", "", err
	}

	// Undefined or empty guard means the block is omitted, not an error.
	val, ok := ctx.lookup(arg)
	if !ok || val == "" || val == "false" {
		return "", rest, nil
	}

	rendered, err = Render(body, ctx)
	return rendered, rest, err
}

// readTag parses a {% ... %} tag at the start of src.
func readTag(src string) (name, arg, rest string, err error) {
	end := strings.Index(src, "%}")
	if end == -1 {
		return "", "", "", &SyntaxError{Msg: "unclosed {%"}
	}
	fields := strings.Fields(src[2:end])
	if len(fields) == 0 {
		return "", "", "", &SyntaxError{Msg: "empty {% %} tag"}
	}
	name = fields[0]
	arg = strings.Join(fields[1:], " ")
	return name, arg, src[end+2:], nil
}

// readUntilEndif finds the matching {% endif %} for an already-consumed
// {% if %}, tracking nesting depth.
func readUntilEndif(src string) (body, rest string, err error) {
	depth := 1
	pos := 0
	for {
		tag := strings.Index(src[pos:], "{%")
		if tag == -1 {
			return "", "", &SyntaxError{Msg: "missing {% endif %}"}
		}
		tag += pos

		name, _, after, err := readTag(src[tag:])
		if err != nil {
			return "", "", err
		}
		afterPos := len(src) - len(after)

		switch name {
		case "if":
			depth++
		case "endif":
			depth--
			if depth == 0 {
				return src[:tag], src[afterPos:], nil
			}
		}
		pos = afterPos
	}
}
