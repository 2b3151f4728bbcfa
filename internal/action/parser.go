package action

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ai-agents-2030/AppAgent/internal/address"
	"github.com/ai-agents-2030/AppAgent/internal/model"
)

// Mode selects how the ambiguous keywords tap, long_press and swipe are read.
type Mode int

const (
	ModeIndex Mode = iota
	ModeGrid
)

func (m Mode) String() string {
	if m == ModeGrid {
		return "grid"
	}
	return "index"
}

// Parsed is the structured form of one model reply.
type Parsed struct {
	Action      Action `yaml:"action"                json:"action"`
	Observation string `yaml:"observation,omitempty" json:"observation,omitempty"`
	Thought     string `yaml:"thought,omitempty"     json:"thought,omitempty"`
	// Summary is the model's own summary, or the rendered action when the
	// reply has none.
	Summary string `yaml:"summary" json:"summary"`
}

var (
	sectionRe = regexp.MustCompile(`(?im)^[ \t#>*_-]*(observation|thought|action|summary)[ \t*_]*:[ \t*_]*`)
	callRe    = regexp.MustCompile(`(?i)\b(long_press_grid|tap_grid|swipe_grid|long_press|tap|text|swipe|grid)[ \t]*\(`)
	finishRe  = regexp.MustCompile(`\bFINISH\b`)
	bareGrid  = regexp.MustCompile(`(?i)\bgrid\b`)
)

// Parse extracts the action from a model reply. It never fails: anything that
// is not a well-formed call yields a KindError action with a reason.
func Parse(reply string, mode Mode) (p Parsed) {
	defer func() {
		if r := recover(); r != nil {
			p = Parsed{Action: Errorf("parser failure: %v", r)}
			p.Summary = p.Action.String()
		}
	}()

	sections := splitSections(reply)
	p.Observation = sections["observation"]
	p.Thought = sections["thought"]

	src, ok := sections["action"]
	if !ok {
		src = reply
	}
	p.Action = parseAction(src, mode)

	p.Summary = sections["summary"]
	if p.Summary == "" {
		p.Summary = p.Action.String()
	}
	return p
}

// splitSections maps each lower-cased header to its trimmed body. A repeated
// header keeps its first occurrence.
func splitSections(reply string) map[string]string {
	out := make(map[string]string)
	locs := sectionRe.FindAllStringSubmatchIndex(reply, -1)
	for i, loc := range locs {
		name := strings.ToLower(reply[loc[2]:loc[3]])
		end := len(reply)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = strings.TrimSpace(reply[loc[1]:end])
	}
	return out
}

func parseAction(src string, mode Mode) Action {
	call := callRe.FindStringSubmatchIndex(src)
	finish := finishRe.FindStringIndex(src)
	switch {
	case finish != nil && (call == nil || finish[0] < call[0]):
		return Action{Kind: KindFinish}
	case call == nil:
		if bareGrid.MatchString(src) {
			return Action{Kind: KindGrid}
		}
		if strings.TrimSpace(src) == "" {
			return Errorf("empty action")
		}
		return Errorf("no recognised action in %q", truncate(src, 80))
	}

	keyword := strings.ToLower(src[call[2]:call[3]])
	rest := src[call[1]:]
	if Kind(keyword) == KindText {
		return parseText(rest)
	}
	args, err := parseArgs(rest)
	if err != nil {
		return Errorf("%s: %v", keyword, err)
	}
	return build(keyword, args, mode)
}

// parseArgs reads a comma separated argument list up to the closing paren.
// rest starts just after the opening paren.
func parseArgs(rest string) ([]token, error) {
	toks := lex(rest)
	var args []token
	expectArg := true
	for _, t := range toks {
		switch t.kind {
		case tokRParen:
			if expectArg && len(args) > 0 {
				return nil, fmt.Errorf("trailing comma")
			}
			return args, nil
		case tokComma:
			if expectArg {
				return nil, fmt.Errorf("missing argument")
			}
			expectArg = true
		case tokIdent, tokInt, tokNumber, tokString:
			if !expectArg {
				return nil, fmt.Errorf("missing comma before %q", t.text)
			}
			if t.bad {
				return nil, fmt.Errorf("unterminated string")
			}
			args = append(args, t)
			expectArg = false
		case tokEOF:
			return nil, fmt.Errorf("missing closing parenthesis")
		default:
			return nil, fmt.Errorf("unexpected %q in argument list", t.text)
		}
	}
	return nil, fmt.Errorf("missing closing parenthesis")
}

// parseText reads the single text argument. Well-formed string literals are
// unquoted; anything else is taken verbatim up to the last closing paren on
// the line so that unescaped quotes in the value survive.
func parseText(rest string) Action {
	toks := lex(rest)
	if len(toks) >= 2 && toks[0].kind == tokString && !toks[0].bad && toks[1].kind == tokRParen {
		lit := rest[toks[0].pos:toks[0].end]
		if v, err := strconv.Unquote(lit); err == nil && lit[0] == '"' {
			return Action{Kind: KindText, Text: v}
		}
		return Action{Kind: KindText, Text: toks[0].text}
	}

	line := rest
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	end := strings.LastIndexByte(line, ')')
	if end < 0 {
		return Errorf("text: missing closing parenthesis")
	}
	raw := strings.TrimSpace(line[:end])
	if raw == "" {
		return Errorf("text: expected 1 argument, got 0")
	}
	return Action{Kind: KindText, Text: stripQuotes(raw)}
}

func stripQuotes(s string) string {
	for _, q := range []string{`"`, `'`, "“", "‘"} {
		closing := string(closingQuote([]rune(q)[0]))
		if len(s) >= len(q)+len(closing) && strings.HasPrefix(s, q) && strings.HasSuffix(s, closing) {
			return s[len(q) : len(s)-len(closing)]
		}
	}
	return s
}

func build(keyword string, args []token, mode Mode) Action {
	switch Kind(keyword) {
	case KindTap, KindLongPress:
		if mode == ModeGrid {
			return buildPointGrid(gridKind(Kind(keyword)), keyword, args)
		}
		if err := arity(keyword, args, 1); err != nil {
			return Errorf("%v", err)
		}
		tag, err := intArg(keyword, "element", args[0])
		if err != nil {
			return Errorf("%v", err)
		}
		return Action{Kind: Kind(keyword), Area: tag}
	case KindTapGrid, KindLongPressGrid:
		return buildPointGrid(Kind(keyword), keyword, args)
	case KindSwipe:
		if mode == ModeGrid {
			return buildSwipeGrid(keyword, args)
		}
		return buildSwipe(keyword, args)
	case KindSwipeGrid:
		return buildSwipeGrid(keyword, args)
	case KindGrid:
		if err := arity(keyword, args, 0); err != nil {
			return Errorf("%v", err)
		}
		return Action{Kind: KindGrid}
	}
	return Errorf("unknown action %q", keyword)
}

func gridKind(k Kind) Kind {
	if k == KindLongPress {
		return KindLongPressGrid
	}
	return KindTapGrid
}

func buildPointGrid(kind Kind, keyword string, args []token) Action {
	if err := arity(keyword, args, 2); err != nil {
		return Errorf("%v", err)
	}
	area, err := intArg(keyword, "area", args[0])
	if err != nil {
		return Errorf("%v", err)
	}
	return Action{Kind: kind, Area: area, Subarea: address.ParseSubarea(args[1].text)}
}

func buildSwipe(keyword string, args []token) Action {
	if err := arity(keyword, args, 3); err != nil {
		return Errorf("%v", err)
	}
	tag, err := intArg(keyword, "element", args[0])
	if err != nil {
		return Errorf("%v", err)
	}
	dir, err := model.ParseDirection(args[1].text)
	if err != nil {
		return Errorf("%s: %v", keyword, err)
	}
	dist, err := model.ParseDistance(args[2].text)
	if err != nil {
		return Errorf("%s: %v", keyword, err)
	}
	return Action{Kind: KindSwipe, Area: tag, Direction: dir, Distance: dist}
}

func buildSwipeGrid(keyword string, args []token) Action {
	if err := arity(keyword, args, 4); err != nil {
		return Errorf("%v", err)
	}
	start, err := intArg(keyword, "start area", args[0])
	if err != nil {
		return Errorf("%v", err)
	}
	end, err := intArg(keyword, "end area", args[2])
	if err != nil {
		return Errorf("%v", err)
	}
	return Action{
		Kind:       KindSwipeGrid,
		Area:       start,
		Subarea:    address.ParseSubarea(args[1].text),
		EndArea:    end,
		EndSubarea: address.ParseSubarea(args[3].text),
	}
}

func arity(keyword string, args []token, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s: expected %d argument(s), got %d", keyword, want, len(args))
	}
	return nil
}

// intArg accepts integer literals, bare or quoted.
func intArg(keyword, name string, t token) (int, error) {
	if t.kind != tokInt && t.kind != tokString {
		return 0, fmt.Errorf("%s: %s must be an integer, got %q", keyword, name, t.text)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(t.text), "+"))
	if err != nil {
		return 0, fmt.Errorf("%s: %s must be an integer, got %q", keyword, name, t.text)
	}
	return n, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
