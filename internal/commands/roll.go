package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/decl"
)

const (
	maxDice  = 100
	maxSides = 1000
)

var (
	rollTokenRe = regexp.MustCompile(`(?i)(\d*d\d+|\d+|[+\-*/])`)
	diceRe      = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)

	errEmptyFormula = errors.New("can't parse your formula, try something like `2d6+1d4*2-3`")
	errDivByZero    = errors.New("can't divide by zero")
	errDangling     = errors.New("can't multiply or divide by nothing")
)

// RollCommand rolls a dice formula such as 2d20+1d6-2.
type RollCommand struct {
	Formula string
	Private bool
	Repeat  int64

	roll func(sides int) int
}

func declareRoll(s *decl.Store) decl.Class {
	class := decl.Class{Key: "commands.roll", New: func() any {
		return &RollCommand{Repeat: 1, roll: func(sides int) int { return rand.IntN(sides) + 1 }}
	}}
	cmd.DeclareCommand(s, class, cmd.CommandInfo{
		Name:        "roll",
		Description: "Roll dice like `2d20+1d6-2`",
	})
	cmd.DeclareOption(s, class, "formula",
		cmd.StringOption("Supports `2d6+1d4*2-3` and similar math", func(c *RollCommand) *string { return &c.Formula }).Require())
	cmd.DeclareOption(s, class, "repeat",
		cmd.IntegerOption("How many times to roll", func(c *RollCommand) *int64 { return &c.Repeat }).Range(1, 5))
	cmd.DeclareOption(s, class, "private",
		cmd.BooleanOption("Only you see the result", func(c *RollCommand) *bool { return &c.Private }))
	return class
}

func (c *RollCommand) Execute(ctx context.Context, in cmd.Interaction) error {
	formula := strings.ReplaceAll(c.Formula, " ", "")

	var b strings.Builder
	for i := int64(0); i < c.Repeat; i++ {
		total, detail, err := evalFormula(formula, c.roll)
		if err != nil {
			return in.Reply(ctx, cmd.Message{Content: err.Error(), Ephemeral: true})
		}
		fmt.Fprintf(&b, "🎲 `%s`: %s = **%d**\n", formula, detail, total)
	}
	return in.Reply(ctx, cmd.Message{Content: strings.TrimSuffix(b.String(), "\n"), Ephemeral: c.Private})
}

type rollTerm struct {
	value int
	desc  string
	op    string
}

// evalFormula evaluates formula left to right, binding * and / to the
// preceding term.
func evalFormula(formula string, roll func(sides int) int) (int, string, error) {
	tokens := rollTokenRe.FindAllString(formula, -1)
	if len(tokens) == 0 {
		return 0, "", errEmptyFormula
	}

	var terms []rollTerm
	op := "+"
	for _, tok := range tokens {
		switch tok {
		case "+", "-", "*", "/":
			op = tok
			continue
		}
		val, desc, err := evalToken(tok, roll)
		if err != nil {
			return 0, "", fmt.Errorf("failed to evaluate `%s`: %w", tok, err)
		}

		if op == "*" || op == "/" {
			if len(terms) == 0 {
				return 0, "", errDangling
			}
			prev := &terms[len(terms)-1]
			if op == "/" {
				if val == 0 {
					return 0, "", errDivByZero
				}
				prev.value /= val
			} else {
				prev.value *= val
			}
			prev.desc = fmt.Sprintf("%s %s %s", prev.desc, op, desc)
		} else {
			terms = append(terms, rollTerm{value: val, desc: desc, op: op})
		}
		op = "+"
	}

	total := 0
	var parts []string
	for i, t := range terms {
		if i > 0 || t.op == "-" {
			parts = append(parts, t.op)
		}
		parts = append(parts, t.desc)
		if t.op == "-" {
			total -= t.value
		} else {
			total += t.value
		}
	}
	return total, strings.Join(parts, " "), nil
}

func evalToken(tok string, roll func(sides int) int) (int, string, error) {
	m := diceRe.FindStringSubmatch(tok)
	if m == nil {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, "", errors.New("not a number or dice")
		}
		return n, strconv.Itoa(n), nil
	}

	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 {
		return 0, "", errors.New("invalid dice sides")
	}
	if count < 1 || count > maxDice || sides > maxSides {
		return 0, "", fmt.Errorf("too big, max %d dice with %d sides", maxDice, maxSides)
	}

	sum := 0
	rolls := make([]string, count)
	for i := range rolls {
		r := roll(sides)
		sum += r
		rolls[i] = strconv.Itoa(r)
	}
	return sum, fmt.Sprintf("%s [%s]", strings.ToLower(tok), strings.Join(rolls, ", ")), nil
}
