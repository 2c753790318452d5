package rules

import (
	"math"
	"strconv"
	"strings"
)

// Column names of a rule table, in display order.
const (
	ColAntecedents       = "antecedents"
	ColConsequents       = "consequents"
	ColAntecedentSupport = "antecedent_support"
	ColConsequentSupport = "consequent_support"
	ColSupport           = "support"
	ColConfidence        = "confidence"
	ColLift              = "lift"
	ColLeverage          = "leverage"
	ColConviction        = "conviction"
	ColAntecedentLen     = "antecedent_len"
	ColConsequentLen     = "consequent_len"
	ColRuleLen           = "rule_len"
)

// Columns lists every column of a rule table.
var Columns = []string{
	ColAntecedents, ColConsequents, ColAntecedentSupport, ColConsequentSupport,
	ColSupport, ColConfidence, ColLift, ColLeverage, ColConviction,
	ColAntecedentLen, ColConsequentLen, ColRuleLen,
}

// Items is a sorted token set.
type Items []string

// String renders the set as "{a, b}". Search terms match against this form.
func (it Items) String() string { return "{" + strings.Join(it, ", ") + "}" }

// Rule is one association rule Antecedents -> Consequents.
type Rule struct {
	Antecedents       Items
	Consequents       Items
	AntecedentSupport float64
	ConsequentSupport float64
	Support           float64
	Confidence        float64
	Lift              float64
	Leverage          float64
	Conviction        float64
}

func (r Rule) AntecedentLen() int { return len(r.Antecedents) }
func (r Rule) ConsequentLen() int { return len(r.Consequents) }
func (r Rule) Len() int           { return len(r.Antecedents) + len(r.Consequents) }

// newRule computes every metric from the three supports.
func newRule(ante, cons Items, sAC, sA, sC float64) Rule {
	conf := sAC / sA
	conviction := math.Inf(1)
	if conf < 1 {
		conviction = (1 - sC) / (1 - conf)
	}
	return Rule{
		Antecedents:       ante,
		Consequents:       cons,
		AntecedentSupport: sA,
		ConsequentSupport: sC,
		Support:           sAC,
		Confidence:        conf,
		Lift:              conf / sC,
		Leverage:          sAC - sA*sC,
		Conviction:        conviction,
	}
}

// Number returns a numeric column.
func (r Rule) Number(col string) (float64, bool) {
	switch col {
	case ColAntecedentSupport:
		return r.AntecedentSupport, true
	case ColConsequentSupport:
		return r.ConsequentSupport, true
	case ColSupport:
		return r.Support, true
	case ColConfidence:
		return r.Confidence, true
	case ColLift:
		return r.Lift, true
	case ColLeverage:
		return r.Leverage, true
	case ColConviction:
		return r.Conviction, true
	case ColAntecedentLen:
		return float64(r.AntecedentLen()), true
	case ColConsequentLen:
		return float64(r.ConsequentLen()), true
	case ColRuleLen:
		return float64(r.Len()), true
	}
	return 0, false
}

// Field returns the textual value of any column.
func (r Rule) Field(col string) string {
	switch col {
	case ColAntecedents:
		return r.Antecedents.String()
	case ColConsequents:
		return r.Consequents.String()
	case ColAntecedentLen, ColConsequentLen, ColRuleLen:
		v, _ := r.Number(col)
		return strconv.Itoa(int(v))
	}
	v, ok := r.Number(col)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Record returns the rule's fields in Columns order.
func (r Rule) Record() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = r.Field(c)
	}
	return out
}

func isColumn(col string) bool {
	for _, c := range Columns {
		if c == col {
			return true
		}
	}
	return false
}
