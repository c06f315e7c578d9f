package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/gridline-labs/gridline/pkg/ports"
)

// Rule maps a label to the phrases that suggest it.
type Rule struct {
	Label    string
	Keywords []string
}

// DefaultRules cover the service categories and greetings.
var DefaultRules = []Rule{
	{Label: "Fault Reporting", Keywords: []string{"fault", "no power", "power cut", "power failure", "outage", "blackout", "voltage", "transformer", "broken line"}},
	{Label: "Bill Inquiries", Keywords: []string{"bill", "balance", "payment", "pay", "invoice", "charge", "account"}},
	{Label: "New Connection Requests", Keywords: []string{"new connection", "connection", "new meter", "apply", "application"}},
	{Label: "Incident Reports", Keywords: []string{"shock", "fire", "fallen", "accident", "spark", "incident"}},
	{Label: "Solar Services", Keywords: []string{"solar", "net metering", "panel", "rooftop", "pv"}},
	{Label: "greetings", Keywords: []string{"hi", "hello", "hey", "good morning", "good evening", "ayubowan"}},
}

// Keyword classifies by whole-word phrase matching.
type Keyword struct {
	rules []compiledRule
}

type compiledRule struct {
	label    string
	patterns []*regexp.Regexp
}

// NewKeyword builds a matcher. Nil rules means DefaultRules.
func NewKeyword(rules []Rule) *Keyword {
	if rules == nil {
		rules = DefaultRules
	}
	k := &Keyword{}
	for _, r := range rules {
		cr := compiledRule{label: r.Label}
		for _, kw := range r.Keywords {
			cr.patterns = append(cr.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(kw))+`\b`))
		}
		k.rules = append(k.rules, cr)
	}
	return k
}

var _ ports.IntentClassifier = (*Keyword)(nil)

// Classify returns every label with at least one matching phrase, in rule order.
func (k *Keyword) Classify(_ context.Context, text string) ([]string, error) {
	lower := strings.ToLower(text)
	var labels []string
	for _, r := range k.rules {
		for _, p := range r.patterns {
			if p.MatchString(lower) {
				labels = append(labels, r.label)
				break
			}
		}
	}
	return labels, nil
}
