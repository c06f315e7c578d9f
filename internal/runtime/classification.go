package runtime

import (
	"context"
	"strings"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
)

// Category labels produced by the intent classifier.
const (
	LabelFault         = "Fault Reporting"
	LabelBill          = "Bill Inquiries"
	LabelNewConnection = "New Connection Requests"
	LabelIncident      = "Incident Reports"
	LabelSolar         = "Solar Services"
	LabelGreetings     = "greetings"
)

// MaxMistakes is the number of consecutive unclassified messages after which
// the help menu is shown.
const MaxMistakes = 3

// labelOrder decides which label wins when the classifier returns several.
var labelOrder = []string{LabelFault, LabelBill, LabelNewConnection, LabelIncident, LabelSolar}

var labelTargets = map[string]string{
	LabelFault:         stateFaultRoot,
	LabelBill:          stateBillRoot,
	LabelNewConnection: "new_connection",
	LabelIncident:      stateFaultRoot,
	LabelSolar:         stateSolarRoot,
}

// classify routes free text through the intent classifier.
func (e *Engine) classify(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	s := t.s
	if e.classifier == nil {
		return e.unclassified(ctx, t)
	}

	started := time.Now()
	labels, err := e.classifier.Classify(ctx, t.message)
	e.observe(ctx, s.ID, "classifier", started, err != nil)
	if err != nil {
		e.logger.Error("Classifier failed", "session_id", s.ID, "err", err)
		return e.respond(t, domain.ErrorReply(msgClassifierDown))
	}

	label, ok := pickLabel(labels)
	if !ok {
		return e.unclassified(ctx, t)
	}
	s.MistakeCount = 0

	if label == LabelGreetings {
		return e.respond(t, domain.Reply{
			Message: msgGreeting,
			Kind:    domain.ReplyMessage,
			Status:  domain.StatusOK,
		})
	}

	target, ok := node.Transitions[label]
	if !ok {
		target = labelTargets[label]
	}
	e.logger.Debug("Message classified", "session_id", s.ID, "label", label, "target", target)
	return e.goTo(ctx, t, target, "")
}

// unclassified counts a failed classification and escalates to the help menu
// once the limit is reached.
func (e *Engine) unclassified(ctx context.Context, t *turn) domain.Reply {
	s := t.s
	s.MistakeCount++
	if s.MistakeCount < MaxMistakes {
		s.Record(t.message, nil, t.now)
		return domain.Reply{Message: msgNotUnderstood, Kind: domain.ReplyMessage, Status: domain.StatusOK}
	}

	s.MistakeCount = 0
	help, err := e.graph.Resolve(graph.HelpMenu, s.Language)
	if err != nil {
		return e.configError(t, s.State, "help menu missing")
	}
	e.enter(ctx, t, help)
	return e.respond(t, domain.Reply{
		Message: msgEscalation,
		Kind:    domain.ReplyMenu,
		Options: help.Options,
		Status:  domain.StatusOK,
	})
}

// pickLabel returns the highest priority recognized label. Greetings only win
// when no category label is present.
func pickLabel(labels []string) (string, bool) {
	for _, want := range labelOrder {
		for _, got := range labels {
			if got == want {
				return want, true
			}
		}
	}
	for _, got := range labels {
		if strings.EqualFold(got, LabelGreetings) {
			return LabelGreetings, true
		}
	}
	return "", false
}
