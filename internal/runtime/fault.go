package runtime

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// Fault types reported to the utility.
const (
	FaultPowerFailure = "power failure"
	FaultVoltage      = "voltage issue"
	FaultBrokenLine   = "broken line"
	FaultTransformer  = "transformer problem"
	FaultShock        = "electric shock"
)

const (
	identifierContact = "Contact Number"
	identifierAccount = "Account Number"
)

var districts = []string{
	"Colombo", "Gampaha", "Kalutara", "Kandy", "Matale",
	"Nuwara Eliya", "Galle", "Matara", "Hambantota",
}

var towns = []string{
	"Colombo", "Dehiwala", "Moratuwa", "Kandy", "Galle",
	"Negombo", "Kurunegala", "Jaffna", "Anuradhapura",
}

var (
	identifierPattern = regexp.MustCompile(`\b\d{10}\b`)
	phonePattern      = regexp.MustCompile(`(?:0|94)?[1-9]\d{8}`)
)

var faultByOption = map[string]string{
	"1": FaultPowerFailure,
	"2": FaultVoltage,
	"3": FaultBrokenLine,
	"4": FaultTransformer,
	"5": FaultShock,
}

type phrase struct {
	pattern *regexp.Regexp
	fault   string
}

// words matches text as whole words, allowing a plural s.
func words(text, fault string) phrase {
	return phrase{
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(text) + `s?\b`),
		fault:   fault,
	}
}

// Phrases are checked before single keywords.
var faultPhrases = []phrase{
	words("no power", FaultPowerFailure),
	words("electricity out", FaultPowerFailure),
	words("blackout", FaultPowerFailure),
	words("fluctuation", FaultVoltage),
	words("dim lights", FaultVoltage),
	words("voltage drop", FaultVoltage),
	words("fallen wire", FaultBrokenLine),
	words("damaged line", FaultBrokenLine),
	words("wire down", FaultBrokenLine),
	words("explosion", FaultTransformer),
	words("loud bang", FaultTransformer),
	words("current leak", FaultShock),
	words("earthing", FaultShock),
}

var faultKeywords = []phrase{
	words("power", FaultPowerFailure),
	words("outage", FaultPowerFailure),
	words("voltage", FaultVoltage),
	words("transformer", FaultTransformer),
	words("shock", FaultShock),
	words("line", FaultBrokenLine),
}

// faultFlow collects district, town, identifier and fault type, then asks for
// confirmation before issuing a reference number.
type faultFlow struct {
	e *Engine
}

func (f *faultFlow) handle(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	switch t.s.State {
	case stateAwaitDistrict:
		return f.district(ctx, t)
	case stateAwaitTown:
		return f.town(ctx, t)
	case stateAwaitID:
		return f.identifier(ctx, t)
	case stateAwaitFaultType:
		return f.faultType(ctx, t, node)
	case stateConfirmDetails:
		return f.confirm(ctx, t, node)
	}
	return f.e.flowMenu(ctx, t, node, stateFaultRoot, faultScratch)
}

func (f *faultFlow) district(ctx context.Context, t *turn) domain.Reply {
	d, ok := matchPlace(t.message, districts)
	if !ok {
		return f.e.invalid(t, msgDistrictInvalid, fieldDistrict)
	}
	t.s.Scratch[domain.ScratchDistrict] = d
	return f.e.goTo(ctx, t, stateAwaitTown, "")
}

func (f *faultFlow) town(ctx context.Context, t *turn) domain.Reply {
	town, ok := matchPlace(t.message, towns)
	if !ok {
		return f.e.invalid(t, fmt.Sprintf(msgTownInvalid, t.s.ScratchString(domain.ScratchDistrict)), fieldTown)
	}
	t.s.Scratch[domain.ScratchTown] = town
	return f.e.goTo(ctx, t, stateAwaitID, "")
}

func (f *faultFlow) identifier(ctx context.Context, t *turn) domain.Reply {
	id, kind, ok := parseIdentifier(t.message)
	if !ok {
		return f.e.invalid(t, msgIdentifierInvalid, fieldIdentifier)
	}
	t.s.Scratch[domain.ScratchIdentifier] = id
	t.s.Scratch[domain.ScratchIdentifierType] = kind
	return f.e.goTo(ctx, t, stateAwaitFaultType, "")
}

func (f *faultFlow) faultType(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	s := t.s
	fault, ok := matchFault(t.message)
	if !ok {
		return f.e.respond(t, domain.Reply{
			Message: msgFaultTypeInvalid,
			Kind:    domain.ReplyMenu,
			Options: node.Options,
			Status:  domain.StatusOK,
		})
	}

	district := s.ScratchString(domain.ScratchDistrict)
	town := s.ScratchString(domain.ScratchTown)
	id := s.ScratchString(domain.ScratchIdentifier)
	if district == "" || town == "" || id == "" {
		s.ClearScratch(faultScratch...)
		return f.e.goTo(ctx, t, stateAwaitDistrict, msgFaultDetailsMissed)
	}
	s.Scratch[domain.ScratchFaultType] = fault

	next, err := f.e.resolve(t, stateConfirmDetails)
	if err != nil {
		return f.e.configError(t, s.State, err.Error())
	}
	f.e.enter(ctx, t, next)
	idType := s.ScratchString(domain.ScratchIdentifierType)
	return f.e.respond(t, domain.Reply{
		Message: fmt.Sprintf(msgFaultConfirmation, district, town, idType, id, fault),
		Kind:    domain.ReplyMessage,
		Status:  domain.StatusOK,
	})
}

func (f *faultFlow) confirm(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	s := t.s
	switch strings.ToLower(strings.TrimSpace(t.message)) {
	case "yes":
		ref := referenceNumber(s.ScratchString(domain.ScratchIdentifier), t.now.Format("060102"))
		s.ClearScratch(faultScratch...)
		next, ok := node.Transitions["yes"]
		if !ok {
			return f.e.configError(t, node.Key, "missing yes transition")
		}
		f.e.logger.Info("Fault report submitted", "session_id", s.ID, "reference", ref)
		return f.e.goTo(ctx, t, next, fmt.Sprintf(msgFaultSubmitted, ref))
	case "no":
		s.ClearScratch(faultScratch...)
		next, ok := node.Transitions["no"]
		if !ok {
			next = stateAwaitDistrict
		}
		return f.e.goTo(ctx, t, next, "")
	}
	return f.e.respond(t, domain.Reply{
		Message: msgConfirmPrompt,
		Kind:    domain.ReplyMessage,
		Status:  domain.StatusOK,
	})
}

// matchPlace finds the first known place mentioned in text, ignoring case.
func matchPlace(text string, places []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range places {
		if strings.Contains(lower, strings.ToLower(p)) {
			return p, true
		}
	}
	return "", false
}

// parseIdentifier extracts a 10-digit account number or a local phone number.
func parseIdentifier(text string) (id, kind string, ok bool) {
	if m := identifierPattern.FindString(text); m != "" {
		if strings.HasPrefix(m, "0") {
			return m, identifierContact, true
		}
		return m, identifierAccount, true
	}
	compact := strings.ReplaceAll(text, " ", "")
	if m := phonePattern.FindString(compact); m != "" {
		return m, identifierContact, true
	}
	return "", "", false
}

// matchFault maps a menu number, phrase or keyword to a fault type.
func matchFault(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if fault, ok := faultByOption[trimmed]; ok {
		return fault, true
	}
	lower := strings.ToLower(trimmed)
	for _, p := range faultPhrases {
		if p.pattern.MatchString(lower) {
			return p.fault, true
		}
	}
	for _, k := range faultKeywords {
		if k.pattern.MatchString(lower) {
			return k.fault, true
		}
	}
	return "", false
}

// referenceNumber builds FR<yymmdd><last four digits of the identifier>.
func referenceNumber(identifier, date string) string {
	last := identifier
	if len(last) > 4 {
		last = last[len(last)-4:]
	}
	return "FR" + date + last
}
