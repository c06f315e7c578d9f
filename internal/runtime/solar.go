package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// solarFlow runs the solar service menus, the contact verification forms and
// the advisor-backed question state.
type solarFlow struct {
	e *Engine
}

func (f *solarFlow) handle(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	switch t.s.State {
	case stateSolarVerification:
		return f.account(ctx, t)
	case stateSolarContactVerify:
		return f.contact(ctx, t)
	case stateSolarComparison:
		return f.comparison(ctx, t)
	case stateSolarDetails:
		return f.details(ctx, t, node)
	}
	return f.e.flowMenu(ctx, t, node, stateSolarRoot, solarScratch)
}

// account only checks the number's shape. Solar customers are identified by
// the contact lookup that follows.
func (f *solarFlow) account(ctx context.Context, t *turn) domain.Reply {
	number := strings.TrimSpace(t.message)
	if !tenDigits.MatchString(number) {
		return f.e.invalid(t, msgAccountFormat, fieldAccountNumber)
	}
	t.s.Scratch[domain.ScratchAccount] = number
	return f.e.goTo(ctx, t, stateSolarContactVerify, "")
}

func (f *solarFlow) contact(ctx context.Context, t *turn) domain.Reply {
	contact := strings.TrimSpace(t.message)
	if !tenDigits.MatchString(contact) {
		return f.e.invalid(t, msgContactFormat, fieldContactNumber)
	}

	res := f.e.lookupContact(ctx, t.s.ID, contact)
	if res.Found {
		next, err := f.e.resolve(t, stateSolarVerified)
		if err != nil {
			return f.e.configError(t, t.s.State, err.Error())
		}
		t.s.Scratch[domain.ScratchAccount] = res.AccountNumber
		f.e.enter(ctx, t, next)
		return f.e.present(t, next, fmt.Sprintf(msgSolarVerified, contact, res.AccountNumber))
	}

	next, err := f.e.resolve(t, stateSolarComparison)
	if err != nil {
		return f.e.configError(t, t.s.State, err.Error())
	}
	f.e.enter(ctx, t, next)
	return f.e.respond(t, domain.Reply{
		Message: fmt.Sprintf(msgSolarNotFound, contact),
		Kind:    domain.ReplyMenu,
		Options: mismatchOptions(),
		Status:  domain.StatusOK,
	})
}

func (f *solarFlow) comparison(ctx context.Context, t *turn) domain.Reply {
	switch t.message {
	case optTryAgain:
		return f.e.goTo(ctx, t, stateSolarContactVerify, "")
	case optExit:
		t.s.ClearScratch(solarScratch...)
		return f.e.goTo(ctx, t, stateSolarRoot, "")
	}
	return f.e.respond(t, domain.Reply{
		Message: msgInvalidOption,
		Kind:    domain.ReplyMenu,
		Options: mismatchOptions(),
		Status:  domain.StatusOK,
	})
}

// details proxies free text to the advisor. Options on the node still
// navigate.
func (f *solarFlow) details(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	s := t.s
	if node.HasOption(t.message) {
		if next, ok := node.Transitions[t.message]; ok {
			s.ClearScratch(domain.ScratchAdvisorSession)
			return f.e.goTo(ctx, t, next, "")
		}
	}

	if f.e.advisor == nil {
		return f.e.respond(t, f.answer(node, msgAdvisorDown))
	}

	token := s.ScratchString(domain.ScratchAdvisorSession)
	if token == "" {
		token = f.e.newToken()
	}

	started := time.Now()
	answer, next, err := f.e.advisor.Ask(ctx, t.message, token)
	f.e.observe(ctx, s.ID, "advisor", started, err != nil)
	if err != nil {
		f.e.logger.Error("Advisor failed", "session_id", s.ID, "err", err)
		s.Scratch[domain.ScratchAdvisorSession] = token
		return f.e.respond(t, f.answer(node, msgAdvisorDown))
	}
	if next == "" {
		next = token
	}
	s.Scratch[domain.ScratchAdvisorSession] = next
	return f.e.respond(t, f.answer(node, answer))
}

func (f *solarFlow) answer(node domain.Node, text string) domain.Reply {
	return domain.Reply{
		Message: text,
		Kind:    domain.ReplyMessage,
		Options: node.Options,
		Status:  domain.StatusOK,
	}
}
