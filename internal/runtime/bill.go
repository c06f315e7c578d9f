package runtime

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
)

var tenDigits = regexp.MustCompile(`^\d{10}$`)

// billFlow runs the bill inquiry menus and the account/contact verification
// forms. Verification scratch lives only while the session stays in the flow.
type billFlow struct {
	e *Engine
}

func (f *billFlow) handle(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	switch t.s.State {
	case stateVerification:
		return f.account(ctx, t)
	case stateContactVerify:
		return f.contact(ctx, t)
	case stateAccountComparison:
		return f.comparison(ctx, t, node)
	}
	return f.e.flowMenu(ctx, t, node, stateBillRoot, billScratch)
}

func (f *billFlow) account(ctx context.Context, t *turn) domain.Reply {
	number := strings.TrimSpace(t.message)
	if !tenDigits.MatchString(number) {
		return f.e.invalid(t, msgAccountFormat, fieldAccountNumber)
	}

	res := f.e.lookupAccount(ctx, t.s.ID, number)
	if !res.Valid {
		t.s.ClearScratch(billScratch...)
		return f.e.invalid(t, msgAccountInvalid, fieldAccountNumber)
	}

	t.s.Scratch[domain.ScratchAccount] = number
	t.s.Scratch[domain.ScratchBalance] = res.Balance
	return f.e.goTo(ctx, t, stateContactVerify, "")
}

func (f *billFlow) contact(ctx context.Context, t *turn) domain.Reply {
	s := t.s
	account := s.ScratchString(domain.ScratchAccount)
	if account == "" {
		s.ClearScratch(billScratch...)
		return f.e.restartFlow(ctx, t, stateBillRoot)
	}

	contact := strings.TrimSpace(t.message)
	if !tenDigits.MatchString(contact) {
		return f.e.invalid(t, msgContactFormat, fieldContactNumber)
	}

	res := f.e.lookupContact(ctx, s.ID, contact)
	if res.Found && res.AccountNumber == account {
		balance, _ := s.ScratchFloat(domain.ScratchBalance)
		next, err := f.e.resolve(t, stateDisplayBalance)
		if err != nil {
			return f.e.configError(t, s.State, err.Error())
		}
		f.e.enter(ctx, t, next)
		return f.e.present(t, next, fmt.Sprintf(msgBalance, account, balance))
	}

	found := msgNoAccountFound
	if res.Found {
		found = res.AccountNumber
	}
	next, err := f.e.resolve(t, stateAccountComparison)
	if err != nil {
		return f.e.configError(t, s.State, err.Error())
	}
	f.e.enter(ctx, t, next)
	return f.e.respond(t, domain.Reply{
		Message: fmt.Sprintf(msgContactMismatch, contact, account, found, account),
		Kind:    domain.ReplyMenu,
		Options: mismatchOptions(),
		Status:  domain.StatusOK,
	})
}

func (f *billFlow) comparison(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	switch t.message {
	case optTryAgain:
		return f.e.goTo(ctx, t, stateContactVerify, "")
	case optExit:
		t.s.ClearScratch(billScratch...)
		return f.e.goTo(ctx, t, stateBillRoot, "")
	}
	return f.e.respond(t, domain.Reply{
		Message: msgInvalidOption,
		Kind:    domain.ReplyMenu,
		Options: mismatchOptions(),
		Status:  domain.StatusOK,
	})
}

// flowMenu handles a menu inside a flow. Leaving the flow or returning to its
// root menu clears the flow's scratch.
func (e *Engine) flowMenu(ctx context.Context, t *turn, node domain.Node, root string, scratch []string) domain.Reply {
	if node.Kind != domain.KindMenu {
		return e.dispatch(ctx, t, node)
	}
	if !node.HasOption(t.message) {
		return e.respond(t, domain.Reply{
			Message: msgInvalidOption,
			Kind:    domain.ReplyMenu,
			Options: node.Options,
			Status:  domain.StatusOK,
		})
	}
	next, ok := node.Transitions[t.message]
	if !ok {
		return e.configError(t, node.Key, "option "+t.message+" has no transition")
	}
	if next == root || categoryOf(next) != categoryOf(root) {
		t.s.ClearScratch(scratch...)
	}
	return e.goTo(ctx, t, next, "")
}

// restartFlow sends the session back to a flow root after its scratch was
// lost.
func (e *Engine) restartFlow(ctx context.Context, t *turn, root string) domain.Reply {
	node, err := e.resolve(t, root)
	if err != nil {
		return e.configError(t, t.s.State, err.Error())
	}
	e.enter(ctx, t, node)
	return e.present(t, node, msgVerificationLost)
}

func categoryOf(state string) string {
	switch {
	case isBillState(state):
		return stateBillRoot
	case isSolarState(state):
		return stateSolarRoot
	case isFaultState(state):
		return stateFaultRoot
	}
	return ""
}

func (e *Engine) lookupAccount(ctx context.Context, sessionID, number string) ports.AccountResult {
	if e.verifier == nil {
		return ports.AccountResult{}
	}
	started := time.Now()
	res := e.verifier.LookupAccount(ctx, number)
	e.observe(ctx, sessionID, "verification", started, false)
	return res
}

func (e *Engine) lookupContact(ctx context.Context, sessionID, number string) ports.ContactResult {
	if e.verifier == nil {
		return ports.ContactResult{}
	}
	started := time.Now()
	res := e.verifier.LookupContact(ctx, number)
	e.observe(ctx, sessionID, "verification", started, false)
	return res
}
