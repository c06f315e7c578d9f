package runtime

import (
	"context"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// menu follows the transition for an exact option match. Anything else
// re-presents the node's options behind notice, without moving the session.
func (e *Engine) menu(ctx context.Context, t *turn, node domain.Node, notice string) domain.Reply {
	if !node.HasOption(t.message) {
		return e.respond(t, domain.Reply{
			Message: notice,
			Kind:    domain.ReplyMenu,
			Options: node.Options,
			Status:  domain.StatusOK,
		})
	}
	next, ok := node.Transitions[t.message]
	if !ok {
		return e.configError(t, node.Key, "option "+t.message+" has no transition")
	}
	return e.goTo(ctx, t, next, "")
}

// form re-presents a form node that no flow owns.
func (e *Engine) form(_ context.Context, t *turn, node domain.Node) domain.Reply {
	return e.respond(t, domain.NodeReply(node))
}

// invalid answers a rejected field value with the field's prompt kept open.
func (e *Engine) invalid(t *turn, message string, fields ...string) domain.Reply {
	return e.respond(t, domain.Reply{
		Message: message,
		Kind:    domain.ReplyForm,
		Fields:  fields,
		Status:  domain.StatusOK,
	})
}

// present replies with node under a custom message without changing state.
func (e *Engine) present(t *turn, node domain.Node, message string) domain.Reply {
	reply := domain.NodeReply(node)
	reply.Message = message
	return e.respond(t, reply)
}
