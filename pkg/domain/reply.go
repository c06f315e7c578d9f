package domain

import "slices"

// ReplyKind tells the client how to render a reply.
type ReplyKind string

const (
	ReplyMenu           ReplyKind = "menu"
	ReplyForm           ReplyKind = "form"
	ReplyMessage        ReplyKind = "message"
	ReplyClassification ReplyKind = "classification"
	ReplyEnd            ReplyKind = "end"
	ReplyError          ReplyKind = "error"
	ReplyTimeout        ReplyKind = "timeout"
)

// ReplyKindFor maps a node kind onto the reply kind that presents it.
func ReplyKindFor(k Kind) ReplyKind {
	switch k {
	case KindMenu:
		return ReplyMenu
	case KindForm:
		return ReplyForm
	case KindMessage:
		return ReplyMessage
	case KindClassification:
		return ReplyClassification
	case KindEnd:
		return ReplyEnd
	}
	return ReplyError
}

// Status is a transport-neutral outcome hint.
type Status string

const (
	StatusOK          Status = "ok"
	StatusClientError Status = "clientError"
	StatusServerError Status = "serverError"
	StatusTimeout     Status = "timeout"
)

// Reply is the engine's answer to one message.
type Reply struct {
	Message string    `json:"message"`
	Kind    ReplyKind `json:"type"`
	Options []string  `json:"options,omitempty"`
	Fields  []string  `json:"fields,omitempty"`
	Status  Status    `json:"-"`
}

// NodeReply presents n as-is.
func NodeReply(n Node) Reply {
	return Reply{
		Message: n.Message,
		Kind:    ReplyKindFor(n.Kind),
		Options: slices.Clone(n.Options),
		Fields:  slices.Clone(n.Fields),
		Status:  StatusOK,
	}
}

// ErrorReply is a retryable failure presented to the user.
func ErrorReply(message string) Reply {
	return Reply{Message: message, Kind: ReplyError, Status: StatusServerError}
}
