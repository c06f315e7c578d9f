package ports

import "context"

// AccountResult is the outcome of an account-number lookup.
type AccountResult struct {
	Valid   bool
	Balance float64
}

// ContactResult is the outcome of a contact-number lookup.
type ContactResult struct {
	AccountNumber string
	Found         bool
}

// VerificationClient looks up accounts in the utility's billing backend.
// Network and format failures collapse to an invalid / not found result;
// implementations never return errors to the engine.
type VerificationClient interface {
	LookupAccount(ctx context.Context, number string) AccountResult
	LookupContact(ctx context.Context, number string) ContactResult
}

// IntentClassifier maps free text to a (possibly empty) set of category labels.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) ([]string, error)
}

// Advisor answers free-form questions in a conversation identified by token.
// The returned token replaces the one sent.
type Advisor interface {
	Ask(ctx context.Context, question, token string) (answer string, next string, err error)
}
