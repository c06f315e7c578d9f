package verification

import (
	"context"

	"github.com/gridline-labs/gridline/pkg/ports"
)

// Static answers lookups from fixed tables. Used by the local chat mode and
// tests when no backend is configured.
type Static struct {
	Balances map[string]float64
	Contacts map[string]string
}

var _ ports.VerificationClient = (*Static)(nil)

// LookupAccount reports an account as valid when it has a balance entry.
func (s *Static) LookupAccount(_ context.Context, number string) ports.AccountResult {
	balance, ok := s.Balances[number]
	if !ok {
		return ports.AccountResult{}
	}
	return ports.AccountResult{Valid: true, Balance: balance}
}

// LookupContact returns the account mapped to the contact number.
func (s *Static) LookupContact(_ context.Context, number string) ports.ContactResult {
	account, ok := s.Contacts[number]
	if !ok {
		return ports.ContactResult{}
	}
	return ports.ContactResult{AccountNumber: account, Found: true}
}
