package runtime

import (
	"strings"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
)

// Bill inquiry states.
const (
	stateBillRoot          = "bill_inquiries"
	stateVerification      = "verification"
	stateContactVerify     = "contact_verification"
	stateDisplayBalance    = "display_balance"
	stateAccountComparison = "account_comparison"
)

// Solar service states.
const (
	stateSolarRoot          = "solar_service"
	stateSolarVerification  = "solar_service_verification"
	stateSolarContactVerify = "solar_service_contact_verification"
	stateSolarVerified      = "solar_service_verified"
	stateSolarComparison    = "solar_service_comparison"
	stateSolarDetails       = "solar_details"
)

// Fault reporting states.
const (
	stateFaultRoot      = "fault_reporting"
	stateAwaitDistrict  = "awaiting_district"
	stateAwaitTown      = "awaiting_town"
	stateAwaitID        = "awaiting_identifier"
	stateAwaitFaultType = "awaiting_fault_type"
	stateConfirmDetails = "confirm_details"
)

// States kept even when their node cannot be resolved.
var protectedStates = []string{stateVerification, stateContactVerify, stateDisplayBalance}

var (
	billScratch  = []string{domain.ScratchAccount, domain.ScratchBalance}
	solarScratch = []string{domain.ScratchAccount, domain.ScratchAdvisorSession}
	faultScratch = []string{
		domain.ScratchDistrict, domain.ScratchTown, domain.ScratchIdentifier,
		domain.ScratchIdentifierType, domain.ScratchFaultType,
	}
	allScratch = append(append(append([]string{}, billScratch...), solarScratch...), faultScratch...)
)

func isProtected(state string) bool {
	for _, p := range protectedStates {
		if strings.HasPrefix(state, p) {
			return true
		}
	}
	return false
}

func isBillState(state string) bool {
	switch state {
	case stateVerification, stateContactVerify, stateDisplayBalance, stateAccountComparison:
		return true
	}
	return strings.HasPrefix(state, "bill_")
}

func isSolarState(state string) bool {
	return strings.HasPrefix(state, stateSolarRoot) || state == stateSolarDetails
}

func isFaultState(state string) bool {
	return strings.HasPrefix(state, "fault_") ||
		strings.HasPrefix(state, "awaiting_") ||
		state == stateConfirmDetails
}

// logicalKey strips the language suffix so the session always stores the
// language-neutral key.
func logicalKey(key string) string {
	return strings.TrimSuffix(key, graph.SinhalaSuffix)
}

// ImplicitEdges lists the transitions taken by flow handlers rather than by
// node transition tables. Reachability checks add them to the graph's edges.
var ImplicitEdges = map[string][]string{
	"english_start":         {graph.HelpMenu},
	stateVerification:       {stateContactVerify},
	stateContactVerify:      {stateDisplayBalance, stateAccountComparison},
	stateSolarVerification:  {stateSolarContactVerify},
	stateSolarContactVerify: {stateSolarVerified, stateSolarComparison},
	stateAwaitDistrict:      {stateAwaitTown},
	stateAwaitTown:          {stateAwaitID},
	stateAwaitID:            {stateAwaitFaultType},
}
