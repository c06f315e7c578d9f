package runtime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline-labs/gridline/pkg/domain"
)

func TestBill_AccountVerified(t *testing.T) {
	h := newHarness(t)
	h.seed("verification", nil)

	reply := h.send("1234567890")

	s := h.session()
	assert.Equal(t, "contact_verification", s.State)
	assert.Equal(t, "1234567890", s.ScratchString(domain.ScratchAccount))
	balance, ok := s.ScratchFloat(domain.ScratchBalance)
	require.True(t, ok)
	assert.InDelta(t, 542.10, balance, 0.001)
	assert.Equal(t, domain.ReplyForm, reply.Kind)
	assert.Equal(t, []string{"contact_number"}, reply.Fields)
}

func TestBill_AccountRejected(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"too short", "12345", "Please enter a valid 10-digit account number."},
		{"letters", "12345abcde", "Please enter a valid 10-digit account number."},
		{"unknown account", "5555555555", "Invalid account number. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seed("verification", nil)

			reply := h.send(tt.input)

			assert.Equal(t, tt.message, reply.Message)
			assert.Equal(t, domain.ReplyForm, reply.Kind)
			assert.Equal(t, []string{"account_number"}, reply.Fields)
			assert.Equal(t, "verification", h.session().State)
		})
	}
}

func TestBill_UnknownAccountClearsStaleScratch(t *testing.T) {
	h := newHarness(t)
	h.seed("verification", map[string]any{
		domain.ScratchAccount: "1234567890",
		domain.ScratchBalance: 10.0,
	})

	h.send("5555555555")

	s := h.session()
	assert.NotContains(t, s.Scratch, domain.ScratchAccount)
	assert.NotContains(t, s.Scratch, domain.ScratchBalance)
}

func TestBill_ContactMatchShowsBalance(t *testing.T) {
	h := newHarness(t)
	h.seed("contact_verification", map[string]any{
		domain.ScratchAccount: "1234567890",
		domain.ScratchBalance: 542.10,
	})

	reply := h.send("0714445598")

	assert.Equal(t, "display_balance", h.session().State)
	assert.Equal(t, "Account Balance Information\n\n• Account Number: 1234567890\n• Current Balance: Rs. 542.10", reply.Message)
	assert.Equal(t, domain.ReplyMenu, reply.Kind)
	assert.Equal(t, h.node("display_balance").Options, reply.Options)
}

func TestBill_ContactMismatch(t *testing.T) {
	tests := []struct {
		name    string
		contact string
		found   string
	}{
		{"other account", "0771112223", "• Found Account: 9999999999"},
		{"no account", "0700000000", "• Found Account: No account found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seed("contact_verification", map[string]any{domain.ScratchAccount: "1234567890"})

			reply := h.send(tt.contact)

			assert.Equal(t, "account_comparison", h.session().State)
			assert.Equal(t, []string{"Try Again", "Exit"}, reply.Options)
			assert.Equal(t, domain.ReplyMenu, reply.Kind)
			assert.Contains(t, reply.Message, "• Contact Number: "+tt.contact)
			assert.Contains(t, reply.Message, "• Your Account: 1234567890")
			assert.Contains(t, reply.Message, tt.found)
		})
	}
}

func TestBill_ContactFormat(t *testing.T) {
	h := newHarness(t)
	h.seed("contact_verification", map[string]any{domain.ScratchAccount: "1234567890"})

	reply := h.send("071-444")

	assert.Equal(t, "Invalid contact number format. Please enter a 10-digit number (e.g., 0714445598)", reply.Message)
	s := h.session()
	assert.Equal(t, "contact_verification", s.State)
	assert.Equal(t, "1234567890", s.ScratchString(domain.ScratchAccount))
}

func TestBill_ContactWithoutAccountRestarts(t *testing.T) {
	h := newHarness(t)
	h.seed("contact_verification", nil)

	reply := h.send("0714445598")

	assert.Equal(t, "Session expired. Please start over.", reply.Message)
	assert.Equal(t, h.node("bill_inquiries").Options, reply.Options)
	assert.Equal(t, "bill_inquiries", h.session().State)
}

func TestBill_Comparison(t *testing.T) {
	scratch := map[string]any{domain.ScratchAccount: "1234567890", domain.ScratchBalance: 542.10}

	t.Run("Try Again", func(t *testing.T) {
		h := newHarness(t)
		h.seed("account_comparison", scratch)

		h.send("Try Again")

		s := h.session()
		assert.Equal(t, "contact_verification", s.State)
		assert.Equal(t, "1234567890", s.ScratchString(domain.ScratchAccount))
	})

	t.Run("Exit", func(t *testing.T) {
		h := newHarness(t)
		h.seed("account_comparison", scratch)

		h.send("Exit")

		s := h.session()
		assert.Equal(t, "bill_inquiries", s.State)
		assert.Empty(t, s.Scratch)
	})

	t.Run("anything else", func(t *testing.T) {
		h := newHarness(t)
		h.seed("account_comparison", scratch)

		reply := h.send("exit")

		assert.Equal(t, []string{"Try Again", "Exit"}, reply.Options)
		assert.Equal(t, "account_comparison", h.session().State)
	})
}

func TestBill_LeavingFlowClearsScratch(t *testing.T) {
	h := newHarness(t)
	h.seed("display_balance", map[string]any{domain.ScratchAccount: "1234567890", domain.ScratchBalance: 542.10})

	h.send("Main Menu")

	s := h.session()
	assert.Equal(t, "english_menu", s.State)
	assert.Empty(t, s.Scratch)
}

func TestSolar_ContactVerification(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h := newHarness(t)
		h.seed("solar_service_contact_verification", nil)

		reply := h.send("0714445598")

		assert.Equal(t, "solar_service_verified", h.session().State)
		assert.Equal(t, "Contact Number Verified Successfully\n\n• Contact Number: 0714445598\n• Associated Account: 1234567890", reply.Message)
		assert.Equal(t, h.node("solar_service_verified").Options, reply.Options)
	})

	t.Run("not found", func(t *testing.T) {
		h := newHarness(t)
		h.seed("solar_service_contact_verification", nil)

		reply := h.send("0700000000")

		assert.Equal(t, "solar_service_comparison", h.session().State)
		assert.Contains(t, reply.Message, "• No associated account found.")
		assert.Equal(t, []string{"Try Again", "Exit"}, reply.Options)

		h.send("Exit")
		assert.Equal(t, "solar_service", h.session().State)
	})
}

func TestSolar_AccountStep(t *testing.T) {
	h := newHarness(t)
	h.seed("solar_service_verification", nil)

	reply := h.send("12")
	assert.Equal(t, "Please enter a valid 10-digit account number.", reply.Message)
	assert.Equal(t, "solar_service_verification", h.session().State)

	h.send("1234567890")
	assert.Equal(t, "solar_service_contact_verification", h.session().State)
}

func TestSolar_AccountStepSkipsLookup(t *testing.T) {
	h := newHarness(t)
	h.seed("solar_service_verification", nil)
	_, known := h.verifier.Balances["5555555555"]
	require.False(t, known)

	h.send("5555555555")

	s := h.session()
	assert.Equal(t, "solar_service_contact_verification", s.State, "an unknown account is accepted on shape alone")
	assert.Equal(t, "5555555555", s.ScratchString(domain.ScratchAccount))
	assert.Zero(t, s.MistakeCount)

	// The contact lookup decides which account the customer is shown.
	reply := h.send("0714445598")
	assert.Equal(t, "solar_service_verified", h.session().State)
	assert.Equal(t, "1234567890", h.session().ScratchString(domain.ScratchAccount))
	assert.Contains(t, reply.Message, "1234567890")
}

func TestSolar_AdvisorAnswersVerbatim(t *testing.T) {
	h := newHarness(t)
	h.seed("solar_details", nil)
	h.advisor.answer = "Net metering credits surplus export."
	h.advisor.next = "tok-2"

	reply := h.send("How does net metering work?")

	assert.Equal(t, "Net metering credits surplus export.", reply.Message)
	assert.Equal(t, domain.ReplyMessage, reply.Kind)
	assert.Equal(t, []string{"Back to Solar Services"}, reply.Options)
	assert.Equal(t, []string{"tok-1"}, h.advisor.gotTokens)
	s := h.session()
	assert.Equal(t, "solar_details", s.State)
	assert.Equal(t, "tok-2", s.ScratchString(domain.ScratchAdvisorSession))

	h.send("And batteries?")
	assert.Equal(t, []string{"tok-1", "tok-2"}, h.advisor.gotTokens)
}

func TestSolar_AdvisorFailure(t *testing.T) {
	h := newHarness(t)
	h.seed("solar_details", nil)
	h.advisor.err = errors.New("timeout")

	reply := h.send("question")

	assert.Equal(t, "I'm sorry, I couldn't get an answer right now. Please try again.", reply.Message)
	assert.Equal(t, "solar_details", h.session().State)
}

func TestSolar_DetailsBackOption(t *testing.T) {
	h := newHarness(t)
	h.seed("solar_details", map[string]any{domain.ScratchAdvisorSession: "tok-9"})

	h.send("Back to Solar Services")

	s := h.session()
	assert.Equal(t, "solar_service", s.State)
	assert.Empty(t, s.ScratchString(domain.ScratchAdvisorSession))
	assert.Empty(t, h.advisor.gotTokens)
}

func TestFault_FaultTypeKeywordMatch(t *testing.T) {
	h := newHarness(t)
	h.seed("awaiting_fault_type", map[string]any{
		domain.ScratchDistrict:       "Colombo",
		domain.ScratchTown:           "Dehiwala",
		domain.ScratchIdentifier:     "1234567890",
		domain.ScratchIdentifierType: "Account Number",
	})

	reply := h.send("no power at home")

	s := h.session()
	assert.Equal(t, "confirm_details", s.State)
	assert.Equal(t, "power failure", s.ScratchString(domain.ScratchFaultType))
	assert.Equal(t, domain.ReplyMessage, reply.Kind)
	assert.Equal(t, "Please confirm these details:\n• District: Colombo\n• Town: Dehiwala\n• Account Number: 1234567890\n• Fault Type: power failure\n\nReply 'yes' to confirm or 'no' to correct.", reply.Message)
}

func TestFault_FaultTypeNeedsWholeWords(t *testing.T) {
	h := newHarness(t)
	h.seed("awaiting_fault_type", map[string]any{
		domain.ScratchDistrict:       "Colombo",
		domain.ScratchTown:           "Dehiwala",
		domain.ScratchIdentifier:     "1234567890",
		domain.ScratchIdentifierType: "Account Number",
	})

	reply := h.send("I already paid online, nothing wrong")

	s := h.session()
	assert.Equal(t, "awaiting_fault_type", s.State)
	assert.Empty(t, s.ScratchString(domain.ScratchFaultType))
	assert.Equal(t, "Please select a valid fault type.", reply.Message)

	h.send("the line is down")
	s = h.session()
	assert.Equal(t, "confirm_details", s.State)
	assert.Equal(t, "broken line", s.ScratchString(domain.ScratchFaultType))
}

func TestFault_FullReport(t *testing.T) {
	h := newHarness(t)
	h.seed("fault_reporting", nil)

	h.send("Report a Fault")
	require.Equal(t, "awaiting_district", h.session().State)

	reply := h.send("Atlantis")
	assert.Equal(t, "Please enter a valid district name.", reply.Message)

	h.send("I live in kandy")
	require.Equal(t, "awaiting_town", h.session().State)
	assert.Equal(t, "Kandy", h.session().ScratchString(domain.ScratchDistrict))

	reply = h.send("Nowhere")
	assert.Equal(t, "Please enter a town in Kandy.", reply.Message)

	h.send("near negombo")
	require.Equal(t, "awaiting_identifier", h.session().State)

	reply = h.send("123")
	assert.Equal(t, "Please enter a valid 10-digit account/contact number.", reply.Message)

	h.send("my number is 071 444 5598")
	s := h.session()
	require.Equal(t, "awaiting_fault_type", s.State)
	assert.Equal(t, "0714445598", s.ScratchString(domain.ScratchIdentifier))
	assert.Equal(t, "Contact Number", s.ScratchString(domain.ScratchIdentifierType))

	reply = h.send("something odd")
	assert.Equal(t, "Please select a valid fault type.", reply.Message)
	assert.Equal(t, h.node("awaiting_fault_type").Options, reply.Options)

	reply = h.send("2")
	require.Equal(t, "confirm_details", h.session().State)
	assert.Contains(t, reply.Message, "• Contact Number: 0714445598")
	assert.Contains(t, reply.Message, "• Fault Type: voltage issue")

	reply = h.send("maybe")
	assert.Equal(t, "Please reply 'yes' to confirm or 'no' to correct.", reply.Message)

	reply = h.send("YES")
	s = h.session()
	assert.Equal(t, "fault_submitted", s.State)
	assert.Empty(t, s.Scratch)
	assert.Equal(t, "Your fault report has been submitted.\nReference Number: FR2603145598\n\n"+h.node("fault_submitted").Message, reply.Message)
	assert.Equal(t, h.node("fault_submitted").Options, reply.Options)
}

func TestFault_ConfirmNoRestarts(t *testing.T) {
	h := newHarness(t)
	h.seed("confirm_details", map[string]any{
		domain.ScratchDistrict:   "Galle",
		domain.ScratchTown:       "Galle",
		domain.ScratchIdentifier: "1234567890",
		domain.ScratchFaultType:  "broken line",
	})

	h.send("no")

	s := h.session()
	assert.Equal(t, "awaiting_district", s.State)
	assert.Empty(t, s.Scratch)
}

func TestFault_FaultTypeWithoutDetailsRestarts(t *testing.T) {
	h := newHarness(t)
	h.seed("awaiting_fault_type", nil)

	h.send("1")

	assert.Equal(t, "awaiting_district", h.session().State)
}
