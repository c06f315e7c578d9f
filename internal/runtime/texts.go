package runtime

// SystemErrorMessage is shown whenever a turn fails for reasons outside the
// user's control.
const SystemErrorMessage = msgSystemError

// User-facing texts produced by the engine itself rather than the graph.
const (
	msgInvalidOption      = "Invalid option. Please select from the menu."
	msgSelectValidOption  = "Please select a valid option"
	msgSystemError        = "System error. Please try again."
	msgExpired            = "Session has expired due to inactivity. Please start a new session."
	msgArchiveFailed      = "Error saving chat history. Please try again."
	msgGreeting           = "Hello! How can I assist you today?"
	msgNotUnderstood      = "Sorry, I couldn't understand that. Please try again."
	msgEscalation         = "I'm having trouble understanding. Let me show you the available options:"
	msgClassifierDown     = "Sorry, I couldn't process your message right now. Please try again."
	msgAdvisorDown        = "I'm sorry, I couldn't get an answer right now. Please try again."
	msgAccountFormat      = "Please enter a valid 10-digit account number."
	msgAccountInvalid     = "Invalid account number. Please try again."
	msgContactFormat      = "Invalid contact number format. Please enter a 10-digit number (e.g., 0714445598)"
	msgVerificationLost   = "Session expired. Please start over."
	msgDistrictInvalid    = "Please enter a valid district name."
	msgTownInvalid        = "Please enter a town in %s."
	msgIdentifierInvalid  = "Please enter a valid 10-digit account/contact number."
	msgFaultTypeInvalid   = "Please select a valid fault type."
	msgConfirmPrompt      = "Please reply 'yes' to confirm or 'no' to correct."
	msgFaultSubmitted     = "Your fault report has been submitted.\nReference Number: %s"
	msgBalance            = "Account Balance Information\n\n• Account Number: %s\n• Current Balance: Rs. %.2f"
	msgContactMismatch    = "Contact Number Verification Failed\n\n• Contact Number: %s\n• Your Account: %s\n• Found Account: %s\n\nError: This contact number is not associated with account %s.\nPlease check and try again with the correct contact number."
	msgNoAccountFound     = "No account found"
	msgSolarVerified      = "Contact Number Verified Successfully\n\n• Contact Number: %s\n• Associated Account: %s"
	msgSolarNotFound      = "Contact Number Verification Failed\n\n• Contact Number: %s\n• No associated account found.\n\nPlease check and try again with the correct contact number."
	msgFaultConfirmation  = "Please confirm these details:\n• District: %s\n• Town: %s\n• %s: %s\n• Fault Type: %s\n\nReply 'yes' to confirm or 'no' to correct."
	msgFaultDetailsMissed = "Some details are missing. Let's start the fault report again."
)

// Options offered after a verification mismatch. Always exactly these two.
const (
	optTryAgain = "Try Again"
	optExit     = "Exit"
)

func mismatchOptions() []string {
	return []string{optTryAgain, optExit}
}

// Form field names.
const (
	fieldAccountNumber = "account_number"
	fieldContactNumber = "contact_number"
	fieldDistrict      = "district"
	fieldTown          = "town"
	fieldIdentifier    = "identifier"
)
