package shell

import (
	"strings"

	"ledger/internal/domain"
)

const menuText = `

================ MENU ================
[d]	Deposit
[w]	Withdraw
[s]	Statement
[na]	New account
[la]	List accounts
[nu]	New user
[q]	Quit
=> `

const (
	statementHeader = "\n================ STATEMENT ================"
	statementFooter = "=========================================="
)

var accountRule = strings.Repeat("=", 100)

const (
	msgDepositOK        = "Deposit successful!"
	msgWithdrawalOK     = "Withdrawal successful!"
	msgUserCreated      = "User created successfully!"
	msgUserExists       = "A user with this SSN already exists!"
	msgUserFieldsNeeded = "Operation failed! All user fields are required."
	msgAccountCreated   = "Account created successfully!"
	msgUserNotFound     = "User not found, account creation process terminated!"
	msgNoAccounts       = "No accounts available. Please create an account first."
	msgAccountNotFound  = "Account not found!"
	msgInvalidAmount    = "Operation failed! The entered value is invalid."
	msgUnexpected       = "Operation failed! Please try again."
	msgInputTooLong     = "Operation failed! The entered line is too long."
	msgInvalidOption    = "Invalid operation, please select the desired operation again."
	msgFarewell         = "Thank you for using our services. Have a nice day!"
)

const (
	promptAccountNumber = "Enter the account number (blank for latest): "
	promptDeposit       = "Enter the deposit amount: "
	promptWithdrawal    = "Enter the withdrawal amount: "
	promptSSN           = "Enter the SSN (xxx-xx-xxxx): "
	promptUserSSN       = "Enter the user's SSN (xxx-xx-xxxx): "
	promptName          = "Enter the full name: "
	promptBirthDate     = "Enter the birth date (mm-dd-yyyy): "
	promptAddress       = "Enter the address (street, number - neighborhood - city/state abbreviation): "
)

func rejectionMessage(reason domain.Reason) string {
	switch reason {
	case domain.ReasonInsufficientFunds:
		return "Operation failed! You don't have enough balance."
	case domain.ReasonLimitExceeded:
		return "Operation failed! The withdrawal amount exceeds the limit."
	case domain.ReasonWithdrawalCountExceeded:
		return "Operation failed! Maximum number of withdrawals exceeded."
	case domain.ReasonInvalidAmount:
		return msgInvalidAmount
	default:
		return msgUnexpected
	}
}

func successMessage(t domain.TransactionType) string {
	if t == domain.TypeWithdrawal {
		return msgWithdrawalOK
	}
	return msgDepositOK
}
