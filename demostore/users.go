package demostore

import "fmt"

// Password is the password of every demo user.
const Password = "secret_sauce"

// Demo users.
const (
	StandardUser          = "standard_user"
	LockedOutUser         = "locked_out_user"
	ProblemUser           = "problem_user"
	PerformanceGlitchUser = "performance_glitch_user"
)

var users = map[string]bool{
	StandardUser:          true,
	LockedOutUser:         true,
	ProblemUser:           true,
	PerformanceGlitchUser: true,
}

const (
	msgUsernameRequired   = "Epic sadface: Username is required"
	msgPasswordRequired   = "Epic sadface: Password is required"
	msgCredentialMismatch = "Epic sadface: Username and password do not match any user in this service"
	msgLockedOut          = "Epic sadface: Sorry, this user has been locked out."
	msgFirstNameRequired  = "Error: First Name is required"
	msgLastNameRequired   = "Error: Last Name is required"
	msgPostalCodeRequired = "Error: Postal Code is required"
)

func msgLoginRequired(path string) string {
	return fmt.Sprintf("Epic sadface: You can only access '%s' when you are logged in.", path)
}

// authenticate returns the error message for a login attempt, or "" when it succeeds.
func authenticate(username, password string) string {
	switch {
	case username == "":
		return msgUsernameRequired
	case password == "":
		return msgPasswordRequired
	case !users[username] || password != Password:
		return msgCredentialMismatch
	case username == LockedOutUser:
		return msgLockedOut
	}
	return ""
}

// CheckoutInfo is the data of the checkout information form.
type CheckoutInfo struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// validate returns the message for the first missing field, or "".
func (i CheckoutInfo) validate() string {
	switch {
	case i.FirstName == "":
		return msgFirstNameRequired
	case i.LastName == "":
		return msgLastNameRequired
	case i.PostalCode == "":
		return msgPostalCodeRequired
	}
	return ""
}
