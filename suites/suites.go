// Package suites contains the ordered regression journeys through the storefront.
//
// Step IDs are unique across all suites: the three core journeys use 1 to 42,
// supplementary journeys start at 101 and 201. Every journey starts on the login
// page of a fresh session.
package suites

import (
	"strings"

	"github.com/samber/lo"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

// Credentials are the login of the user the journeys run as.
type Credentials struct {
	Username string
	Password string
}

// DefaultCredentials returns the standard demo user.
func DefaultCredentials() Credentials {
	return Credentials{Username: actions.StandardUser, Password: actions.Password}
}

// Customer is the data entered during checkout.
var Customer = actions.CheckoutInfo{
	FirstName:  "Akash",
	LastName:   "Gaikar",
	PostalCode: "400606",
}

// Products referenced by the journeys.
const (
	Backpack  = "sauce-labs-backpack"
	BikeLight = "sauce-labs-bike-light"
)

// All returns every suite in the order they are usually run.
func All(c Credentials) []journey.Suite {
	return []journey.Suite{
		LoginAndCart(c),
		CheckoutFlow(c),
		UIAndNegative(c),
		CartCount(c),
		NegativeLogin(c),
	}
}

// Names returns the names of all suites.
func Names() []string {
	return lo.Map(All(DefaultCredentials()), func(s journey.Suite, _ int) string { return s.Name })
}

// ByName looks up a suite by name, ignoring case.
func ByName(c Credentials, name string) (journey.Suite, bool) {
	return lo.Find(All(c), func(s journey.Suite) bool { return strings.EqualFold(s.Name, name) })
}

// login performs the login and fails the step on any error.
func login(t *journey.T, s *session.Session, c Credentials) {
	t.Check(actions.Login(s, c.Username, c.Password))
}

func step(id int, name string, run func(t *journey.T, s *session.Session)) journey.Step {
	return journey.Step{ID: id, Name: name, Run: run}
}
