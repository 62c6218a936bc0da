// Package actions contains reusable interactions with the Swag Labs storefront.
// Every helper takes the session explicitly and returns an error instead of
// failing a step itself.
package actions

import (
	"fmt"
	"log/slog"

	"github.com/networkteam/saucecheck/session"
)

// Credentials of the storefront demo users.
const (
	StandardUser  = "standard_user"
	LockedOutUser = "locked_out_user"
	Password      = "secret_sauce"
)

// Error messages shown by the storefront.
const (
	MsgCredentialsMismatch = "Epic sadface: Username and password do not match any user in this service"
	MsgLockedOut           = "Epic sadface: Sorry, this user has been locked out."
	MsgUsernameRequired    = "Epic sadface: Username is required"
	MsgPasswordRequired    = "Epic sadface: Password is required"
	MsgFirstNameRequired   = "Error: First Name is required"
	MsgLastNameRequired    = "Error: Last Name is required"
	MsgPostalCodeRequired  = "Error: Postal Code is required"
)

// Storefront element locators.
var (
	UsernameInput   = session.ID("user-name")
	PasswordInput   = session.ID("password")
	LoginButton     = session.ID("login-button")
	ErrorMessageBox = session.CSS("[data-test='error']")

	MenuButton      = session.ID("react-burger-menu-btn")
	MenuCloseButton = session.ID("react-burger-cross-btn")
	MenuPanel       = session.Class("bm-menu")
	LogoutLink      = session.ID("logout_sidebar_link")
	ResetAppLink    = session.ID("reset_sidebar_link")

	Popup            = session.ID("password-change-popup")
	PopupCloseButton = session.CSS("#password-change-popup .close-button")
)

// Login clears and fills the credential fields, submits the form and dismisses
// the optional popup.
func Login(s *session.Session, username, password string) error {
	s.Logger().Info("Performing login", slog.String("username", username))

	if err := fill(s, UsernameInput, username); err != nil {
		return err
	}
	if err := fill(s, PasswordInput, password); err != nil {
		return err
	}
	if err := s.Locate(LoginButton).Click(); err != nil {
		return fmt.Errorf("clicking %s: %w", LoginButton, err)
	}

	return HandlePopupIfPresent(s)
}

// HandlePopupIfPresent dismisses the optional popup shown after login. The popup does
// not appear deterministically, so not finding it within the popup timeout is the
// normal path. Every other failure is returned.
func HandlePopupIfPresent(s *session.Session) error {
	popup, err := s.WaitWithin(s.Options().PopupTimeout).Visible(Popup)
	if session.IsLookupTimeout(err) {
		s.Logger().Debug("No popup detected")
		return nil
	}
	if err != nil {
		return err
	}

	visible, err := popup.IsVisible()
	if err != nil {
		return fmt.Errorf("checking popup visibility: %w", err)
	}
	if !visible {
		return nil
	}

	s.Logger().Info("Popup detected, closing it")
	if err := s.Locate(PopupCloseButton).Click(); err != nil {
		return fmt.Errorf("closing popup: %w", err)
	}
	return s.Wait().Hidden(Popup)
}

// Logout opens the side menu and selects logout. The session ends on the login page.
func Logout(s *session.Session) error {
	s.Logger().Info("Performing logout")

	if err := OpenMenu(s); err != nil {
		return err
	}
	if _, err := s.Wait().Clickable(LogoutLink); err != nil {
		return err
	}
	if err := JSClick(s, LogoutLink); err != nil {
		return err
	}
	_, err := s.Wait().Visible(LoginButton)
	return err
}

// WaitLoggedOut waits until no authenticated content is left on the page:
// no product list, no cart link and no menu.
func WaitLoggedOut(s *session.Session) error {
	for _, l := range []session.Locator{InventoryList, CartLink, MenuButton} {
		if err := s.Wait().Count(l, 0); err != nil {
			return err
		}
	}
	return nil
}

// OpenMenu opens the side menu and waits for its slide-in animation to finish.
func OpenMenu(s *session.Session) error {
	if _, err := s.Wait().Clickable(MenuButton); err != nil {
		return err
	}
	if err := JSClick(s, MenuButton); err != nil {
		return err
	}
	_, err := s.Wait().Visible(MenuPanel)
	return err
}

// CloseMenu closes the side menu and waits until it is hidden.
func CloseMenu(s *session.Session) error {
	if _, err := s.Wait().Clickable(MenuCloseButton); err != nil {
		return err
	}
	if err := JSClick(s, MenuCloseButton); err != nil {
		return err
	}
	return s.Wait().Hidden(MenuPanel)
}

// ResetAppState uses the side menu to empty the cart.
func ResetAppState(s *session.Session) error {
	if err := OpenMenu(s); err != nil {
		return err
	}
	if err := JSClick(s, ResetAppLink); err != nil {
		return err
	}
	return CloseMenu(s)
}

// JSClick clicks through script injection. It is an escape hatch for elements a
// regular click cannot reach because an overlay or animation is in the way.
func JSClick(s *session.Session, l session.Locator) error {
	if _, err := s.Locate(l).First().Evaluate("el => el.click()", nil); err != nil {
		return fmt.Errorf("script click on %s: %w", l, err)
	}
	return nil
}

// ErrorMessage returns the text of the visible error message.
func ErrorMessage(s *session.Session) (string, error) {
	loc, err := s.Wait().Visible(ErrorMessageBox)
	if err != nil {
		return "", err
	}
	text, err := loc.InnerText()
	if err != nil {
		return "", fmt.Errorf("reading error message: %w", err)
	}
	return text, nil
}

func fill(s *session.Session, l session.Locator, value string) error {
	loc := s.Locate(l)
	if err := loc.Clear(); err != nil {
		return fmt.Errorf("clearing %s: %w", l, err)
	}
	if err := loc.Fill(value); err != nil {
		return fmt.Errorf("filling %s: %w", l, err)
	}
	return nil
}
