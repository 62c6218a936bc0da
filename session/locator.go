package session

import (
	"fmt"
	"strings"
)

// Strategy is the way a Locator identifies elements.
type Strategy string

const (
	StrategyID    Strategy = "id"
	StrategyClass Strategy = "class"
	StrategyCSS   Strategy = "css"
	StrategyXPath Strategy = "xpath"
)

// Locator is an opaque descriptor resolving to zero or more elements of the page.
// It is not validated against the application; a mismatch only shows up as a lookup failure.
type Locator struct {
	Strategy Strategy
	Value    string
}

// ID locates elements by their id attribute.
func ID(id string) Locator { return Locator{Strategy: StrategyID, Value: id} }

// Class locates elements carrying a single class name.
func Class(name string) Locator { return Locator{Strategy: StrategyClass, Value: name} }

// CSS locates elements by a CSS selector.
func CSS(selector string) Locator { return Locator{Strategy: StrategyCSS, Value: selector} }

// XPath locates elements by an XPath expression.
func XPath(expr string) Locator { return Locator{Strategy: StrategyXPath, Value: expr} }

// Selector renders the locator as a Playwright selector.
// Ids and class names are matched by attribute so storefront ids containing
// dots or parentheses need no escaping.
func (l Locator) Selector() string {
	switch l.Strategy {
	case StrategyID:
		return fmt.Sprintf(`[id=%s]`, quoteAttr(l.Value))
	case StrategyClass:
		return fmt.Sprintf(`[class~=%s]`, quoteAttr(l.Value))
	case StrategyXPath:
		return "xpath=" + l.Value
	default:
		return "css=" + l.Value
	}
}

func (l Locator) String() string {
	if l.Strategy == "" {
		return "css=" + l.Value
	}
	return string(l.Strategy) + "=" + l.Value
}

func quoteAttr(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}
