package page

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Strategy names the lookup mechanism for an element.
type Strategy string

const (
	ByID        Strategy = "id"
	ByName      Strategy = "name"
	ByClassName Strategy = "class"
	ByCSS       Strategy = "css"
	ByXPath     Strategy = "xpath"
	ByText      Strategy = "text"
)

// Locator identifies one UI element as a strategy plus a value. Page
// objects declare their locators as package-level values.
type Locator struct {
	Strategy Strategy
	Value    string
}

// Constructors for the common strategies.
func ID(value string) Locator        { return Locator{Strategy: ByID, Value: value} }
func Name(value string) Locator      { return Locator{Strategy: ByName, Value: value} }
func ClassName(value string) Locator { return Locator{Strategy: ByClassName, Value: value} }
func CSS(value string) Locator       { return Locator{Strategy: ByCSS, Value: value} }
func XPath(value string) Locator     { return Locator{Strategy: ByXPath, Value: value} }
func Text(value string) Locator      { return Locator{Strategy: ByText, Value: value} }

// Selector renders the locator as a Playwright selector string.
func (l Locator) Selector() string {
	switch l.Strategy {
	case ByID:
		return fmt.Sprintf("[id=%q]", l.Value)
	case ByName:
		return fmt.Sprintf("[name=%q]", l.Value)
	case ByClassName:
		return "." + l.Value
	case ByXPath:
		return "xpath=" + l.Value
	case ByText:
		return "text=" + l.Value
	default:
		return l.Value
	}
}

// cssSelector returns the locator as a plain CSS selector for script-based
// operations, or false for strategies CSS cannot express.
func (l Locator) cssSelector() (string, bool) {
	switch l.Strategy {
	case ByXPath, ByText:
		return "", false
	default:
		return l.Selector(), true
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

// slug renders the locator as a filesystem-safe fragment for screenshot
// names: a sanitized prefix plus a hash so distinct locators never collide.
func (l Locator) slug() string {
	h := fnv.New32a()
	h.Write([]byte(l.String()))

	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, l.Value)
	if len(clean) > 40 {
		clean = clean[:40]
	}
	return fmt.Sprintf("%s_%08x", clean, h.Sum32())
}
