package report

import (
	"strings"

	"github.com/networkteam/saucecheck/journey"
)

type BadgeVariant string

const (
	BadgeVariantSecondary BadgeVariant = "secondary"
	BadgeVariantSuccess   BadgeVariant = "success"
	BadgeVariantWarning   BadgeVariant = "warning"
	BadgeVariantError     BadgeVariant = "error"
	BadgeVariantOutline   BadgeVariant = "outline"
)

type BadgeProps struct {
	Variant BadgeVariant
	Class   string
}

func statusBadge(status journey.Status) BadgeProps {
	switch status {
	case journey.StatusPass:
		return BadgeProps{Variant: BadgeVariantSuccess}
	case journey.StatusFail:
		return BadgeProps{Variant: BadgeVariantError}
	case journey.StatusError:
		return BadgeProps{Variant: BadgeVariantWarning}
	case journey.StatusSkip:
		return BadgeProps{Variant: BadgeVariantSecondary}
	default:
		return BadgeProps{Variant: BadgeVariantOutline}
	}
}

func badgeClasses(props BadgeProps) string {
	classes := []string{"badge"}

	switch props.Variant {
	case BadgeVariantSecondary, BadgeVariantSuccess, BadgeVariantWarning, BadgeVariantError, BadgeVariantOutline:
		classes = append(classes, "badge-"+string(props.Variant))
	default:
		classes = append(classes, "badge-default")
	}

	if props.Class != "" {
		classes = append(classes, props.Class)
	}

	return strings.Join(classes, " ")
}

const badgeCSS = `
.badge { display: inline-flex; align-items: center; border-radius: 9999px; border: 1px solid transparent; padding: 0.125rem 0.625rem; font: 600 0.75rem/1.2 ui-monospace, monospace; }
.badge-default { background: #000; color: #fff; }
.badge-secondary { background: #e5e5e5; color: #000; }
.badge-success { background: #16a34a; color: #fff; }
.badge-warning { background: #fb923c; color: #fff; }
.badge-error { background: #ef4444; color: #fff; }
.badge-outline { border-color: #d4d4d4; }
`
