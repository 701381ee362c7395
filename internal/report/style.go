package report

import "strconv"

// Style classes a cell can carry in the HTML report.
const (
	StyleSuccess = "success"
	StyleWarning = "warning"
	StyleError   = "error"
)

// StyleRule annotates a (column, value) pair with a presentation class. It
// never changes the value; an empty result means the cell renders unstyled.
type StyleRule func(column, value string) string

// DefaultStyleRules encode the report's operational thresholds. The first
// matching rule wins. Values that fail numeric parsing for a threshold rule
// are left unstyled rather than failing the render.
func DefaultStyleRules() []StyleRule {
	return []StyleRule{
		resultRule,
		daysRemainingRule,
		freePercentageRule,
		installedRule,
		unavailableRule,
	}
}

// ApplyStyleRules returns the class of the first matching rule, or "".
func ApplyStyleRules(rules []StyleRule, column, value string) string {
	for _, rule := range rules {
		if class := rule(column, value); class != "" {
			return class
		}
	}
	return ""
}

func resultRule(column, value string) string {
	if column != "LicenseStatus" && column != "LastResult" && column != "Result" {
		return ""
	}
	switch value {
	case "Valid", "Success":
		return StyleSuccess
	case "Warning":
		return StyleWarning
	case "Failed", "Invalid", "Expired":
		return StyleError
	}
	return ""
}

func daysRemainingRule(column, value string) string {
	if column != "DaysRemaining" || value == "Perpetual" {
		return ""
	}
	days, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}
	switch {
	case days < 30:
		return StyleError
	case days < 60:
		return StyleWarning
	}
	return ""
}

func freePercentageRule(column, value string) string {
	if column != "FreePercentage" {
		return ""
	}
	percent, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}
	switch {
	case percent < 10:
		return StyleError
	case percent < 20:
		return StyleWarning
	}
	return ""
}

func installedRule(column, value string) string {
	if column != "Installed" {
		return ""
	}
	if value == "True" {
		return StyleSuccess
	}
	return StyleError
}

func unavailableRule(column, value string) string {
	if column != "IsUnavailable" && column != "IsDisabled" {
		return ""
	}
	if value == "True" {
		return StyleError
	}
	return ""
}
