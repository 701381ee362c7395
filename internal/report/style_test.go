package report

import (
	"testing"
)

func TestDefaultStyleRules(t *testing.T) {
	rules := DefaultStyleRules()

	tests := []struct {
		name     string
		column   string
		value    string
		expected string
	}{
		{name: "license valid", column: "LicenseStatus", value: "Valid", expected: "success"},
		{name: "license expired", column: "LicenseStatus", value: "Expired", expected: "error"},
		{name: "license invalid", column: "LicenseStatus", value: "Invalid", expected: "error"},
		{name: "last result success", column: "LastResult", value: "Success", expected: "success"},
		{name: "last result warning", column: "LastResult", value: "Warning", expected: "warning"},
		{name: "last result failed", column: "LastResult", value: "Failed", expected: "error"},
		{name: "last result never run unstyled", column: "LastResult", value: "Never Run", expected: ""},
		{name: "session result success", column: "Result", value: "Success", expected: "success"},
		{name: "days remaining low", column: "DaysRemaining", value: "29", expected: "error"},
		{name: "days remaining mid", column: "DaysRemaining", value: "59", expected: "warning"},
		{name: "days remaining comfortable", column: "DaysRemaining", value: "60", expected: ""},
		{name: "days remaining perpetual", column: "DaysRemaining", value: "Perpetual", expected: ""},
		{name: "free percentage just below ten", column: "FreePercentage", value: "9.99", expected: "error"},
		{name: "free percentage just below twenty", column: "FreePercentage", value: "19.99", expected: "warning"},
		{name: "free percentage at twenty", column: "FreePercentage", value: "20.00", expected: ""},
		{name: "free percentage unparsable", column: "FreePercentage", value: "N/A", expected: ""},
		{name: "installed true", column: "Installed", value: "True", expected: "success"},
		{name: "installed false", column: "Installed", value: "False", expected: "error"},
		{name: "unavailable repository", column: "IsUnavailable", value: "True", expected: "error"},
		{name: "available repository unstyled", column: "IsUnavailable", value: "False", expected: ""},
		{name: "disabled proxy", column: "IsDisabled", value: "True", expected: "error"},
		{name: "unrelated column unstyled", column: "Name", value: "Failed", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyStyleRules(rules, tt.column, tt.value)
			if result != tt.expected {
				t.Errorf("ApplyStyleRules(%q, %q) = %q, expected %q", tt.column, tt.value, result, tt.expected)
			}
		})
	}
}
