package service

import (
	"strings"

	"testcase-tracker/internal/models"
)

// Filter holds the recognized query keys for narrowing a test case listing.
// The zero value imposes no constraint. Keys outside the variant's vocabulary
// are simply never consulted for that variant.
type Filter struct {
	AutomationStatus string `form:"automationStatus" json:"automationStatus"`
	TestStatus       string `form:"testStatus" json:"testStatus"`
	Priority         string `form:"priority" json:"priority"`

	// XPS-only
	Module      string `form:"module" json:"module"`
	SchemeLevel string `form:"schemeLevel" json:"schemeLevel"`
	Client      string `form:"client" json:"client"`
	ReleaseNo   string `form:"releaseNo" json:"releaseNo"`

	// eMember-only
	Portal      string `form:"portal" json:"portal"`
	EmReleaseNo string `form:"emReleaseNo" json:"emReleaseNo"`

	// Search matches testCaseId or testCaseName as a case-insensitive
	// substring.
	Search string `form:"search" json:"search"`
}

// FilterXPS returns the subset of tcs satisfying every supplied predicate in
// f. Pure function: tcs is not modified and input order is preserved.
func FilterXPS(tcs []models.XPSTestCase, f Filter) []models.XPSTestCase {
	out := make([]models.XPSTestCase, 0, len(tcs))
	for _, tc := range tcs {
		if !equalsIfSet(f.AutomationStatus, tc.AutomationStatus) ||
			!equalsIfSet(f.TestStatus, tc.TestStatus) ||
			!equalsIfSet(f.Priority, tc.Priority) ||
			!equalsIfSet(f.Module, tc.Module) ||
			!equalsIfSet(f.SchemeLevel, tc.SchemeLevel) ||
			!equalsIfSet(f.Client, tc.Client) ||
			!equalsIfSet(f.ReleaseNo, tc.ReleaseNo) {
			continue
		}
		if !matchesSearch(f.Search, tc.TestCaseID, tc.TestCaseName) {
			continue
		}
		out = append(out, tc)
	}
	return out
}

// FilterEMember returns the subset of tcs satisfying every supplied predicate
// in f.
func FilterEMember(tcs []models.EMemberTestCase, f Filter) []models.EMemberTestCase {
	out := make([]models.EMemberTestCase, 0, len(tcs))
	for _, tc := range tcs {
		if !equalsIfSet(f.AutomationStatus, tc.AutomationStatus) ||
			!equalsIfSet(f.TestStatus, tc.TestStatus) ||
			!equalsIfSet(f.Priority, tc.Priority) ||
			!equalsIfSet(f.Portal, tc.Portal) ||
			!equalsIfSet(f.EmReleaseNo, tc.EmReleaseNo) {
			continue
		}
		if !matchesSearch(f.Search, tc.TestCaseID, tc.TestCaseName) {
			continue
		}
		out = append(out, tc)
	}
	return out
}

// equalsIfSet is true when the filter value is absent or exactly equal to the
// field value. Comparison is case-sensitive.
func equalsIfSet(want, got string) bool {
	return want == "" || want == got
}

func matchesSearch(term, caseID, name string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(caseID), term) ||
		strings.Contains(strings.ToLower(name), term)
}
