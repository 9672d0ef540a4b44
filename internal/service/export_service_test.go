package service

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupExportService(t *testing.T) (ExportService, TestCaseService) {
	db := setupTestDB(t)
	xpsRepo := repository.NewXPSTestCaseRepository(db)
	ememberRepo := repository.NewEMemberTestCaseRepository(db)
	return NewExportService(xpsRepo, ememberRepo), NewTestCaseService(xpsRepo, ememberRepo, nil)
}

func TestExport_EmptyFilteredSetFails(t *testing.T) {
	exporter, _ := setupExportService(t)

	_, err := exporter.Export(models.VariantXPS, Filter{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExport_InvalidVariant(t *testing.T) {
	exporter, _ := setupExportService(t)

	_, err := exporter.Export("bogus", Filter{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExport_XPSWorkbookContents(t *testing.T) {
	exporter, svc := setupExportService(t)

	_, err := svc.CreateXPS(&CreateTestCaseRequest{
		TestCaseID:     "TC-1",
		Location:       "Regression/Login",
		TestCaseName:   "Valid login",
		ExpectedResult: "User lands on dashboard",
		TestStatus:     "Passed",
		Module:         "Details",
		SchemeLevel:    "TL",
		Client:         "XPS",
	})
	require.NoError(t, err)

	doc, err := exporter.Export(models.VariantXPS, Filter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Test Cases"}, wb.GetSheetList())

	rows, err := wb.GetRows("Test Cases")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"Test Case ID", "Location", "Test Case Name", "Expected Result", "Actual Result",
		"Automation Status", "Test Status", "Module", "Scheme Level", "Client",
		"Release No", "Priority", "Comments", "Defect ID",
	}, rows[0])

	assert.Equal(t, "TC-1", rows[1][0])
	assert.Equal(t, "Regression/Login", rows[1][1])
	assert.Equal(t, "Valid login", rows[1][2])
	assert.Equal(t, "User lands on dashboard", rows[1][3])
	assert.Equal(t, "Passed", rows[1][6])
}

func TestExport_FilterNarrowsRows(t *testing.T) {
	exporter, svc := setupExportService(t)

	for _, status := range []string{"Passed", "Failed", "Passed"} {
		_, err := svc.CreateEMember(&CreateTestCaseRequest{
			TestCaseID:   "EM-" + status,
			Location:     "Smoke",
			TestCaseName: "Case " + status,
			Comments:     "run",
			TestStatus:   status,
			Portal:       "Admin",
		})
		require.NoError(t, err)
	}

	doc, err := exporter.Export(models.VariantEMember, Filter{TestStatus: "Failed"})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Test Cases")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "header plus the one failed case")
	assert.Equal(t, "EM-Failed", rows[1][0])
}

func TestExport_FilenameIsFilesystemSafe(t *testing.T) {
	exporter, svc := setupExportService(t)

	_, err := svc.CreateXPS(&CreateTestCaseRequest{
		TestCaseID: "TC-1", Location: "Smoke", TestCaseName: "Any",
	})
	require.NoError(t, err)

	doc, err := exporter.Export(models.VariantXPS, Filter{})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^xps-test-cases-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.xlsx$`), doc.Filename)
	assert.NotContains(t, doc.Filename[:len(doc.Filename)-5], ":")
}

// The JSON listing path is the structured-text export. Serializing a filtered
// set and parsing it back must preserve case identifiers and field values.
func TestListJSONRoundTrip(t *testing.T) {
	_, svc := setupExportService(t)

	_, err := svc.CreateXPS(&CreateTestCaseRequest{
		TestCaseID:     "TC-10",
		Location:       "Regression",
		TestCaseName:   "Round trip",
		ExpectedResult: "same data back",
		TestStatus:     "Blocked",
		Module:         "Reports",
	})
	require.NoError(t, err)

	tcs, err := svc.ListXPS(Filter{TestStatus: "Blocked"})
	require.NoError(t, err)
	require.Len(t, tcs, 1)

	encoded, err := json.MarshalIndent(tcs, "", "  ")
	require.NoError(t, err)

	var decoded []models.XPSTestCase
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Len(t, decoded, 1)

	assert.Equal(t, tcs[0].TestCaseID, decoded[0].TestCaseID)
	assert.Equal(t, tcs[0].TestCaseName, decoded[0].TestCaseName)
	assert.Equal(t, tcs[0].ExpectedResult, decoded[0].ExpectedResult)
	assert.Equal(t, tcs[0].TestStatus, decoded[0].TestStatus)
	assert.Equal(t, tcs[0].Module, decoded[0].Module)
}
