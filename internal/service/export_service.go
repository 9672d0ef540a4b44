package service

import (
	"bytes"
	"fmt"
	"time"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Test Cases"

// exportColumn ties a spreadsheet header to a field accessor and a column
// width hint. One ordered table per variant drives the whole encoding so the
// column set cannot drift between call sites.
type exportColumn[T any] struct {
	Header string
	Width  float64
	Value  func(T) string
}

var xpsColumns = []exportColumn[models.XPSTestCase]{
	{"Test Case ID", 15, func(tc models.XPSTestCase) string { return tc.TestCaseID }},
	{"Location", 20, func(tc models.XPSTestCase) string { return tc.Location }},
	{"Test Case Name", 30, func(tc models.XPSTestCase) string { return tc.TestCaseName }},
	{"Expected Result", 25, func(tc models.XPSTestCase) string { return tc.ExpectedResult }},
	{"Actual Result", 25, func(tc models.XPSTestCase) string { return tc.ActualResult }},
	{"Automation Status", 18, func(tc models.XPSTestCase) string { return tc.AutomationStatus }},
	{"Test Status", 12, func(tc models.XPSTestCase) string { return tc.TestStatus }},
	{"Module", 15, func(tc models.XPSTestCase) string { return tc.Module }},
	{"Scheme Level", 12, func(tc models.XPSTestCase) string { return tc.SchemeLevel }},
	{"Client", 10, func(tc models.XPSTestCase) string { return tc.Client }},
	{"Release No", 12, func(tc models.XPSTestCase) string { return tc.ReleaseNo }},
	{"Priority", 10, func(tc models.XPSTestCase) string { return tc.Priority }},
	{"Comments", 30, func(tc models.XPSTestCase) string { return tc.Comments }},
	{"Defect ID", 15, func(tc models.XPSTestCase) string { return tc.DefectID }},
}

var ememberColumns = []exportColumn[models.EMemberTestCase]{
	{"Test Case ID", 15, func(tc models.EMemberTestCase) string { return tc.TestCaseID }},
	{"Location", 20, func(tc models.EMemberTestCase) string { return tc.Location }},
	{"Test Case Name", 30, func(tc models.EMemberTestCase) string { return tc.TestCaseName }},
	{"Expected Result", 25, func(tc models.EMemberTestCase) string { return tc.ExpectedResult }},
	{"Actual Result", 25, func(tc models.EMemberTestCase) string { return tc.ActualResult }},
	{"Automation Status", 18, func(tc models.EMemberTestCase) string { return tc.AutomationStatus }},
	{"Test Status", 12, func(tc models.EMemberTestCase) string { return tc.TestStatus }},
	{"Portal", 15, func(tc models.EMemberTestCase) string { return tc.Portal }},
	{"Release No", 12, func(tc models.EMemberTestCase) string { return tc.EmReleaseNo }},
	{"Priority", 10, func(tc models.EMemberTestCase) string { return tc.Priority }},
	{"Comments", 30, func(tc models.EMemberTestCase) string { return tc.Comments }},
	{"Defect ID", 15, func(tc models.EMemberTestCase) string { return tc.DefectID }},
}

// ExportDocument a generated spreadsheet plus its download filename
type ExportDocument struct {
	Filename string
	Content  []byte
}

// ExportService produces spreadsheet exports of filtered record sets
type ExportService interface {
	Export(variant string, f Filter) (*ExportDocument, error)
}

type exportService struct {
	xpsRepo     repository.XPSTestCaseRepository
	ememberRepo repository.EMemberTestCaseRepository
	now         func() time.Time
}

// NewExportService creates a new export service
func NewExportService(
	xpsRepo repository.XPSTestCaseRepository,
	ememberRepo repository.EMemberTestCaseRepository,
) ExportService {
	return &exportService{
		xpsRepo:     xpsRepo,
		ememberRepo: ememberRepo,
		now:         time.Now,
	}
}

// Export fetches the variant's records, applies the filter and serializes the
// result to an xlsx document. An empty filtered set is an error, not an empty
// document.
func (s *exportService) Export(variant string, f Filter) (*ExportDocument, error) {
	var content []byte
	var err error

	switch variant {
	case models.VariantXPS:
		var tcs []models.XPSTestCase
		if tcs, err = s.xpsRepo.FindAll(); err != nil {
			return nil, fmt.Errorf("failed to fetch test cases: %w", err)
		}
		content, err = buildWorkbook(FilterXPS(tcs, f), xpsColumns)
	case models.VariantEMember:
		var tcs []models.EMemberTestCase
		if tcs, err = s.ememberRepo.FindAll(); err != nil {
			return nil, fmt.Errorf("failed to fetch test cases: %w", err)
		}
		content, err = buildWorkbook(FilterEMember(tcs, f), ememberColumns)
	default:
		return nil, fmt.Errorf("%w: invalid type %q, must be 'xps' or 'emember'", ErrValidation, variant)
	}
	if err != nil {
		return nil, err
	}

	return &ExportDocument{
		Filename: exportFilename(variant, s.now()),
		Content:  content,
	}, nil
}

func buildWorkbook[T any](tcs []T, columns []exportColumn[T]) ([]byte, error) {
	if len(tcs) == 0 {
		return nil, fmt.Errorf("%w: no test cases found with the specified filters", ErrNotFound)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col.Header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
		if err := wb.SetColWidth(exportSheetName, name, name, col.Width); err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}
	if err := wb.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	for i, tc := range tcs {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = col.Value(tc)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// exportFilename builds a download name with a filesystem-safe timestamp
// (no colons or periods).
func exportFilename(variant string, ts time.Time) string {
	return fmt.Sprintf("%s-test-cases-%s.xlsx", variant, ts.UTC().Format("2006-01-02T15-04-05"))
}
