package service

import (
	"fmt"
	"io"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"

	"github.com/xuri/excelize/v2"
)

// Model selectors accepted by the import endpoint.
const (
	ImportModelXPS     = "xpsTestCase"
	ImportModelEMember = "eMemberTestCase"
)

// ImportService bulk-loads test cases from an uploaded spreadsheet
type ImportService interface {
	// Import parses the first sheet of an xlsx file and inserts every data
	// row as a new record of the selected model. The batch is all-or-nothing;
	// the returned count is the number of rows submitted.
	Import(model string, file io.Reader) (int, error)
}

type importService struct {
	xpsRepo     repository.XPSTestCaseRepository
	ememberRepo repository.EMemberTestCaseRepository
	notifier    Notifier
}

// NewImportService creates a new import service
func NewImportService(
	xpsRepo repository.XPSTestCaseRepository,
	ememberRepo repository.EMemberTestCaseRepository,
	notifier Notifier,
) ImportService {
	return &importService{xpsRepo: xpsRepo, ememberRepo: ememberRepo, notifier: notifier}
}

func (s *importService) Import(model string, file io.Reader) (int, error) {
	if model != ImportModelXPS && model != ImportModelEMember {
		return 0, fmt.Errorf("%w: invalid model selection %q", ErrValidation, model)
	}

	rows, err := readSheetRows(file)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: sheet is empty or could not be parsed", ErrImport)
	}

	switch model {
	case ImportModelXPS:
		tcs := make([]models.XPSTestCase, len(rows))
		for i, row := range rows {
			tcs[i] = models.XPSTestCase{
				TestCaseID:       row["testCaseId"],
				Location:         row["location"],
				TestCaseName:     row["testCaseName"],
				ExpectedResult:   row["expectedResult"],
				ActualResult:     row["actualResult"],
				AutomationStatus: row["automationStatus"],
				TestStatus:       row["testStatus"],
				Module:           row["module"],
				SchemeLevel:      row["schemeLevel"],
				Client:           row["client"],
				ReleaseNo:        row["releaseNo"],
				Priority:         row["priority"],
				Comments:         row["comments"],
				DefectID:         row["defectId"],
				Screenshots:      models.StringArray{},
			}
		}
		if err := s.xpsRepo.CreateBatch(tcs); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrImport, err)
		}
	case ImportModelEMember:
		tcs := make([]models.EMemberTestCase, len(rows))
		for i, row := range rows {
			tcs[i] = models.EMemberTestCase{
				TestCaseID:       row["testCaseId"],
				Location:         row["location"],
				TestCaseName:     row["testCaseName"],
				ExpectedResult:   row["expectedResult"],
				ActualResult:     row["actualResult"],
				AutomationStatus: row["automationStatus"],
				TestStatus:       row["testStatus"],
				Portal:           row["portal"],
				EmReleaseNo:      row["emReleaseNo"],
				Priority:         row["priority"],
				Comments:         row["comments"],
				DefectID:         row["defectId"],
				Screenshots:      models.StringArray{},
			}
		}
		if err := s.ememberRepo.CreateBatch(tcs); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrImport, err)
		}
	}

	if s.notifier != nil {
		s.notifier.Publish("imported", model, "")
	}
	return len(rows), nil
}

// readSheetRows parses the first sheet into row maps keyed by the header row.
// Rows with no values at all are skipped, mirroring how spreadsheet tools pad
// trailing blank lines.
func readSheetRows(file io.Reader) ([]map[string]string, error) {
	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read spreadsheet: %v", ErrImport, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrImport)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet: %v", ErrImport, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	var out []map[string]string
	for _, cells := range rows[1:] {
		row := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			var v string
			if i < len(cells) {
				v = cells[i]
			}
			if v != "" {
				empty = false
			}
			row[header] = v
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
