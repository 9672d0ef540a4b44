package service

import (
	"fmt"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"
)

// Notifier publishes record change events to interested listeners. A nil
// Notifier is allowed; publishing is then a no-op.
type Notifier interface {
	Publish(eventType, variant, id string)
}

// TestCaseService business operations on the two test case variants
type TestCaseService interface {
	CreateXPS(req *CreateTestCaseRequest) (*models.XPSTestCase, error)
	UpdateXPS(id string, req *UpdateTestCaseRequest) (*models.XPSTestCase, error)
	ListXPS(f Filter) ([]models.XPSTestCase, error)

	CreateEMember(req *CreateTestCaseRequest) (*models.EMemberTestCase, error)
	UpdateEMember(id string, req *UpdateTestCaseRequest) (*models.EMemberTestCase, error)
	ListEMember(f Filter) ([]models.EMemberTestCase, error)
}

type testCaseService struct {
	xpsRepo     repository.XPSTestCaseRepository
	ememberRepo repository.EMemberTestCaseRepository
	notifier    Notifier
}

// NewTestCaseService creates a new test case service
func NewTestCaseService(
	xpsRepo repository.XPSTestCaseRepository,
	ememberRepo repository.EMemberTestCaseRepository,
	notifier Notifier,
) TestCaseService {
	return &testCaseService{
		xpsRepo:     xpsRepo,
		ememberRepo: ememberRepo,
		notifier:    notifier,
	}
}

func (s *testCaseService) notify(eventType, variant, id string) {
	if s.notifier != nil {
		s.notifier.Publish(eventType, variant, id)
	}
}

// ===== Request DTOs =====

// CreateTestCaseRequest carries the fields accepted on the create path. The
// classification fields are optional; an empty string leaves them unset.
type CreateTestCaseRequest struct {
	TestCaseID       string `json:"testCaseId"`
	Location         string `json:"location"`
	TestCaseName     string `json:"testCaseName"`
	ExpectedResult   string `json:"expectedResult"`
	ActualResult     string `json:"actualResult"`
	AutomationStatus string `json:"automationStatus"`
	TestStatus       string `json:"testStatus"`
	Comments         string `json:"comments"`
	DefectID         string `json:"defectId"`

	// XPS-only
	Module      string `json:"module"`
	SchemeLevel string `json:"schemeLevel"`
	Client      string `json:"client"`
	ReleaseNo   string `json:"releaseNo"`
	Priority    string `json:"priority"`

	// eMember-only
	Portal      string `json:"portal"`
	EmReleaseNo string `json:"emReleaseNo"`
}

// UpdateTestCaseRequest carries a partial field replacement. A nil pointer
// leaves the field unchanged; a supplied empty string clears an optional field
// and is rejected for a required one.
type UpdateTestCaseRequest struct {
	TestCaseID       *string `json:"testCaseId"`
	Location         *string `json:"location"`
	TestCaseName     *string `json:"testCaseName"`
	ExpectedResult   *string `json:"expectedResult"`
	ActualResult     *string `json:"actualResult"`
	AutomationStatus *string `json:"automationStatus"`
	TestStatus       *string `json:"testStatus"`
	Comments         *string `json:"comments"`
	DefectID         *string `json:"defectId"`

	Module      *string `json:"module"`
	SchemeLevel *string `json:"schemeLevel"`
	Client      *string `json:"client"`
	ReleaseNo   *string `json:"releaseNo"`
	Priority    *string `json:"priority"`

	Portal      *string `json:"portal"`
	EmReleaseNo *string `json:"emReleaseNo"`
}

func validateCreate(req *CreateTestCaseRequest, requireComments bool) error {
	if req.TestCaseID == "" {
		return fmt.Errorf("%w: testCaseId is required", ErrValidation)
	}
	if req.Location == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	if req.TestCaseName == "" {
		return fmt.Errorf("%w: testCaseName is required", ErrValidation)
	}
	if requireComments && req.Comments == "" {
		return fmt.Errorf("%w: comments is required", ErrValidation)
	}
	return nil
}

// requiredUpdate validates and applies an updated required field. Supplying an
// empty value for a required field is rejected.
func requiredUpdate(dst *string, src *string, name string) error {
	if src == nil {
		return nil
	}
	if *src == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	*dst = *src
	return nil
}

func optionalUpdate(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ===== XPS operations =====

func (s *testCaseService) CreateXPS(req *CreateTestCaseRequest) (*models.XPSTestCase, error) {
	// The XPS create path does not require comments; the eMember one does.
	// Kept as-is pending a product decision on which behavior is intended.
	if err := validateCreate(req, false); err != nil {
		return nil, err
	}

	tc := &models.XPSTestCase{
		TestCaseID:       req.TestCaseID,
		Location:         req.Location,
		TestCaseName:     req.TestCaseName,
		ExpectedResult:   req.ExpectedResult,
		ActualResult:     req.ActualResult,
		AutomationStatus: req.AutomationStatus,
		TestStatus:       req.TestStatus,
		Module:           req.Module,
		SchemeLevel:      req.SchemeLevel,
		Client:           req.Client,
		ReleaseNo:        req.ReleaseNo,
		Priority:         req.Priority,
		Comments:         req.Comments,
		DefectID:         req.DefectID,
		Screenshots:      models.StringArray{},
	}

	if err := s.xpsRepo.Create(tc); err != nil {
		return nil, fmt.Errorf("failed to create test case: %w", err)
	}

	s.notify("created", models.VariantXPS, tc.ID)
	return tc, nil
}

func (s *testCaseService) UpdateXPS(id string, req *UpdateTestCaseRequest) (*models.XPSTestCase, error) {
	tc, err := s.xpsRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to find test case: %w", err)
	}
	if tc == nil {
		return nil, fmt.Errorf("%w: test case %s", ErrNotFound, id)
	}

	if err := requiredUpdate(&tc.TestCaseID, req.TestCaseID, "testCaseId"); err != nil {
		return nil, err
	}
	if err := requiredUpdate(&tc.Location, req.Location, "location"); err != nil {
		return nil, err
	}
	if err := requiredUpdate(&tc.TestCaseName, req.TestCaseName, "testCaseName"); err != nil {
		return nil, err
	}
	// Unlike the create path, an update may not clear comments once supplied.
	if err := requiredUpdate(&tc.Comments, req.Comments, "comments"); err != nil {
		return nil, err
	}
	optionalUpdate(&tc.ExpectedResult, req.ExpectedResult)
	optionalUpdate(&tc.ActualResult, req.ActualResult)
	optionalUpdate(&tc.AutomationStatus, req.AutomationStatus)
	optionalUpdate(&tc.TestStatus, req.TestStatus)
	optionalUpdate(&tc.Module, req.Module)
	optionalUpdate(&tc.SchemeLevel, req.SchemeLevel)
	optionalUpdate(&tc.Client, req.Client)
	optionalUpdate(&tc.ReleaseNo, req.ReleaseNo)
	optionalUpdate(&tc.Priority, req.Priority)
	optionalUpdate(&tc.DefectID, req.DefectID)

	if err := s.xpsRepo.Save(tc); err != nil {
		return nil, fmt.Errorf("failed to update test case: %w", err)
	}

	s.notify("updated", models.VariantXPS, tc.ID)
	return tc, nil
}

func (s *testCaseService) ListXPS(f Filter) ([]models.XPSTestCase, error) {
	tcs, err := s.xpsRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	return FilterXPS(tcs, f), nil
}

// ===== eMember operations =====

func (s *testCaseService) CreateEMember(req *CreateTestCaseRequest) (*models.EMemberTestCase, error) {
	if err := validateCreate(req, true); err != nil {
		return nil, err
	}

	tc := &models.EMemberTestCase{
		TestCaseID:       req.TestCaseID,
		Location:         req.Location,
		TestCaseName:     req.TestCaseName,
		ExpectedResult:   req.ExpectedResult,
		ActualResult:     req.ActualResult,
		AutomationStatus: req.AutomationStatus,
		TestStatus:       req.TestStatus,
		Portal:           req.Portal,
		EmReleaseNo:      req.EmReleaseNo,
		Priority:         req.Priority,
		Comments:         req.Comments,
		DefectID:         req.DefectID,
		Screenshots:      models.StringArray{},
	}

	if err := s.ememberRepo.Create(tc); err != nil {
		return nil, fmt.Errorf("failed to create test case: %w", err)
	}

	s.notify("created", models.VariantEMember, tc.ID)
	return tc, nil
}

func (s *testCaseService) UpdateEMember(id string, req *UpdateTestCaseRequest) (*models.EMemberTestCase, error) {
	tc, err := s.ememberRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to find test case: %w", err)
	}
	if tc == nil {
		return nil, fmt.Errorf("%w: test case %s", ErrNotFound, id)
	}

	if err := requiredUpdate(&tc.TestCaseID, req.TestCaseID, "testCaseId"); err != nil {
		return nil, err
	}
	if err := requiredUpdate(&tc.Location, req.Location, "location"); err != nil {
		return nil, err
	}
	if err := requiredUpdate(&tc.TestCaseName, req.TestCaseName, "testCaseName"); err != nil {
		return nil, err
	}
	if err := requiredUpdate(&tc.Comments, req.Comments, "comments"); err != nil {
		return nil, err
	}
	optionalUpdate(&tc.ExpectedResult, req.ExpectedResult)
	optionalUpdate(&tc.ActualResult, req.ActualResult)
	optionalUpdate(&tc.AutomationStatus, req.AutomationStatus)
	optionalUpdate(&tc.TestStatus, req.TestStatus)
	optionalUpdate(&tc.Portal, req.Portal)
	optionalUpdate(&tc.EmReleaseNo, req.EmReleaseNo)
	optionalUpdate(&tc.Priority, req.Priority)
	optionalUpdate(&tc.DefectID, req.DefectID)

	if err := s.ememberRepo.Save(tc); err != nil {
		return nil, fmt.Errorf("failed to update test case: %w", err)
	}

	s.notify("updated", models.VariantEMember, tc.ID)
	return tc, nil
}

func (s *testCaseService) ListEMember(f Filter) ([]models.EMemberTestCase, error) {
	tcs, err := s.ememberRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	return FilterEMember(tcs, f), nil
}
