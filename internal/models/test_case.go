package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPSTestCase is a manually tracked QA test case for the XPS product.
// Classification fields are enum-valued strings; an empty string means the
// field has not been set.
type XPSTestCase struct {
	ID               string      `gorm:"primaryKey;size:36" json:"id"`
	TestCaseID       string      `gorm:"size:255;not null;index" json:"testCaseId"`
	Location         string      `gorm:"size:255;not null" json:"location"`
	TestCaseName     string      `gorm:"type:text;not null" json:"testCaseName"`
	ExpectedResult   string      `gorm:"type:text" json:"expectedResult"`
	ActualResult     string      `gorm:"type:text" json:"actualResult"`
	AutomationStatus string      `gorm:"size:50;index" json:"automationStatus"`
	TestStatus       string      `gorm:"size:50;index" json:"testStatus"`
	Module           string      `gorm:"size:50;index" json:"module"`
	SchemeLevel      string      `gorm:"size:10;index" json:"schemeLevel"`
	Client           string      `gorm:"size:20;index" json:"client"`
	ReleaseNo        string      `gorm:"size:20" json:"releaseNo"`
	Priority         string      `gorm:"size:10" json:"priority"`
	Comments         string      `gorm:"type:text" json:"comments"`
	DefectID         string      `gorm:"size:255" json:"defectId"`
	Screenshots      StringArray `gorm:"type:text" json:"screenshots"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// TableName specifies the table name
func (XPSTestCase) TableName() string {
	return "xps_test_cases"
}

// BeforeCreate assigns a generated ID when none is provided
func (tc *XPSTestCase) BeforeCreate(tx *gorm.DB) error {
	if tc.ID == "" {
		tc.ID = uuid.New().String()
	}
	return nil
}

// EMemberTestCase is a manually tracked QA test case for the eMember portals.
type EMemberTestCase struct {
	ID               string      `gorm:"primaryKey;size:36" json:"id"`
	TestCaseID       string      `gorm:"size:255;not null;index" json:"testCaseId"`
	Location         string      `gorm:"size:255;not null" json:"location"`
	TestCaseName     string      `gorm:"type:text;not null" json:"testCaseName"`
	ExpectedResult   string      `gorm:"type:text" json:"expectedResult"`
	ActualResult     string      `gorm:"type:text" json:"actualResult"`
	AutomationStatus string      `gorm:"size:50;index" json:"automationStatus"`
	TestStatus       string      `gorm:"size:50;index" json:"testStatus"`
	Portal           string      `gorm:"size:50;index" json:"portal"`
	EmReleaseNo      string      `gorm:"size:20" json:"emReleaseNo"`
	Priority         string      `gorm:"size:10" json:"priority"`
	Comments         string      `gorm:"type:text" json:"comments"`
	DefectID         string      `gorm:"size:255" json:"defectId"`
	Screenshots      StringArray `gorm:"type:text" json:"screenshots"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// TableName specifies the table name
func (EMemberTestCase) TableName() string {
	return "emember_test_cases"
}

// BeforeCreate assigns a generated ID when none is provided
func (tc *EMemberTestCase) BeforeCreate(tx *gorm.DB) error {
	if tc.ID == "" {
		tc.ID = uuid.New().String()
	}
	return nil
}

// ===== Enum vocabularies =====

// Variant names accepted on the API surface.
const (
	VariantXPS     = "xps"
	VariantEMember = "emember"
)

var (
	AutomationStatuses = []string{"Automated", "NotAutomated", "Blocked", "InProgress"}
	TestStatuses       = []string{"Passed", "Failed", "Blocked", "Skipped", "NotRun"}
	Priorities         = []string{"High", "Medium", "Low"}

	// XPS-only
	XPSModules      = []string{"Details", "ToolsAndProcesses", "Letters", "Leavers", "Reports", "Others"}
	XPSSchemeLevels = []string{"TL", "ML", "SL"}
	XPSClients      = []string{"XPS", "Other"}
	XPSReleaseNos   = []string{"R3_43", "R3_44", "R3_45"}

	// eMember-only
	EMemberPortals    = []string{"Admin", "Public", "CAT", "Fusion", "Umbraco", "DataHub", "Other"}
	EMemberReleaseNos = []string{"Old", "New", "Other"}
)

// ===== Custom serialized types =====

// StringArray stores an ordered list of strings as a JSON array in a text
// column. A nil slice persists as "[]".
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan decodes the stored JSON array. Malformed stored data yields an empty
// list rather than an error so that a bad row cannot break reads.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		*a = StringArray{}
		return nil
	}

	if len(data) == 0 {
		*a = StringArray{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		*a = StringArray{}
		return nil
	}
	*a = out
	return nil
}
