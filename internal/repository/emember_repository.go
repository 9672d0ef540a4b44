package repository

import (
	"errors"

	"testcase-tracker/internal/models"

	"gorm.io/gorm"
)

// EMemberTestCaseRepository data access for eMember test cases
type EMemberTestCaseRepository interface {
	Create(tc *models.EMemberTestCase) error
	Save(tc *models.EMemberTestCase) error
	FindByID(id string) (*models.EMemberTestCase, error)
	FindAll() ([]models.EMemberTestCase, error)
	CreateBatch(tcs []models.EMemberTestCase) error
}

type ememberTestCaseRepo struct {
	db *gorm.DB
}

// NewEMemberTestCaseRepository creates a repository instance
func NewEMemberTestCaseRepository(db *gorm.DB) EMemberTestCaseRepository {
	return &ememberTestCaseRepo{db: db}
}

func (r *ememberTestCaseRepo) Create(tc *models.EMemberTestCase) error {
	return r.db.Create(tc).Error
}

func (r *ememberTestCaseRepo) Save(tc *models.EMemberTestCase) error {
	return r.db.Save(tc).Error
}

func (r *ememberTestCaseRepo) FindByID(id string) (*models.EMemberTestCase, error) {
	var tc models.EMemberTestCase
	err := r.db.Where("id = ?", id).First(&tc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tc, nil
}

func (r *ememberTestCaseRepo) FindAll() ([]models.EMemberTestCase, error) {
	var tcs []models.EMemberTestCase
	err := r.db.Order("test_case_id asc").Find(&tcs).Error
	return tcs, err
}

// CreateBatch inserts all rows in a single transaction. Any failed row rolls
// back the whole batch.
func (r *ememberTestCaseRepo) CreateBatch(tcs []models.EMemberTestCase) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range tcs {
			if err := tx.Create(&tcs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
