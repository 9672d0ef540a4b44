package repository

import (
	"errors"

	"testcase-tracker/internal/models"

	"gorm.io/gorm"
)

// XPSTestCaseRepository data access for XPS test cases
type XPSTestCaseRepository interface {
	Create(tc *models.XPSTestCase) error
	Save(tc *models.XPSTestCase) error
	FindByID(id string) (*models.XPSTestCase, error)
	FindAll() ([]models.XPSTestCase, error)
	CreateBatch(tcs []models.XPSTestCase) error
}

type xpsTestCaseRepo struct {
	db *gorm.DB
}

// NewXPSTestCaseRepository creates a repository instance
func NewXPSTestCaseRepository(db *gorm.DB) XPSTestCaseRepository {
	return &xpsTestCaseRepo{db: db}
}

func (r *xpsTestCaseRepo) Create(tc *models.XPSTestCase) error {
	return r.db.Create(tc).Error
}

func (r *xpsTestCaseRepo) Save(tc *models.XPSTestCase) error {
	return r.db.Save(tc).Error
}

func (r *xpsTestCaseRepo) FindByID(id string) (*models.XPSTestCase, error) {
	var tc models.XPSTestCase
	err := r.db.Where("id = ?", id).First(&tc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tc, nil
}

func (r *xpsTestCaseRepo) FindAll() ([]models.XPSTestCase, error) {
	var tcs []models.XPSTestCase
	err := r.db.Order("test_case_id asc").Find(&tcs).Error
	return tcs, err
}

// CreateBatch inserts all rows in a single transaction. Any failed row rolls
// back the whole batch.
func (r *xpsTestCaseRepo) CreateBatch(tcs []models.XPSTestCase) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range tcs {
			if err := tx.Create(&tcs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
