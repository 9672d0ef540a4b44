package service

import (
	"fmt"
	"time"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"
	"testcase-tracker/internal/storage"
)

// ScreenshotService attaches uploaded screenshots to test case records. The
// file is written before the record is touched; if the record update then
// fails the just-written file is removed on a best-effort basis.
type ScreenshotService interface {
	Add(variant, id, testCaseID, contentType string, size int64, data []byte) (string, error)
	Remove(variant, id, filename string) error
	List(variant, id string) ([]string, error)
}

type screenshotService struct {
	xpsRepo     repository.XPSTestCaseRepository
	ememberRepo repository.EMemberTestCaseRepository
	store       *storage.ScreenshotStore
	notifier    Notifier
	now         func() time.Time
}

// NewScreenshotService creates a new screenshot service
func NewScreenshotService(
	xpsRepo repository.XPSTestCaseRepository,
	ememberRepo repository.EMemberTestCaseRepository,
	store *storage.ScreenshotStore,
	notifier Notifier,
) ScreenshotService {
	return &screenshotService{
		xpsRepo:     xpsRepo,
		ememberRepo: ememberRepo,
		store:       store,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Add validates the upload, stores the file and appends its relative path to
// the record's screenshot list. Returns the stored relative path.
func (s *screenshotService) Add(variant, id, testCaseID, contentType string, size int64, data []byte) (string, error) {
	if !storage.AllowedTypes[contentType] {
		return "", fmt.Errorf("%w: invalid file type, only PNG, JPG, and JPEG are allowed", ErrValidation)
	}
	if size > storage.MaxFileSize {
		return "", fmt.Errorf("%w: file size exceeds 5MB limit", ErrValidation)
	}

	switch variant {
	case models.VariantXPS:
		tc, err := s.xpsRepo.FindByID(id)
		if err != nil {
			return "", fmt.Errorf("failed to find test case: %w", err)
		}
		if tc == nil {
			return "", fmt.Errorf("%w: test case %s", ErrNotFound, id)
		}
		return s.attach(variant, id, testCaseID, tc.SchemeLevel, tc.Module, data, func(path string) error {
			tc.Screenshots = append(tc.Screenshots, path)
			return s.xpsRepo.Save(tc)
		})
	case models.VariantEMember:
		tc, err := s.ememberRepo.FindByID(id)
		if err != nil {
			return "", fmt.Errorf("failed to find test case: %w", err)
		}
		if tc == nil {
			return "", fmt.Errorf("%w: test case %s", ErrNotFound, id)
		}
		return s.attach(variant, id, testCaseID, tc.Portal, tc.EmReleaseNo, data, func(path string) error {
			tc.Screenshots = append(tc.Screenshots, path)
			return s.ememberRepo.Save(tc)
		})
	default:
		return "", fmt.Errorf("%w: unknown variant %q", ErrValidation, variant)
	}
}

// attach performs the file-then-metadata write with compensation. fieldA and
// fieldB are the record's two classification fields used in the filename.
func (s *screenshotService) attach(variant, id, testCaseID, fieldA, fieldB string, data []byte, update func(path string) error) (string, error) {
	if fieldA == "" {
		fieldA = "Unknown"
	}
	if fieldB == "" {
		fieldB = "Unknown"
	}

	base := fmt.Sprintf("%s_%s_%s_%d",
		storage.Sanitize(testCaseID),
		storage.Sanitize(fieldA),
		storage.Sanitize(fieldB),
		s.now().UnixMilli())

	filename, err := s.store.Save(base, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	path := "/screenshots/" + filename
	if err := update(path); err != nil {
		// Best-effort compensation: the file must not outlive a failed
		// metadata write.
		if rmErr := s.store.Remove(filename); rmErr != nil {
			return "", fmt.Errorf("failed to update test case: %w (orphaned file %s: %v)", err, filename, rmErr)
		}
		return "", fmt.Errorf("failed to update test case: %w", err)
	}

	s.notify(variant, id)
	return path, nil
}

// Remove drops the screenshot path from the record and deletes the file. A
// file that is already absent still gets its metadata removed.
func (s *screenshotService) Remove(variant, id, filename string) error {
	path := "/screenshots/" + filename

	switch variant {
	case models.VariantXPS:
		tc, err := s.xpsRepo.FindByID(id)
		if err != nil {
			return fmt.Errorf("failed to find test case: %w", err)
		}
		if tc == nil {
			return fmt.Errorf("%w: test case %s", ErrNotFound, id)
		}
		if err := s.store.Remove(filename); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		tc.Screenshots = removePath(tc.Screenshots, path)
		if err := s.xpsRepo.Save(tc); err != nil {
			return fmt.Errorf("failed to update test case: %w", err)
		}
	case models.VariantEMember:
		tc, err := s.ememberRepo.FindByID(id)
		if err != nil {
			return fmt.Errorf("failed to find test case: %w", err)
		}
		if tc == nil {
			return fmt.Errorf("%w: test case %s", ErrNotFound, id)
		}
		if err := s.store.Remove(filename); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		tc.Screenshots = removePath(tc.Screenshots, path)
		if err := s.ememberRepo.Save(tc); err != nil {
			return fmt.Errorf("failed to update test case: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrValidation, variant)
	}

	s.notify(variant, id)
	return nil
}

// List returns the record's ordered screenshot paths.
func (s *screenshotService) List(variant, id string) ([]string, error) {
	switch variant {
	case models.VariantXPS:
		tc, err := s.xpsRepo.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to find test case: %w", err)
		}
		if tc == nil {
			return nil, fmt.Errorf("%w: test case %s", ErrNotFound, id)
		}
		return tc.Screenshots, nil
	case models.VariantEMember:
		tc, err := s.ememberRepo.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to find test case: %w", err)
		}
		if tc == nil {
			return nil, fmt.Errorf("%w: test case %s", ErrNotFound, id)
		}
		return tc.Screenshots, nil
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrValidation, variant)
	}
}

func (s *screenshotService) notify(variant, id string) {
	if s.notifier != nil {
		s.notifier.Publish("screenshots_changed", variant, id)
	}
}

func removePath(paths models.StringArray, path string) models.StringArray {
	out := make(models.StringArray, 0, len(paths))
	for _, p := range paths {
		if p != path {
			out = append(out, p)
		}
	}
	return out
}
