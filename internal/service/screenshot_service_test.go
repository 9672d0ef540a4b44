package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"
	"testcase-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake image data")

func setupScreenshotService(t *testing.T) (ScreenshotService, TestCaseService, *storage.ScreenshotStore) {
	db := setupTestDB(t)
	xpsRepo := repository.NewXPSTestCaseRepository(db)
	ememberRepo := repository.NewEMemberTestCaseRepository(db)

	store, err := storage.NewScreenshotStore(t.TempDir())
	require.NoError(t, err)

	return NewScreenshotService(xpsRepo, ememberRepo, store, nil),
		NewTestCaseService(xpsRepo, ememberRepo, nil),
		store
}

func createXPSForScreenshots(t *testing.T, svc TestCaseService) *models.XPSTestCase {
	tc, err := svc.CreateXPS(&CreateTestCaseRequest{
		TestCaseID:   "TC-500",
		Location:     "Regression",
		TestCaseName: "With screenshots",
		SchemeLevel:  "TL",
		Module:       "Details",
	})
	require.NoError(t, err)
	return tc
}

func TestScreenshotAddThenList(t *testing.T) {
	shots, cases, store := setupScreenshotService(t)
	tc := createXPSForScreenshots(t, cases)

	path, err := shots.Add(models.VariantXPS, tc.ID, tc.TestCaseID, "image/png", int64(len(pngBytes)), pngBytes)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/screenshots/TC_500_TL_Details_"))
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.True(t, store.Exists(filepath.Base(path)), "file must exist on disk")

	list, err := shots.List(models.VariantXPS, tc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, path, list[len(list)-1], "newest path is appended last")
}

func TestScreenshotRemove(t *testing.T) {
	shots, cases, store := setupScreenshotService(t)
	tc := createXPSForScreenshots(t, cases)

	path, err := shots.Add(models.VariantXPS, tc.ID, tc.TestCaseID, "image/png", int64(len(pngBytes)), pngBytes)
	require.NoError(t, err)
	filename := filepath.Base(path)

	require.NoError(t, shots.Remove(models.VariantXPS, tc.ID, filename))

	list, err := shots.List(models.VariantXPS, tc.ID)
	require.NoError(t, err)
	assert.NotContains(t, list, path)
	assert.False(t, store.Exists(filename), "file must be gone from disk")
}

func TestScreenshotRemove_MissingFileStillClearsMetadata(t *testing.T) {
	shots, cases, store := setupScreenshotService(t)
	tc := createXPSForScreenshots(t, cases)

	path, err := shots.Add(models.VariantXPS, tc.ID, tc.TestCaseID, "image/png", int64(len(pngBytes)), pngBytes)
	require.NoError(t, err)
	filename := filepath.Base(path)

	require.NoError(t, os.Remove(filepath.Join(store.Root(), filename)))
	require.NoError(t, shots.Remove(models.VariantXPS, tc.ID, filename))

	list, err := shots.List(models.VariantXPS, tc.ID)
	require.NoError(t, err)
	assert.NotContains(t, list, path)
}

func TestScreenshotAdd_RejectsOversizedFile(t *testing.T) {
	shots, cases, store := setupScreenshotService(t)
	tc := createXPSForScreenshots(t, cases)

	_, err := shots.Add(models.VariantXPS, tc.ID, tc.TestCaseID, "image/png", 6*1024*1024, pngBytes)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "5MB")

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may be written")

	list, err := shots.List(models.VariantXPS, tc.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "no metadata may be updated")
}

func TestScreenshotAdd_RejectsBadContentType(t *testing.T) {
	shots, cases, _ := setupScreenshotService(t)
	tc := createXPSForScreenshots(t, cases)

	_, err := shots.Add(models.VariantXPS, tc.ID, tc.TestCaseID, "application/pdf", 100, pngBytes)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScreenshotAdd_UnknownRecord(t *testing.T) {
	shots, _, _ := setupScreenshotService(t)

	_, err := shots.Add(models.VariantXPS, "missing", "TC-X", "image/png", 100, pngBytes)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScreenshotAdd_EMemberVariant(t *testing.T) {
	shots, cases, _ := setupScreenshotService(t)

	tc, err := cases.CreateEMember(&CreateTestCaseRequest{
		TestCaseID:   "EM-500",
		Location:     "Smoke",
		TestCaseName: "Portal case",
		Comments:     "run",
		Portal:       "Admin",
	})
	require.NoError(t, err)

	path, err := shots.Add(models.VariantEMember, tc.ID, tc.TestCaseID, "image/jpeg", int64(len(pngBytes)), pngBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/screenshots/EM_500_Admin_"))

	list, err := shots.List(models.VariantEMember, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, []string(list))
}

// failingXPSRepo errors on Save to exercise the compensation path.
type failingXPSRepo struct {
	repository.XPSTestCaseRepository
}

func (r *failingXPSRepo) Save(tc *models.XPSTestCase) error {
	return errors.New("simulated store failure")
}

func TestScreenshotAdd_CompensatesFailedMetadataWrite(t *testing.T) {
	db := setupTestDB(t)
	xpsRepo := repository.NewXPSTestCaseRepository(db)
	ememberRepo := repository.NewEMemberTestCaseRepository(db)

	store, err := storage.NewScreenshotStore(t.TempDir())
	require.NoError(t, err)

	cases := NewTestCaseService(xpsRepo, ememberRepo, nil)
	tc := createXPSForScreenshots(t, cases)

	shots := NewScreenshotService(&failingXPSRepo{xpsRepo}, ememberRepo, store, nil)

	_, err = shots.Add(models.VariantXPS, tc.ID, tc.TestCaseID, "image/png", int64(len(pngBytes)), pngBytes)
	require.Error(t, err)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "orphaned file must be cleaned up after a failed record update")
}
