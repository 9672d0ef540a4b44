package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestStringArray_Value(t *testing.T) {
	t.Run("nil serializes as empty array", func(t *testing.T) {
		var a StringArray
		v, err := a.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("paths serialize as JSON array", func(t *testing.T) {
		a := StringArray{"/screenshots/a.png", "/screenshots/b.png"}
		v, err := a.Value()
		require.NoError(t, err)
		assert.Equal(t, `["/screenshots/a.png","/screenshots/b.png"]`, v)
	})
}

func TestStringArray_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  StringArray
	}{
		{"nil", nil, StringArray{}},
		{"empty string", "", StringArray{}},
		{"empty array", "[]", StringArray{}},
		{"valid array", `["/screenshots/a.png"]`, StringArray{"/screenshots/a.png"}},
		{"byte slice", []byte(`["/screenshots/a.png","/screenshots/b.png"]`), StringArray{"/screenshots/a.png", "/screenshots/b.png"}},
		{"malformed JSON degrades to empty", "{not json", StringArray{}},
		{"wrong JSON shape degrades to empty", `{"a":1}`, StringArray{}},
		{"unsupported type degrades to empty", 42, StringArray{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a StringArray
			err := a.Scan(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestBeforeCreate_AssignsID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&XPSTestCase{}, &EMemberTestCase{}))

	xps := &XPSTestCase{TestCaseID: "TC-1", Location: "Regression", TestCaseName: "Login works"}
	require.NoError(t, db.Create(xps).Error)
	assert.NotEmpty(t, xps.ID)

	em := &EMemberTestCase{TestCaseID: "EM-1", Location: "Smoke", TestCaseName: "Portal loads", Comments: "ok"}
	require.NoError(t, db.Create(em).Error)
	assert.NotEmpty(t, em.ID)
	assert.NotEqual(t, xps.ID, em.ID)
}

func TestScreenshotsRoundTripThroughStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&XPSTestCase{}))

	tc := &XPSTestCase{
		TestCaseID:   "TC-2",
		Location:     "Regression",
		TestCaseName: "Export works",
		Screenshots:  StringArray{"/screenshots/one.png"},
	}
	require.NoError(t, db.Create(tc).Error)

	var got XPSTestCase
	require.NoError(t, db.Where("id = ?", tc.ID).First(&got).Error)
	assert.Equal(t, StringArray{"/screenshots/one.png"}, got.Screenshots)
}

func TestScreenshotsMalformedColumnReadsAsEmpty(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&XPSTestCase{}))

	tc := &XPSTestCase{TestCaseID: "TC-3", Location: "Regression", TestCaseName: "Bad data"}
	require.NoError(t, db.Create(tc).Error)
	require.NoError(t, db.Model(&XPSTestCase{}).Where("id = ?", tc.ID).
		Update("screenshots", "not-a-json-array").Error)

	var got XPSTestCase
	require.NoError(t, db.Where("id = ?", tc.ID).First(&got).Error)
	assert.Empty(t, got.Screenshots)
}
