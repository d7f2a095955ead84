package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	// every pooled connection would otherwise see its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.MetricsModels()...))
	require.NoError(t, db.AutoMigrate(models.PlatformModels()...))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

type platformFixture struct {
	db *gorm.DB
	t  *testing.T
}

func (f platformFixture) site(id uint, domain string) {
	require.NoError(f.t, f.db.Create(&models.SiteModel{ID: id, Domain: domain, Name: domain}).Error)
}

func (f platformFixture) user(id, siteID uint, username, fullname string, joined time.Time) {
	require.NoError(f.t, f.db.Create(&models.UserModel{
		ID:         id,
		SiteID:     siteID,
		Username:   username,
		Email:      username + "@example.com",
		IsActive:   true,
		DateJoined: joined,
	}).Error)
	require.NoError(f.t, f.db.Create(&models.UserProfileModel{
		ID:      id,
		UserID:  id,
		Name:    fullname,
		Country: "CA",
	}).Error)
}

func (f platformFixture) course(id string, siteID uint, name string) {
	start := day(2018, 1, 1)
	require.NoError(f.t, f.db.Create(&models.CourseOverviewModel{
		ID:          id,
		SiteID:      siteID,
		DisplayName: name,
		Number:      "NUM",
		Org:         "ORG",
		Start:       &start,
	}).Error)
}

func (f platformFixture) enroll(id, userID uint, courseID string, created time.Time, active bool) {
	require.NoError(f.t, f.db.Create(&models.CourseEnrollmentModel{
		ID:       id,
		UserID:   userID,
		CourseID: courseID,
		Created:  created,
		IsActive: active,
		Mode:     "audit",
	}).Error)
	if !active {
		require.NoError(f.t, f.db.Model(&models.CourseEnrollmentModel{}).Where("id = ?", id).Update("is_active", false).Error)
	}
}

func (f platformFixture) touch(userID uint, courseID string, at time.Time) {
	require.NoError(f.t, f.db.Create(&models.StudentModuleModel{StudentID: userID, CourseID: courseID, Modified: at}).Error)
}

// insertFirst registers a create callback that runs insert once, just before
// the next INSERT into table. It stands in for a concurrent writer that wins
// the unique index between a repository's lookup and its own insert.
func insertFirst(t *testing.T, gdb *gorm.DB, table string, insert func(tx *gorm.DB) error) {
	t.Helper()

	fired := false
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:insert_first", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		if err := insert(tx.Session(&gorm.Session{NewDB: true})); err != nil {
			_ = tx.AddError(err)
		}
	}))
}
