package policy

import (
	"testing"
	"time"

	"fportal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func refCount(t *testing.T, db *gorm.DB, courseID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CourseRef{}).Where("course_id = ?", courseID).Count(&n).Error)
	return n
}

func TestReconcileCourseBackfillsMissingRefs(t *testing.T) {
	db := openTestDb(t)
	faculty := seedUser(t, db, models.RoleFaculty)
	ta := seedUser(t, db, models.RoleTA)
	s1 := seedUser(t, db, models.RoleStudent)
	s2 := seedUser(t, db, models.RoleStudent)
	dropped := seedUser(t, db, models.RoleStudent)
	course := seedCourse(t, db, faculty.ID)

	require.NoError(t, db.Create(&models.CourseTA{CourseID: course.ID, UserID: ta.ID}).Error)
	for _, s := range []*models.User{s1, s2} {
		require.NoError(t, db.Create(&models.Enrollment{
			CourseID: course.ID, StudentID: s.ID, Status: models.EnrollmentActive, EnrolledAt: time.Now(),
		}).Error)
	}
	require.NoError(t, db.Create(&models.Enrollment{
		CourseID: course.ID, StudentID: dropped.ID, Status: models.EnrollmentDropped, EnrolledAt: time.Now(),
	}).Error)

	// No mirror entries exist yet: faculty + TA + 2 active students missing
	report, err := ReconcileCourse(db, course)
	require.NoError(t, err)

	assert.Equal(t, 1, report.CoursesChecked)
	assert.Equal(t, 1, report.CoursesFixed)
	assert.Equal(t, 4, report.UsersFixed)
	assert.Equal(t, 4, report.RelationshipsFixed)
	assert.EqualValues(t, 4, refCount(t, db, course.ID))

	// Dropped students get no mirror entry
	var n int64
	db.Model(&models.CourseRef{}).Where("user_id = ?", dropped.ID).Count(&n)
	assert.EqualValues(t, 0, n)
}

func TestReconcileCourseIdempotent(t *testing.T) {
	db := openTestDb(t)
	faculty := seedUser(t, db, models.RoleFaculty)
	student := seedUser(t, db, models.RoleStudent)
	course := seedCourse(t, db, faculty.ID)

	require.NoError(t, db.Create(&models.Enrollment{
		CourseID: course.ID, StudentID: student.ID, Status: models.EnrollmentActive, EnrolledAt: time.Now(),
	}).Error)

	first, err := ReconcileCourse(db, course)
	require.NoError(t, err)
	assert.Equal(t, 2, first.RelationshipsFixed)

	second, err := ReconcileCourse(db, course)
	require.NoError(t, err)
	assert.Equal(t, 0, second.RelationshipsFixed)
	assert.Equal(t, 0, second.CoursesFixed)
	assert.Equal(t, 0, second.UsersFixed)

	assert.EqualValues(t, 2, refCount(t, db, course.ID))
}

func TestReconcileIsAdditiveOnly(t *testing.T) {
	db := openTestDb(t)
	faculty := seedUser(t, db, models.RoleFaculty)
	course := seedCourse(t, db, faculty.ID)

	// A pre-existing mirror entry that no longer matches any authoritative
	// relationship must survive: the reconciler never removes entries.
	stale := models.CourseRef{UserID: 9999, CourseID: course.ID, Role: models.RefEnrolled}
	require.NoError(t, db.Create(&stale).Error)

	_, err := ReconcileCourse(db, course)
	require.NoError(t, err)

	var check models.CourseRef
	assert.NoError(t, db.Where("user_id = ? AND course_id = ?", stale.UserID, course.ID).First(&check).Error)
}

func TestReconcileAll(t *testing.T) {
	db := openTestDb(t)
	f1 := seedUser(t, db, models.RoleFaculty)
	f2 := seedUser(t, db, models.RoleFaculty)
	c1 := seedCourse(t, db, f1.ID)
	c2 := seedCourse(t, db, f2.ID)

	// c1 already has its mirror entry; only c2 needs repair
	_, err := EnsureRef(db, f1.ID, c1.ID, models.RefTeaching)
	require.NoError(t, err)

	report, err := ReconcileAll(db)
	require.NoError(t, err)

	assert.Equal(t, 2, report.CoursesChecked)
	assert.Equal(t, 1, report.CoursesFixed)
	assert.Equal(t, 1, report.RelationshipsFixed)
	assert.EqualValues(t, 1, refCount(t, db, c2.ID))
}
