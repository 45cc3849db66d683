package policy

import (
	"log"

	"fportal/models"

	"gorm.io/gorm"
)

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	CoursesChecked     int `json:"courses_checked"`
	CoursesFixed       int `json:"courses_fixed"`
	UsersFixed         int `json:"users_fixed"`
	RelationshipsFixed int `json:"relationships_fixed"`
}

func (r *ReconcileReport) merge(other ReconcileReport) {
	r.CoursesChecked += other.CoursesChecked
	r.CoursesFixed += other.CoursesFixed
	r.UsersFixed += other.UsersFixed
	r.RelationshipsFixed += other.RelationshipsFixed
}

// ReconcileCourse regenerates missing user-side mirror entries from a
// course's authoritative relationship rows. Purely additive: existing
// mirror entries are never removed or overwritten, so it is idempotent and
// safe to run repeatedly, including concurrently with live traffic.
func ReconcileCourse(db *gorm.DB, course *models.Course) (ReconcileReport, error) {
	report := ReconcileReport{CoursesChecked: 1}
	touchedUsers := make(map[uint]bool)

	fix := func(userID uint, role string) error {
		created, err := EnsureRef(db, userID, course.ID, role)
		if err != nil {
			return err
		}
		if created {
			report.RelationshipsFixed++
			touchedUsers[userID] = true
		}
		return nil
	}

	if course.FacultyID != 0 {
		if err := fix(course.FacultyID, models.RefTeaching); err != nil {
			return report, err
		}
	}

	var tas []models.CourseTA
	if err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&tas).Error; err != nil {
		return report, err
	}
	for _, ta := range tas {
		if err := fix(ta.UserID, models.RefAssisting); err != nil {
			return report, err
		}
	}

	var enrollments []models.Enrollment
	if err := db.Where("course_id = ? AND status = ? AND is_deleted = ?",
		course.ID, models.EnrollmentActive, false).Find(&enrollments).Error; err != nil {
		return report, err
	}
	for _, e := range enrollments {
		if err := fix(e.StudentID, models.RefEnrolled); err != nil {
			return report, err
		}
	}

	report.UsersFixed = len(touchedUsers)
	if report.RelationshipsFixed > 0 {
		report.CoursesFixed = 1
	}

	return report, nil
}

// ReconcileAll runs ReconcileCourse over every active course. Used by the
// nightly scheduler, the admin fix endpoint, and the standalone script.
func ReconcileAll(db *gorm.DB) (ReconcileReport, error) {
	var report ReconcileReport

	var courses []models.Course
	if err := db.Where("is_deleted = ?", false).Find(&courses).Error; err != nil {
		return report, err
	}

	for i := range courses {
		r, err := ReconcileCourse(db, &courses[i])
		report.merge(r)
		if err != nil {
			log.Printf("[RECONCILE] course %d failed: %v", courses[i].ID, err)
			return report, err
		}
	}

	return report, nil
}
