package utils

import (
	"fmt"
	"log"
	"time"

	"fportal/config"
	"fportal/database"
	"fportal/policy"

	"github.com/robfig/cron/v3"
)

func logReconciler(message string) {
	log.Printf("[ACCESS-RECONCILER %s] %s", time.Now().Format(time.RFC3339), message)
}

// RunAccessControlFix reconciles the course/user mirror across the whole
// corpus once and logs the outcome.
func RunAccessControlFix() {
	logReconciler("Starting access-control reconciliation...")

	report, err := policy.ReconcileAll(database.Database.Db)
	if err != nil {
		logReconciler("Reconciliation aborted: " + err.Error())
		return
	}

	logReconciler(fmt.Sprintf("Done: %d courses checked, %d courses fixed, %d users fixed, %d relationships fixed",
		report.CoursesChecked, report.CoursesFixed, report.UsersFixed, report.RelationshipsFixed))
}

// StartReconcileScheduler registers the nightly reconciliation job. The
// mirror tables drift when call-site maintenance is missed; this keeps them
// converging without manual intervention.
func StartReconcileScheduler() *cron.Cron {
	c := cron.New()

	spec := config.AppConfig.ReconcileCron
	if _, err := c.AddFunc(spec, RunAccessControlFix); err != nil {
		log.Printf("Invalid RECONCILE_CRON %q, falling back to daily: %v", spec, err)
		c.AddFunc("@daily", RunAccessControlFix)
	}

	c.Start()
	logReconciler("Scheduler started with spec " + spec)
	return c
}
