package services

import (
	"database/sql"
	"log"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
)

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Hourly session sweep
			if now.Minute() == 0 {
				n, err := database.DeleteExpiredSessions(db)
				if err != nil {
					log.Printf("Error deleting expired sessions: %v", err)
				} else if n > 0 {
					log.Printf("Deleted %d expired sessions", n)
				}
			}

			// Daily reconciliation backlog report at 08:30
			if now.Hour() == 8 && now.Minute() == 30 {
				log.Println("Triggering scheduled tasks [08:30]...")
				if err := ReportSyncBacklog(db); err != nil {
					log.Printf("Error reporting sync backlog: %v", err)
				}
			}
		}
	}()
}
