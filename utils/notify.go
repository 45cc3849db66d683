package utils

import (
	"log"

	"fportal/database"
	"fportal/models"
)

// NotifyInput describes one notification event to fan out.
type NotifyInput struct {
	Type     string
	SenderID uint
	Title    string
	Message  string
	Priority string
	RefType  string
	RefID    uint
}

// Notify inserts one notification row per recipient. Fire-and-forget:
// failures are logged and swallowed so a notification problem can never
// fail the business operation that triggered it. Each recipient gets an
// independent row; there is no cross-recipient dedup.
func Notify(in NotifyInput, recipientIDs []uint) {
	if len(recipientIDs) == 0 {
		return
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}

	records := make([]models.Notification, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		if rid == 0 || rid == in.SenderID {
			continue
		}
		records = append(records, models.Notification{
			RecipientID: rid,
			SenderID:    in.SenderID,
			Type:        in.Type,
			Title:       in.Title,
			Message:     in.Message,
			Priority:    in.Priority,
			RefType:     in.RefType,
			RefID:       in.RefID,
		})
	}
	if len(records) == 0 {
		return
	}

	if err := database.Database.Db.Create(&records).Error; err != nil {
		log.Printf("[NOTIFY] failed to insert %d notifications (type %s): %v", len(records), in.Type, err)
		return
	}

	if in.Priority == models.PriorityHigh {
		go sendHighPriorityDigest(in, len(records))
	}
}

// sendHighPriorityDigest emails a short digest for high-priority events.
// Best effort, same swallow-errors policy as the insert.
func sendHighPriorityDigest(in NotifyInput, count int) {
	if err := SendEmail(nil, in.Title, in.Message); err != nil {
		log.Printf("[NOTIFY] digest email failed (type %s, %d recipients): %v", in.Type, count, err)
	}
}
