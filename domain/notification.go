package domain

import "time"

type NotificationType string

const (
	NotificationFollow           NotificationType = "follow"
	NotificationComment          NotificationType = "comment"
	NotificationLike             NotificationType = "like"
	NotificationReview           NotificationType = "review"
	NotificationTipApproved      NotificationType = "tip_approved"
	NotificationGuidePublished   NotificationType = "guide_published"
	NotificationLocationApproved NotificationType = "location_approved"
	NotificationMatch            NotificationType = "match"
	NotificationSystem           NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationFollow, NotificationComment, NotificationLike, NotificationReview,
		NotificationTipApproved, NotificationGuidePublished, NotificationLocationApproved,
		NotificationMatch, NotificationSystem:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is an in-app notification record. Only Read and ReadAt
// change after creation.
type Notification struct {
	Id        string            `bson:"_id" json:"id"`
	Recipient string            `bson:"recipient" json:"recipient"`
	Type      NotificationType  `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Message   string            `bson:"message" json:"message"`
	Metadata  map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Priority  Priority          `bson:"priority" json:"priority"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	ReadAt    *time.Time        `bson:"readAt,omitempty" json:"readAt,omitempty"`
}
