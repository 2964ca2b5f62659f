// internal/workers/notification/send-assessment-notification/models.go
package sendassessmentnotification

type Input struct {
	UserID       string   `json:"userId"`
	AssessmentID string   `json:"assessmentId,omitempty"`
	Phone        string   `json:"phone,omitempty"` // E.164; profiles carry no phone number
	TopCareers   []string `json:"topCareers,omitempty"`
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	Status         string            `json:"status"` // "sent", "failed", "disabled"
	Channels       map[string]string `json:"channels,omitempty"`
	SentAt         string            `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
