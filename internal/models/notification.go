package models

// NotificationType selects the email layout.
type NotificationType string

const (
	NotificationNewRequest       NotificationType = "new_request"
	NotificationRequestScheduled NotificationType = "request_scheduled"
	NotificationRequestCompleted NotificationType = "request_completed"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationNewRequest, NotificationRequestScheduled, NotificationRequestCompleted:
		return true
	}
	return false
}

// NotificationRequest is the /send-email body. Optional fields that are
// absent or null decode to "".
type NotificationRequest struct {
	Type          NotificationType `json:"type"`
	To            string           `json:"to"`
	ResidentName  string           `json:"residentName"`
	PropertyName  string           `json:"propertyName"`
	UnitNumber    string           `json:"unitNumber"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	ScheduledDate string           `json:"scheduledDate"`
}

// SMSRequest is the /send-sms body.
type SMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type RenderedEmail struct {
	Subject string
	HTML    string
}
