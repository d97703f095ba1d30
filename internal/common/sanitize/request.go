package sanitize

import "notification-relay/internal/models"

// Request escapes every field that is interpolated into the email subject or
// body. Type and To are passed through unchanged.
func Request(req models.NotificationRequest) models.NotificationRequest {
	return models.NotificationRequest{
		Type:          req.Type,
		To:            req.To,
		ResidentName:  String(req.ResidentName),
		PropertyName:  String(req.PropertyName),
		UnitNumber:    String(req.UnitNumber),
		Category:      String(req.Category),
		Description:   String(req.Description),
		ScheduledDate: String(req.ScheduledDate),
	}
}
