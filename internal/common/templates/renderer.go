// Package templates renders the Spanish notification emails.
//
// Layouts are text/template, not html/template: every interpolated value is
// escaped by the sanitize package before it reaches Render.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"notification-relay/internal/common/sanitize"
	"notification-relay/internal/models"
)

//go:embed layouts/*.tmpl
var layoutFS embed.FS

type Renderer struct {
	layouts   map[models.NotificationType]*template.Template
	adminURL  string
	portalURL string
}

type layoutData struct {
	models.NotificationRequest
	AdminURL  string
	PortalURL string
}

// New parses one layout per notification type. The dashboard and portal
// links are escaped like any other interpolated value.
func New(adminURL, portalURL string) (*Renderer, error) {
	types := []models.NotificationType{
		models.NotificationNewRequest,
		models.NotificationRequestScheduled,
		models.NotificationRequestCompleted,
	}

	layouts := make(map[models.NotificationType]*template.Template, len(types))
	for _, t := range types {
		name := fmt.Sprintf("layouts/%s.tmpl", t)
		tmpl, err := template.ParseFS(layoutFS, name)
		if err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", t, err)
		}
		layouts[t] = tmpl
	}

	return &Renderer{
		layouts:   layouts,
		adminURL:  sanitize.String(adminURL),
		portalURL: sanitize.String(portalURL),
	}, nil
}

// Render fills the layout for req.Type. req must already be sanitized. An
// unknown type renders an empty subject and body.
func (r *Renderer) Render(req models.NotificationRequest) (models.RenderedEmail, error) {
	tmpl, ok := r.layouts[req.Type]
	if !ok {
		return models.RenderedEmail{}, nil
	}

	data := layoutData{
		NotificationRequest: req,
		AdminURL:            r.adminURL,
		PortalURL:           r.portalURL,
	}

	var subject, body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return models.RenderedEmail{}, fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.ExecuteTemplate(&body, "body", data); err != nil {
		return models.RenderedEmail{}, fmt.Errorf("render body: %w", err)
	}

	return models.RenderedEmail{
		Subject: subject.String(),
		HTML:    strings.TrimSpace(body.String()),
	}, nil
}
