package service

import (
	"context"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

type ContactAPI interface {
	SendContact(ctx context.Context, msg models.ContactRequest) error
}

type ContactService interface {
	SendMessage(ctx context.Context, req *models.ContactRequest) error
}

type contactService struct {
	api    ContactAPI
	policy *bluemonday.Policy
}

func NewContactService(api ContactAPI) ContactService {
	return &contactService{api: api, policy: bluemonday.StrictPolicy()}
}

// SendMessage strips markup from every field before forwarding.
func (s *contactService) SendMessage(ctx context.Context, req *models.ContactRequest) error {
	clean := models.ContactRequest{
		Name:    s.sanitize(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: s.sanitize(req.Subject),
		Message: s.sanitize(req.Message),
	}

	return s.api.SendContact(ctx, clean)
}

func (s *contactService) sanitize(v string) string {
	// StrictPolicy escapes what it keeps; the backend stores plain text
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}
