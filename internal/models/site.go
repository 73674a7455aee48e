package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Settings struct {
	SiteName        string `json:"site_name,omitempty"`
	Tagline         string `json:"tagline,omitempty"`
	HeroImage       string `json:"hero_image,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	IBAN            string `json:"iban,omitempty"`
	PaypalEmail     string `json:"paypal_email,omitempty" validate:"omitempty,email"`
	SocialInstagram string `json:"social_instagram,omitempty"`
	SocialSnapchat  string `json:"social_snapchat,omitempty"`
	SocialTiktok    string `json:"social_tiktok,omitempty"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=5,max=5000"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AdminUser struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
}

type AdminStats struct {
	TotalOrders    int             `json:"total_orders"`
	TotalProducts  int             `json:"total_products"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	PendingOrders  int             `json:"pending_orders"`
	UnreadMessages int             `json:"unread_messages"`
	TotalVisits    int             `json:"total_visits"`
}

type UploadResult struct {
	URL string `json:"url"`
}
