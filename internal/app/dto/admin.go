package dto

import (
	"time"

	domainadmin "vibestays/internal/domain/admin"
)

type AdminProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     AdminProfile `json:"admin"`
}

func MapAdminProfile(user *domainadmin.User) AdminProfile {
	if user == nil {
		return AdminProfile{}
	}
	return AdminProfile{
		ID:        string(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// ImageUpload is the stored location of an uploaded listing image.
type ImageUpload struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
