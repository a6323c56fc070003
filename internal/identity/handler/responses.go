package handler

import (
	"taskgate/internal/identity/models"
)

// UserResponse is the public view of a user. The password hash never appears.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// AuthResponse carries the user and their access token.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

func fromUser(user *models.User, token string) AuthResponse {
	return AuthResponse{
		User: UserResponse{
			ID:        user.ID.String(),
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      string(user.Role),
		},
		AccessToken: token,
		TokenType:   "Bearer",
	}
}
