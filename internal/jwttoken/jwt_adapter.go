package jwttoken

import (
	id "taskgate/pkg/domain"

	authmw "taskgate/internal/platform/middleware"
)

// JWTServiceAdapter bridges the token service to the middleware's validator
// interface, converting string claims into typed IDs.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		UserID: userID,
		Role:   claims.Role,
	}, nil
}
