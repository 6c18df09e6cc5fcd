package models

import "time"

// User represents an app account (rider, driver, or admin)
type User struct {
	UserID        string    `json:"user_id" firestore:"userId"`
	Email         string    `json:"email" firestore:"email"`
	PasswordHash  string    `json:"-" firestore:"passwordHash"` // never returned in JSON
	Name          string    `json:"name" firestore:"name"`
	Role          string    `json:"role" firestore:"role"` // "rider", "driver" or "admin"
	FavoriteStops []string  `json:"favorite_stops" firestore:"favoriteStops"`
	FCMToken      string    `json:"-" firestore:"fcmToken"`
	LastActive    time.Time `json:"last_active,omitempty" firestore:"lastActive"`
	CreatedAt     time.Time `json:"created_at,omitempty" firestore:"createdAt"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	UserID        string   `json:"user_id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	FavoriteStops []string `json:"favorite_stops"`
}

// ToUserResponse strips credentials for API responses
func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		FavoriteStops: u.FavoriteStops,
	}
}

// IsFavoriteStop reports whether the user starred the given stop
func (u *User) IsFavoriteStop(stopID string) bool {
	for _, id := range u.FavoriteStops {
		if id == stopID {
			return true
		}
	}
	return false
}
