package handler

// Validation constants for auth input.
const (
	minPasswordLength = 8
	maxPasswordLength = 100
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type confirmChoiceRequest struct {
	ChoiceID int64 `json:"choice_id" binding:"required"`
}
