package dto

// RegisterRequest represents the request body for self registration.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	NationalID string `json:"national_id" validate:"required,max=32"`
	Email      string `json:"email" validate:"required,email,max=255"`
}

// LoginRequest represents the request body for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserInput is the full-replace body for POST and PUT /users.
// An empty password on PUT keeps the stored hash; an empty role keeps the
// stored role.
type UserInput struct {
	ID         uint   `json:"id,omitempty"`
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	NationalID string `json:"national_id" validate:"required,max=32"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}
