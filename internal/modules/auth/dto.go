package auth

type RegisterRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=customer business-owner admin"`
}
