package request

// UpdateUserRequest is the partial-update body of the admin console.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	IsAdmin *bool   `json:"isAdmin,omitempty"`
}
