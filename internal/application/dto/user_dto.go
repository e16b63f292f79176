package dto

// UserResponse salida de un usuario.
type UserResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar,omitempty"`
	Role    string `json:"role"`
	Created string `json:"created"`
}

// UserListResponse lista de usuarios (administración).
type UserListResponse struct {
	Items []UserResponse `json:"items"`
}

// UpdateUserRoleRequest body para PUT /api/users/:id/role.
type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}
