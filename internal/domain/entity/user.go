package entity

// Roles válidos para User. El rol es la única señal de autorización.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario autenticado por el proveedor de identidad externo.
type User struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Avatar  string   `json:"avatar,omitempty"`
	Role    string   `json:"role"` // admin, user (vacío se interpreta como user)
	Created DateTime `json:"created"`
	Updated DateTime `json:"updated"`
}

// EffectiveRole devuelve el rol normalizado.
func (u User) EffectiveRole() string {
	if u.Role == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin indica si el usuario tiene rol admin.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RecordID implementa la identidad usada por el reconciliador.
func (u User) RecordID() string { return u.ID }

// CreatedAt devuelve el timestamp de creación.
func (u User) CreatedAt() DateTime { return u.Created }

// ValidRole indica si role es uno de los roles admitidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
