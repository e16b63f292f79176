package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	pkgjwt "github.com/jhoicas/inventory-tracker/pkg/jwt"
)

// Session guarda el token del backend y el modelo del usuario autenticado.
// Se construye explícitamente y se inyecta donde haga falta.
type Session struct {
	mu        sync.RWMutex
	token     string
	user      *entity.User
	listeners map[int]func(*entity.User)
	nextID    int
	now       func() time.Time
}

// NewSession crea una sesión vacía.
func NewSession() *Session {
	return &Session{listeners: map[int]func(*entity.User){}, now: time.Now}
}

// Save reemplaza token y usuario y notifica a los listeners.
func (s *Session) Save(token string, user *entity.User) {
	s.mu.Lock()
	s.token = token
	s.user = cloneUser(user)
	fns := s.snapshotListeners()
	s.mu.Unlock()
	s.emit(fns, user)
}

// Clear borra la sesión y notifica con usuario nil.
func (s *Session) Clear() {
	s.mu.Lock()
	changed := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	fns := s.snapshotListeners()
	s.mu.Unlock()
	if changed {
		s.emit(fns, nil)
	}
}

// Token devuelve el token actual ("" sin sesión).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User devuelve una copia del usuario actual (nil sin sesión).
func (s *Session) User() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// IsValid indica si hay token y no expiró. Tokens sin exp legible se consideran válidos
// hasta que el proveedor los rechace.
func (s *Session) IsValid() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return false
	}
	exp, ok := pkgjwt.ExpiresAt(token)
	if !ok {
		return true
	}
	return s.now().Before(exp)
}

// OnChange registra fn para cada cambio de usuario; la función devuelta lo da de baja.
func (s *Session) OnChange(fn func(*entity.User)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) removeListeners() {
	s.mu.Lock()
	s.listeners = map[int]func(*entity.User){}
	s.mu.Unlock()
}

func (s *Session) snapshotListeners() []func(*entity.User) {
	fns := make([]func(*entity.User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func (s *Session) emit(fns []func(*entity.User), user *entity.User) {
	for _, fn := range fns {
		fn(cloneUser(user))
	}
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// SessionService ciclo de vida de la sesión contra el proveedor de identidad.
type SessionService struct {
	session  *Session
	identity repository.IdentityProvider
}

// NewSessionService construye el servicio sobre una sesión existente.
func NewSessionService(session *Session, identity repository.IdentityProvider) *SessionService {
	return &SessionService{session: session, identity: identity}
}

// Init revalida el token guardado (si existe) y refresca el usuario.
// Si el proveedor lo rechaza, la sesión se limpia y se devuelve el error.
func (s *SessionService) Init(ctx context.Context) error {
	token := s.session.Token()
	if token == "" {
		return nil
	}
	user, err := s.identity.Authenticate(ctx, token)
	if err != nil {
		s.session.Clear()
		return err
	}
	s.session.Save(token, user)
	return nil
}

// Login guarda un token nuevo previa validación con el proveedor.
func (s *SessionService) Login(ctx context.Context, token string) (*entity.User, error) {
	user, err := s.identity.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	s.session.Save(token, user)
	return cloneUser(user), nil
}

// Current devuelve el usuario de la sesión si es válida.
func (s *SessionService) Current() *entity.User {
	if !s.session.IsValid() {
		return nil
	}
	return s.session.User()
}

// IsAdmin indica si el usuario actual es admin.
func (s *SessionService) IsAdmin() bool {
	u := s.Current()
	return u != nil && u.IsAdmin()
}

// Logout limpia la sesión.
func (s *SessionService) Logout() { s.session.Clear() }

// Close da de baja todos los listeners de la sesión.
func (s *SessionService) Close() { s.session.removeListeners() }
