package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	pkgjwt "github.com/jhoicas/inventory-tracker/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

type fakeIdentity struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
	calls int
}

func (f *fakeIdentity) Authenticate(_ context.Context, token string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func token(t *testing.T, minutes int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testSecret, "u1", entity.RoleUser, "test", minutes)
	require.NoError(t, err)
	return tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Session
// ──────────────────────────────────────────────────────────────────────────────

func TestSession_SaveClearNotifica(t *testing.T) {
	s := auth.NewSession()
	var seen []*entity.User
	cancel := s.OnChange(func(u *entity.User) { seen = append(seen, u) })

	s.Save(token(t, 60), &entity.User{ID: "u1", Role: entity.RoleAdmin})
	s.Clear()
	s.Clear() // sin cambios: no notifica
	cancel()
	s.Save("x", &entity.User{ID: "u2"})

	require.Len(t, seen, 2)
	assert.Equal(t, "u1", seen[0].ID)
	assert.Nil(t, seen[1])
}

func TestSession_IsValid(t *testing.T) {
	s := auth.NewSession()
	assert.False(t, s.IsValid(), "sin token no hay sesión válida")

	s.Save(token(t, 60), &entity.User{ID: "u1"})
	assert.True(t, s.IsValid())

	s.Save(token(t, -1), &entity.User{ID: "u1"})
	assert.False(t, s.IsValid(), "token expirado")

	s.Save("opaco", &entity.User{ID: "u1"})
	assert.True(t, s.IsValid(), "token sin exp legible se deja al proveedor")
}

func TestSession_UserEsCopia(t *testing.T) {
	s := auth.NewSession()
	s.Save("t", &entity.User{ID: "u1", Name: "Ana"})

	u := s.User()
	u.Name = "otro"
	assert.Equal(t, "Ana", s.User().Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// SessionService
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionService_InitRefrescaUsuario(t *testing.T) {
	tok := token(t, 60)
	idp := &fakeIdentity{users: map[string]*entity.User{tok: {ID: "u1", Role: entity.RoleAdmin}}}
	s := auth.NewSession()
	s.Save(tok, &entity.User{ID: "u1", Role: entity.RoleUser})

	svc := auth.NewSessionService(s, idp)
	require.NoError(t, svc.Init(context.Background()))

	assert.True(t, svc.IsAdmin(), "el rol se toma del proveedor, no del valor guardado")
	assert.Equal(t, 1, idp.calls)
}

func TestSessionService_InitLimpiaSiElProveedorRechaza(t *testing.T) {
	idp := &fakeIdentity{users: map[string]*entity.User{}}
	s := auth.NewSession()
	s.Save(token(t, 60), &entity.User{ID: "u1"})

	svc := auth.NewSessionService(s, idp)
	assert.ErrorIs(t, svc.Init(context.Background()), domain.ErrUnauthorized)
	assert.Nil(t, svc.Current())
	assert.Empty(t, s.Token())
}

func TestSessionService_InitSinToken(t *testing.T) {
	idp := &fakeIdentity{}
	svc := auth.NewSessionService(auth.NewSession(), idp)

	require.NoError(t, svc.Init(context.Background()))
	assert.Zero(t, idp.calls)
	assert.False(t, svc.IsAdmin())
}

func TestSessionService_LoginLogoutClose(t *testing.T) {
	tok := token(t, 60)
	idp := &fakeIdentity{users: map[string]*entity.User{tok: {ID: "u1"}}}
	s := auth.NewSession()
	svc := auth.NewSessionService(s, idp)

	notified := 0
	s.OnChange(func(*entity.User) { notified++ })

	u, err := svc.Login(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "u1", svc.Current().ID)

	svc.Close()
	svc.Logout()
	assert.Nil(t, svc.Current())
	assert.Equal(t, 1, notified, "tras Close no quedan listeners")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthUseCase_Authenticate(t *testing.T) {
	idp := &fakeIdentity{users: map[string]*entity.User{"ok": {ID: "u1"}}}
	uc := auth.NewAuthUseCase(idp)
	ctx := context.Background()

	u, err := uc.Authenticate(ctx, " ok ")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = uc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Authenticate(ctx, "otro")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	idp.err = errors.New("dial tcp: connection refused")
	_, err = uc.Authenticate(ctx, "ok")
	assert.NotErrorIs(t, err, domain.ErrUnauthorized, "una falla de transporte no es un rechazo")
}

func TestAuthUseCase_MeRolPorDefecto(t *testing.T) {
	uc := auth.NewAuthUseCase(&fakeIdentity{})

	res, err := uc.Me(&entity.User{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, res.Role, "rol vacío se lee como user")

	_, err = uc.Me(nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
