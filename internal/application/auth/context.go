package auth

import "context"

type tokenKey struct{}

// WithToken adjunta el token del usuario al contexto para que los adaptadores
// hablen con el almacén en su nombre.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom devuelve el token adjunto ("" si no hay).
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
