// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	userdom "toko/internal/domain/user"
)

// FirebaseAuthClient は firebase auth クライアントのエイリアス。
type FirebaseAuthClient = fbauth.Client

// context key は string を使わず、衝突回避のため独自型を使用（SA1029 対策）
type ctxKey struct{ name string }

var ctxKeyIdentity = ctxKey{name: "currentIdentity"}

// TokenVerifier abstracts Firebase ID token verification so tests can inject a
// fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// AuthMiddleware は
//
//   - Authorization: Bearer <ID_TOKEN>
//
// を検証し、users/{uid} のプロフィールを context に詰めて次のハンドラへ渡す。
// プロフィール doc が無ければ role=user で作成する（初回サインイン bootstrap）。
type AuthMiddleware struct {
	Verifier TokenVerifier
	UserRepo userdom.Repository
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Verifier == nil || m.UserRepo == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		email := claimString(token, "email")
		name := claimString(token, "name")

		identity, err := m.resolveIdentity(r.Context(), uid, email, name)
		if err != nil {
			log.Printf("[AuthMiddleware] path=%s uid=%s profile resolve failed: %v", r.URL.Path, uid, err)
			http.Error(w, "profile unavailable", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// resolveIdentity loads the profile, creating it on first sign-in.
// 新規ユーザーは必ず role=user で始まる。admin 昇格は DB 側でのみ行う。
func (m *AuthMiddleware) resolveIdentity(ctx context.Context, uid, email, name string) (userdom.Identity, error) {
	existing, err := m.UserRepo.GetByUID(ctx, uid)
	if err != nil {
		return userdom.Identity{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	identity, err := userdom.NewIdentity(uid, email, name, userdom.RoleUser)
	if err != nil {
		return userdom.Identity{}, err
	}
	if err := m.UserRepo.Save(ctx, identity); err != nil {
		return userdom.Identity{}, err
	}
	log.Printf("[AuthMiddleware] bootstrapped profile uid=%s role=%s", uid, identity.Role)
	return identity, nil
}

// WithIdentity injects the identity into ctx. Exported for handler tests.
func WithIdentity(ctx context.Context, id userdom.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// CurrentIdentity は middleware で検証された Identity を返します。
func CurrentIdentity(r *http.Request) (userdom.Identity, bool) {
	v := r.Context().Value(ctxKeyIdentity)
	if v == nil {
		return userdom.Identity{}, false
	}
	id, ok := v.(userdom.Identity)
	if !ok || strings.TrimSpace(id.UID) == "" {
		return userdom.Identity{}, false
	}
	return id, true
}

func claimString(token *fbauth.Token, key string) string {
	if token == nil || token.Claims == nil {
		return ""
	}
	if raw, ok := token.Claims[key]; ok {
		if s, ok2 := raw.(string); ok2 {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
