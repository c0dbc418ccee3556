// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package middleware

import (
	"net/http"
	"strings"

	"github.com/nabtahq/nabta/internal/platform/ctxutil"
	"github.com/nabtahq/nabta/internal/platform/sec"
)

// # Authentication

// TokenVerifier defines the behavior needed to validate access tokens.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Authenticate extracts and validates the Bearer token if present.
// It does NOT reject anonymous requests; use RequireAuth for that.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Look for the Authorization header
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Enforce the Bearer scheme
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
				return
			}

			// 3. Verify signature and expiry
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
				return
			}

			// 4. Attach the identity to the request context
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no verified identity.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if ctxutil.GetAuthUser(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Authorization

// RequireRole rejects authenticated requests below the minimum role.
// Role ordering follows the staff ladder: admin > store_manager > moderator > user.
func RequireRole(minimum sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !sec.Role(claims.Role).AtLeast(minimum) {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Insufficient role")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireCapability rejects requests whose role does not carry the capability.
// An unregistered capability name is a programming error and fails closed.
func RequireCapability(capability sec.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			permissions := sec.PermissionsFor(sec.Role(claims.Role))
			allowed, err := permissions.Has(capability)
			if err != nil {
				writeError(writer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Capability check failed")
				return
			}

			if !allowed {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
