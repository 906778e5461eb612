package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/api/tokens"
	"github.com/Adedunmol/jakpat-univ/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

func AuthMiddleware(tokenService tokens.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				response := jsonutil.Response{
					Status:  "error",
					Message: "authorization header required",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			tokenString := strings.Split(authHeader, " ")

			if len(tokenString) != 2 || tokenString[0] != "Bearer" {
				response := jsonutil.Response{
					Status:  "error",
					Message: "invalid authorization header format",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			data, err := tokenService.DecodeToken(tokenString[1])
			if err != nil {
				logger.WithError(err).Debugf("rejected token for %s", request.URL.Path)
				response := jsonutil.Response{
					Status:  "error",
					Message: "invalid or expired token",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(request.Context(), claimsKey, data)
			next.ServeHTTP(responseWriter, request.WithContext(ctx))
		})
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			claims, ok := ClaimsFromContext(request.Context())
			if !ok || claims.Role != role {
				response := jsonutil.Response{
					Status:  "error",
					Message: "you are not allowed to access this resource",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusForbidden)
				return
			}
			next.ServeHTTP(responseWriter, request)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*tokens.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*tokens.Claims)
	return claims, ok
}
