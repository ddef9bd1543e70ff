package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"little-lemon/analytics-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	msgNoToken      = "Authentication credentials were not provided."
	msgInvalidToken = "Invalid token."
	msgForbidden    = "You do not have permission to perform this action."
)

// userIDFromToken verifies an HS256 bearer token and returns its user_id claim.
func userIDFromToken(tokenStr string, secret []byte) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, errors.New("missing user_id claim")
	}
}

// requireSalesAccess lets through managers and staff admins only. Sales
// figures are not visible to customers or delivery crew.
func (h *Handler) requireSalesAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeDetail(w, http.StatusUnauthorized, msgNoToken)
			return
		}
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeDetail(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		userID, err := userIDFromToken(tokenStr, h.Secret)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		allowed, err := h.Analytics.CanViewSales(r.Context(), userID)
		switch {
		case errors.Is(err, domain.ErrUnknownUser):
			writeDetail(w, http.StatusUnauthorized, msgInvalidToken)
			return
		case err != nil:
			log.Printf("Error resolving user %d: %v", userID, err)
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		case !allowed:
			writeDetail(w, http.StatusForbidden, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
