package controllers

import (
	"net/http"

	"github.com/joonseokim/peerlink-backend/api/middleware"
	"github.com/joonseokim/peerlink-backend/api/responses"
)

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}

// PingPrivate echoes the authenticated user, proving the token round trip.
func PingPrivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"message":  "pong",
			"user_id":  middleware.UserIDFromContext(r.Context()),
			"is_staff": middleware.IsStaffFromContext(r.Context()),
		})
	}
}
