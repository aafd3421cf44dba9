package controllers

import (
	"net/http"

	"github.com/joonseokim/peerlink-backend/api/responses"
	"github.com/joonseokim/peerlink-backend/api/validators"
	"github.com/joonseokim/peerlink-backend/internal/relationships"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/logger"
)

type annotateRequest struct {
	Type string `json:"type" validate:"required"`
}

// ManagedAnnotate sets or replaces the annotation on the user in the path.
func ManagedAnnotate(svc *relationships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relationship service unavailable"))
			return
		}

		sourceID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		targetID, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body annotateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Annotate(r.Context(), sourceID, targetID, body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ManagedClear removes the annotation on the user in the path. Clearing an
// absent annotation succeeds.
func ManagedClear(svc *relationships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relationship service unavailable"))
			return
		}

		sourceID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		targetID, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), sourceID, targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// ManagedList pages through the user's annotations, optionally filtered by the
// type query parameter.
func ManagedList(svc *relationships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relationship service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListManaged(r.Context(), userID, r.URL.Query().Get("type"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// ManagedReceived pages through annotations targeting the user in the path.
// Staff-only: users cannot see who has hidden or blocked them.
func ManagedReceived(svc *relationships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relationship service unavailable"))
			return
		}

		targetID, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListManagedReceived(r.Context(), targetID, r.URL.Query().Get("type"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
