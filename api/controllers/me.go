package controllers

import (
	"net/http"

	"github.com/joonseokim/peerlink-backend/api/responses"
	"github.com/joonseokim/peerlink-backend/api/validators"
	"github.com/joonseokim/peerlink-backend/internal/media"
	"github.com/joonseokim/peerlink-backend/internal/users"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/logger"
)

type updateProfileRequest struct {
	Nickname  *string `json:"nickname,omitempty"`
	BirthYear *int    `json:"birth_year,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Country   *string `json:"country,omitempty"`
	City      *string `json:"city,omitempty"`
	TimeZone  *string `json:"time_zone,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// MeGet returns the authenticated account with its derived labels.
func MeGet(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetView(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// MeUpdate applies partial profile updates. Identity fields are not accepted.
func MeUpdate(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProfile(r.Context(), userID, users.UpdateProfileParams{
			Nickname:  body.Nickname,
			BirthYear: body.BirthYear,
			Gender:    body.Gender,
			Country:   body.Country,
			City:      body.City,
			TimeZone:  body.TimeZone,
			Language:  body.Language,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// MeUploadProfileImage streams the multipart image into blob storage and
// stores the object reference on the account.
func MeUploadProfileImage(userSvc *users.Service, mediaSvc *media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userSvc == nil || mediaSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer func() { _ = file.Close() }()

		ref, err := mediaSvc.UploadProfileImage(r.Context(), userID, header.Header.Get("Content-Type"), header.Size, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := userSvc.SetProfileImage(r.Context(), userID, ref); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"profile_image": ref})
	}
}

// MeDeactivate soft-disables the authenticated account. The row and its edges
// stay in place; the account just stops resolving.
func MeDeactivate(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
