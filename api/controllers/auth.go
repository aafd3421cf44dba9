package controllers

import (
	"net/http"

	"github.com/joonseokim/peerlink-backend/api/responses"
	"github.com/joonseokim/peerlink-backend/api/validators"
	"github.com/joonseokim/peerlink-backend/internal/auth"
	"github.com/joonseokim/peerlink-backend/internal/users"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/logger"
)

type signupRequest struct {
	Username  string  `json:"username" validate:"required,max=150"`
	Password  string  `json:"password" validate:"required,min=8"`
	Nickname  *string `json:"nickname,omitempty"`
	BirthYear *int    `json:"birth_year,omitempty"`
	Gender    string  `json:"gender,omitempty"`
	Country   string  `json:"country,omitempty"`
	City      string  `json:"city,omitempty"`
	TimeZone  string  `json:"time_zone,omitempty"`
	Language  string  `json:"language,omitempty"`
}

func (req signupRequest) toParams() users.CreateUserParams {
	return users.CreateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		Nickname:  req.Nickname,
		BirthYear: req.BirthYear,
		Gender:    req.Gender,
		Country:   req.Country,
		City:      req.City,
		TimeZone:  req.TimeZone,
		Language:  req.Language,
	}
}

type facebookSignupRequest struct {
	FacebookUserID string  `json:"facebook_user_id" validate:"required,max=128"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Nickname       *string `json:"nickname,omitempty"`
	BirthYear      *int    `json:"birth_year,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	Country        string  `json:"country,omitempty"`
	City           string  `json:"city,omitempty"`
	TimeZone       string  `json:"time_zone,omitempty"`
	Language       string  `json:"language,omitempty"`
}

func (req facebookSignupRequest) toParams() users.CreateUserParams {
	return users.CreateUserParams{
		FacebookUserID: req.FacebookUserID,
		Email:          req.Email,
		Nickname:       req.Nickname,
		BirthYear:      req.BirthYear,
		Gender:         req.Gender,
		Country:        req.Country,
		City:           req.City,
		TimeZone:       req.TimeZone,
		Language:       req.Language,
	}
}

// AuthSignup creates a local account and logs it in, returning the first token.
func AuthSignup(factory users.Factory, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if factory == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body signupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := factory.CreateUser(r.Context(), body.toParams()); err != nil {
			if logg != nil {
				logg.Error(r.Context(), "signup failed", err)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginRequest{Username: body.Username, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthFacebookSignup creates a facebook-mode account and logs it in.
func AuthFacebookSignup(factory users.Factory, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if factory == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body facebookSignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := factory.CreateUser(r.Context(), body.toParams()); err != nil {
			if logg != nil {
				logg.Error(r.Context(), "facebook signup failed", err)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.FacebookLogin(r.Context(), auth.FacebookLoginRequest{FacebookUserID: body.FacebookUserID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin exchanges local credentials for an access token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthFacebookLogin resolves an existing facebook-mode account to a token.
func AuthFacebookLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.FacebookLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.FacebookLogin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
