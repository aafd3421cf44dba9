package controllers

import (
	"net/http"
	"strings"

	"github.com/joonseokim/peerlink-backend/api/responses"
	"github.com/joonseokim/peerlink-backend/api/validators"
	"github.com/joonseokim/peerlink-backend/internal/media"
	"github.com/joonseokim/peerlink-backend/internal/relationships"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/logger"
)

type fileReportRequest struct {
	Type string `json:"type" validate:"required"`
}

// ReportFile files an abuse report against the user in the path. A multipart
// request may attach a screenshot, which is uploaded before the report row is
// written; a JSON body files the report without evidence.
func ReportFile(relSvc *relationships.Service, mediaSvc *media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if relSvc == nil {
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

		var reportType string
		var screenshot *string

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			reportType = r.FormValue("type")

			file, header, err := r.FormFile("screenshot")
			switch {
			case err == http.ErrMissingFile:
				// evidence is optional
			case err != nil:
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid screenshot upload"))
				return
			default:
				defer func() { _ = file.Close() }()
				if mediaSvc == nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
					return
				}
				ref, err := mediaSvc.UploadReportScreenshot(r.Context(), sourceID, targetID, header.Header.Get("Content-Type"), header.Size, file)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				screenshot = &ref
			}
		} else {
			var body fileReportRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			reportType = body.Type
		}

		dto, err := relSvc.FileReport(r.Context(), sourceID, targetID, reportType, screenshot)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ReportsList pages through reports the user has filed.
func ReportsList(svc *relationships.Service, logg *logger.Logger) http.HandlerFunc {
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

		page, err := svc.ListReportsFiled(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// ReportsReceived pages through reports filed against the user in the path.
// Staff-only: the reported user never sees who reported them.
func ReportsReceived(svc *relationships.Service, logg *logger.Logger) http.HandlerFunc {
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

		page, err := svc.ListReportsReceived(r.Context(), targetID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
