package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"

	"github.com/joonseokim/peerlink-backend/pkg/config"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
)

// extensionsByMimeType doubles as the allow list: profile images and report
// screenshots are images only.
var extensionsByMimeType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Uploader is the blob-store surface the service needs.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
}

// Service streams profile images and report screenshots into blob storage and
// hands back the object references that get persisted on the owning rows.
type Service struct {
	uploader Uploader
	maxBytes int64
}

// NewService constructs a media service backed by the provided uploader.
func NewService(uploader Uploader, cfg config.MediaConfig) (*Service, error) {
	if uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "uploader required")
	}
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &Service{uploader: uploader, maxBytes: maxBytes}, nil
}

// UploadProfileImage stores the image and returns its object reference.
func (s *Service) UploadProfileImage(ctx context.Context, userID uuid.UUID, contentType string, size int64, body io.Reader) (string, error) {
	ext, err := s.validate(contentType, size)
	if err != nil {
		return "", err
	}
	objectPath := fmt.Sprintf("profile-images/%s/%s%s", userID, uuid.NewString(), ext)
	return s.upload(ctx, objectPath, contentType, size, body)
}

// UploadReportScreenshot stores the evidence image and returns its object
// reference, to be attached to the report row.
func (s *Service) UploadReportScreenshot(ctx context.Context, sourceID, targetID uuid.UUID, contentType string, size int64, body io.Reader) (string, error) {
	ext, err := s.validate(contentType, size)
	if err != nil {
		return "", err
	}
	objectPath := fmt.Sprintf("report-screenshots/%s/%s-%s%s", sourceID, targetID, uuid.NewString(), ext)
	return s.upload(ctx, objectPath, contentType, size, body)
}

func (s *Service) upload(ctx context.Context, objectPath, contentType string, size int64, body io.Reader) (string, error) {
	ref, err := s.uploader.Upload(ctx, objectPath, contentType, io.LimitReader(body, size))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload blob")
	}
	return ref, nil
}

func (s *Service) validate(contentType string, size int64) (string, error) {
	if size <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "upload body is empty")
	}
	if size > s.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "upload exceeds the size limit")
	}

	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(contentType))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid content type")
	}
	ext, ok := extensionsByMimeType[strings.ToLower(mediaType)]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "content type must be png, jpeg, or webp")
	}
	return ext, nil
}
