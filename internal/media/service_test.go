package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonseokim/peerlink-backend/pkg/config"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
)

type stubUploader struct {
	objectPath  string
	contentType string
	payload     []byte
	err         error
}

func (s *stubUploader) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objectPath = objectPath
	s.contentType = contentType
	s.payload = data
	return objectPath, nil
}

func newMediaTestService(t *testing.T) (*Service, *stubUploader) {
	t.Helper()
	uploader := &stubUploader{}
	svc, err := NewService(uploader, config.MediaConfig{MaxUploadBytes: 64})
	require.NoError(t, err)
	return svc, uploader
}

func TestUploadProfileImage(t *testing.T) {
	svc, uploader := newMediaTestService(t)
	userID := uuid.New()

	ref, err := svc.UploadProfileImage(context.Background(), userID, "image/png", 4, strings.NewReader("data"))
	require.NoError(t, err)

	assert.Equal(t, uploader.objectPath, ref)
	assert.Contains(t, ref, "profile-images/"+userID.String()+"/")
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.Equal(t, "image/png", uploader.contentType)
	assert.Equal(t, []byte("data"), uploader.payload)
}

func TestUploadReportScreenshotPath(t *testing.T) {
	svc, _ := newMediaTestService(t)
	source, target := uuid.New(), uuid.New()

	ref, err := svc.UploadReportScreenshot(context.Background(), source, target, "image/jpeg", 4, strings.NewReader("data"))
	require.NoError(t, err)

	assert.Contains(t, ref, "report-screenshots/"+source.String()+"/")
	assert.Contains(t, ref, target.String())
	assert.True(t, strings.HasSuffix(ref, ".jpg"))
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	svc, _ := newMediaTestService(t)

	_, err := svc.UploadProfileImage(context.Background(), uuid.New(), "application/pdf", 4, strings.NewReader("data"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	svc, _ := newMediaTestService(t)

	_, err := svc.UploadProfileImage(context.Background(), uuid.New(), "image/png", 65, strings.NewReader(strings.Repeat("a", 65)))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUploadRejectsEmptyBody(t *testing.T) {
	svc, _ := newMediaTestService(t)

	_, err := svc.UploadProfileImage(context.Background(), uuid.New(), "image/png", 0, strings.NewReader(""))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
