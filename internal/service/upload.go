package service

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/dchest/uniuri"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/apperr"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Upload hands out presigned S3 URLs so clients put property images directly
// into the bucket. A nil S3Client means uploads are disabled.
type Upload struct {
	S3Client *s3.Client
	Config   *appconfig.Config
}

func NewUpload(s3Client *s3.Client, conf *appconfig.Config) *Upload {
	return &Upload{
		S3Client: s3Client,
		Config:   conf,
	}
}

func (s *Upload) Enabled() bool {
	return s.S3Client != nil
}

func (s *Upload) PresignImage(ctx context.Context, userID string, contentType string) (*types.PresignImageResponse, error) {
	if !s.Enabled() {
		return nil, apperr.ErrServiceDisabled.Msg("image uploads are not configured")
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperr.ErrInvalidReq.Msg("unsupported content type %q", contentType)
	}

	key := ImageKey(userID, ext)
	presigner := s3.NewPresignClient(s.S3Client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Config.S3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.Config.S3PresignTTL))
	if err != nil {
		return nil, errors.Wrap(err, "failed to presign image upload")
	}

	log.Ctx(ctx).Debug().
		Str("evt.name", "upload.presign").
		Str("key", key).
		Msg("presigned image upload")

	return &types.PresignImageResponse{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: s.PublicURL(key),
		Method:    req.Method,
		ExpiresAt: time.Now().Add(s.Config.S3PresignTTL).UnixMilli(),
	}, nil
}

// ConfirmImage checks that the client finished uploading key. Keys are
// scoped to their uploader.
func (s *Upload) ConfirmImage(ctx context.Context, userID string, key string) (string, error) {
	if !s.Enabled() {
		return "", apperr.ErrServiceDisabled.Msg("image uploads are not configured")
	}
	if !strings.HasPrefix(key, imagePrefix(userID)) {
		return "", apperr.ErrForbidden.Msg("image was not uploaded by you")
	}

	_, err := s.S3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "NotFound" {
			return "", apperr.ErrNotFound.Msg("image has not been uploaded yet")
		}
		return "", errors.Wrap(err, "failed to invoke HeadObject")
	}
	return s.PublicURL(key), nil
}

func (s *Upload) PublicURL(key string) string {
	base := strings.TrimSuffix(s.Config.S3PublicBaseURL, "/")
	if base == "" {
		base = "https://" + s.Config.S3Bucket + ".s3." + s.Config.S3Region + ".amazonaws.com"
	}
	return base + "/" + key
}

func imagePrefix(userID string) string {
	return "properties/" + userID + "/"
}

// ImageKey is the object key of a new image uploaded by userID.
func ImageKey(userID, ext string) string {
	return imagePrefix(userID) + strings.ToLower(uniuri.NewLen(20)) + "." + ext
}
