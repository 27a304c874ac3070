package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrUploadFailed    = errors.New("upload failed")
	ErrNoUploadResult  = errors.New("no result from cdn")
)

// transformationHint asks the CDN edge for automatic quality and format.
const transformationHint = "quality=auto:good,fetch_format=auto"

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type CDNOptions struct {
	Bucket        string
	Folder        string
	PublicBaseURL string
}

// CDNUploader stores image content on the S3-compatible origin of the CDN and
// returns the public URL of the stored object.
type CDNUploader struct {
	client        ObjectPutter
	bucket        string
	folder        string
	publicBaseURL string
	newKey        func() string
}

func NewCDNUploader(client ObjectPutter, opts CDNOptions) *CDNUploader {
	folder := strings.Trim(opts.Folder, "/")
	if folder == "" {
		folder = "uploads"
	}
	return &CDNUploader{
		client:        client,
		bucket:        opts.Bucket,
		folder:        folder,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		newKey:        func() string { return uuid.NewString() },
	}
}

func (u *CDNUploader) Upload(ctx context.Context, content []byte, mimetype string) (string, error) {
	if !IsAllowedImageType(mimetype) {
		return "", fmt.Errorf("%w. Allowed types are: %s", ErrInvalidFileType, allowedTypesList())
	}

	key := path.Join(u.folder, u.newKey()+extensionFor(mimetype))
	out, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(mimetype),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		Metadata: map[string]string{
			"transformation": transformationHint,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if out == nil || u.publicBaseURL == "" {
		return "", ErrNoUploadResult
	}
	return u.publicBaseURL + "/" + key, nil
}
