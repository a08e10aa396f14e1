package aws

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader stores product images in S3 and hands back public URLs.
type Uploader struct {
	S3     S3API
	Bucket string
	Region string
}

// NewUploader returns an Uploader bound to a bucket.
func NewUploader(s3Client S3API, bucket, region string) *Uploader {
	return &Uploader{
		S3:     s3Client,
		Bucket: bucket,
		Region: region,
	}
}

// UploadImage writes the image under products/<uuid><ext> and returns its URL.
// ext should include the leading dot, e.g. ".jpg"; contentType is stored on the object.
func (u *Uploader) UploadImage(ctx context.Context, data []byte, ext, contentType string) (string, error) {
	key := path.Join("products", uuid.NewString()+ext)

	input := &s3.PutObjectInput{
		Bucket: &u.Bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := u.S3.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Bucket, u.Region, key), nil
}
