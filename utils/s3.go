// utils/s3.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var evidenceClient *s3.Client
var evidenceBucket string
var evidenceBaseURL string

// InitEvidenceStore configures the R2-compatible object store for goal-proof
// evidence files. All four env vars must be set; otherwise the caller should
// fall back to local storage.
func InitEvidenceStore() error {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	evidenceBucket = os.Getenv("R2_BUCKET_NAME")
	evidenceBaseURL = os.Getenv("CDN_BASE_URL")
	if evidenceBaseURL == "" {
		evidenceBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load evidence store config: %w", err)
	}

	evidenceClient = s3.NewFromConfig(cfg)
	return nil
}

// EvidenceStoreConfigured reports whether the object store env vars are set.
func EvidenceStoreConfigured() bool {
	return os.Getenv("R2_ACCESS_KEY_ID") != "" &&
		os.Getenv("R2_ACCESS_KEY_SECRET") != "" &&
		os.Getenv("R2_BUCKET_NAME") != "" &&
		os.Getenv("CLOUDFLARE_ACCOUNT_ID") != ""
}

// uploadEvidenceObject uploads a multipart file under the given object key
// and returns the public URL.
func uploadEvidenceObject(fileHeader *multipart.FileHeader, key string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err = evidenceClient.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(evidenceBucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload evidence: %w", err)
	}

	return fmt.Sprintf("%s/%s", evidenceBaseURL, key), nil
}

// StoreEvidenceFile persists an uploaded evidence file and returns the URL it
// will be served from: the object store when configured, the local uploads
// directory otherwise.
func StoreEvidenceFile(fileHeader *multipart.FileHeader, key string) (string, error) {
	if evidenceClient != nil {
		return uploadEvidenceObject(fileHeader, key)
	}

	destPath := UploadPath(key)
	if err := SaveFile(fileHeader, destPath); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}
