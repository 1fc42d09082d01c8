package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"office_records_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveProvider persists export snapshots (CSV/XLSX/PDF) so they can be
// fetched again after download. Backed by the local filesystem or
// Cloudflare R2, depending on configuration.
type ArchiveProvider interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	IsConfigured() bool
}

// Archive is the global export archive instance. Nil means archiving is
// disabled and exports are download-only.
var Archive ArchiveProvider

// InitializeArchive sets up the export archive based on configuration.
func InitializeArchive(cfg *config.Config) {
	if cfg.R2AccountID != "" && cfg.R2AccessKeyID != "" && cfg.R2SecretAccessKey != "" && cfg.R2BucketName != "" {
		r2, err := NewR2Archive(cfg)
		if err != nil {
			log.Printf("[WARNING] Failed to initialize R2 archive: %v. Falling back to local archive.", err)
			Archive = NewLocalArchive(cfg.ExportDir)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := r2.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &cfg.R2BucketName}); err != nil {
			log.Printf("[WARNING] R2 bucket connection test failed: %v. Falling back to local archive.", err)
			Archive = NewLocalArchive(cfg.ExportDir)
			return
		}

		Archive = r2
		log.Printf("Export archive ready (Cloudflare R2 - bucket: %s)", cfg.R2BucketName)
		return
	}

	Archive = NewLocalArchive(cfg.ExportDir)
	log.Printf("Export archive ready (local filesystem - path: %s)", cfg.ExportDir)
}

// ArchiveExport stores a snapshot under a timestamped key and returns the
// key. Archiving failures are logged, not surfaced; the download the user
// asked for already succeeded.
func ArchiveExport(ctx context.Context, officeParam, extension, contentType string, data []byte) string {
	if Archive == nil {
		return ""
	}
	key := fmt.Sprintf("exports/%s_%s.%s", officeParam, time.Now().UTC().Format("20060102_150405"), extension)
	if err := Archive.Put(ctx, key, contentType, data); err != nil {
		log.Printf("[WARNING] Failed to archive export %s: %v", key, err)
		return ""
	}
	return key
}

// R2Archive implements ArchiveProvider on Cloudflare R2
type R2Archive struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewR2Archive creates an R2-backed archive provider
func NewR2Archive(cfg *config.Config) (*R2Archive, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	creds := credentials.NewStaticCredentialsProvider(
		cfg.R2AccessKeyID,
		cfg.R2SecretAccessKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"), // R2 uses "auto" region
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Archive{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.R2BucketName,
	}, nil
}

// IsConfigured returns true if R2 is properly configured
func (r *R2Archive) IsConfigured() bool {
	return r.client != nil && r.bucket != ""
}

// Put uploads a snapshot to R2
func (r *R2Archive) Put(ctx context.Context, key, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if _, err := r.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}

// Get retrieves a snapshot from R2
func (r *R2Archive) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	result, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object from R2: %w", err)
	}

	contentType := "application/octet-stream"
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	return result.Body, contentType, nil
}

// Delete removes a snapshot from R2
func (r *R2Archive) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}

// GetSignedURL generates a presigned URL for temporary access
func (r *R2Archive) GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	presignedReq, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return presignedReq.URL, nil
}

// LocalArchive implements ArchiveProvider on the local filesystem
type LocalArchive struct {
	baseDir string
}

// NewLocalArchive creates a filesystem-backed archive provider
func NewLocalArchive(baseDir string) *LocalArchive {
	return &LocalArchive{baseDir: baseDir}
}

// IsConfigured returns true (local archive is always available)
func (l *LocalArchive) IsConfigured() bool {
	return true
}

// Put writes a snapshot under the archive directory
func (l *LocalArchive) Put(ctx context.Context, key, contentType string, data []byte) error {
	fullPath := filepath.Join(l.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	return nil
}

// Get opens an archived snapshot
func (l *LocalArchive) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	file, err := os.Open(filepath.Join(l.baseDir, key))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open archive file: %w", err)
	}

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(key)) {
	case ".pdf":
		contentType = "application/pdf"
	case ".csv":
		contentType = "text/csv"
	case ".xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return file, contentType, nil
}

// Delete removes an archived snapshot
func (l *LocalArchive) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(l.baseDir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete archive file: %w", err)
	}
	return nil
}

// GetSignedURL is not supported for local archives; it returns the local
// path so callers can at least locate the file.
func (l *LocalArchive) GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "/" + filepath.ToSlash(filepath.Join(l.baseDir, key)), nil
}
