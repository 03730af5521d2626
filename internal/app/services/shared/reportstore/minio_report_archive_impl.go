package reportstore

import (
	"bytes"
	"context"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

type minioReportArchive struct {
	MinioClient   *minio.Client
	BucketName    string
	PresignExpiry time.Duration
}

func NewMinioReportArchive(minioClient *minio.Client, bucketName string, presignExpiry time.Duration) contracts.ReportArchive {
	return &minioReportArchive{
		MinioClient:   minioClient,
		BucketName:    bucketName,
		PresignExpiry: presignExpiry,
	}
}

func (m *minioReportArchive) StoreDocument(ctx context.Context, objectName string, body []byte) error {
	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, m.BucketName)
	}
	return nil
}

func (m *minioReportArchive) PresignDocument(ctx context.Context, objectName string) (string, error) {
	presignedURL, err := m.MinioClient.PresignedGetObject(ctx, m.BucketName, objectName, m.PresignExpiry, nil)
	if err != nil {
		return "", exceptions.ErrMinioPresignObject(err, m.BucketName)
	}
	return presignedURL.String(), nil
}
