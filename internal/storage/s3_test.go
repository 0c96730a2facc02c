package storage

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresignedURL(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("access", "secret", ""),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
	s := &S3Storage{client: client, presignClient: s3.NewPresignClient(client), bucket: "hub"}

	url, err := s.PresignedURL(context.Background(), "exports/u1/todos-export-2026-10-17.csv", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/hub/exports/u1/todos-export-2026-10-17.csv")
	assert.Contains(t, url, "X-Amz-Expires=900")
}
