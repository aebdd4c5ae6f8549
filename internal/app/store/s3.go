package store

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"chatrelay/internal/pkg/logx"
)

// s3Store implements FileStore against an S3-compatible bucket.
type s3Store struct {
	cfg      ServiceConfig
	client   *s3.Client
	uploader *manager.Uploader
}

// newS3Store initializes the S3 client using a custom configuration that
// supports S3-compatible endpoints.
func newS3Store(cfg ServiceConfig) (*s3Store, error) {
	sdkCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 storage configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		cfg:      cfg,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// List returns the keys present in the bucket.
func (s *s3Store) List(ctx context.Context) ([]string, error) {
	var names []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.cfg.S3BucketName,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logx.Error(err, "Failed to list bucket objects", "bucket", s.cfg.S3BucketName)
			return nil, errors.New("failed to list files from S3")
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				names = append(names, *obj.Key)
			}
		}
	}

	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *s3Store) Read(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.S3BucketName,
		Key:    &name,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		logx.Error(err, "Failed to fetch object from S3", "key", name)
		return nil, errors.New("failed to read file from S3")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logx.Error(err, "Failed to read object body from S3", "key", name)
		return nil, errors.New("failed to read file from S3")
	}
	return data, nil
}

func (s *s3Store) Write(ctx context.Context, name string, data []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &s.cfg.S3BucketName,
		Key:    &name,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		logx.Error(err, "Failed to upload object to S3", "key", name)
		return errors.New("failed to store file in S3")
	}
	return nil
}
