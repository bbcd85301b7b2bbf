package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

type S3Store struct {
	C        *s3.Client
	Uploader *manager.Uploader
	Bucket   *string
}

func NewS3() (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("aws.access_key"),
			viper.GetString("aws.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("aws.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = viper.GetString("aws.region")
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Store{
		C:        client,
		Uploader: manager.NewUploader(client),
		Bucket:   bucket,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	out, err := s.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      s.Bucket,
		Key:         aws.String(name),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3, %w", err)
	}

	return out.Location, nil
}
