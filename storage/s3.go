// Package storage archives converted MP3s to S3 when a bucket is configured.
package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive uploads finished conversions to an S3 bucket under audio/<video id>/.
type Archive struct {
	client *s3.Client
	bucket string
}

// NewArchive creates an Archive using the default AWS config/credential chain.
// region is optional; the chain's default applies when empty.
func NewArchive(ctx context.Context, bucket, region string) (*Archive, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}, nil
}

// StoreMP3 uploads the MP3 at filePath keyed by video ID and filename.
func (a *Archive) StoreMP3(ctx context.Context, videoID, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open mp3: %w", err)
	}
	defer file.Close()

	key := path.Join("audio", videoID, path.Base(filePath))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Archived %s to s3://%s/%s", filePath, a.bucket, key)
	return nil
}
