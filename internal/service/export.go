package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of the S3 client used for exports.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// OverviewRow is one rated meal in an exported overview.
type OverviewRow struct {
	MealID       string  `json:"meal_id"`
	Name         string  `json:"name"`
	Rating       int     `json:"rating"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
	BasePrice    float64 `json:"base_price"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
}

// Overview is the document written by an export.
type Overview struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Meals       []OverviewRow `json:"meals"`
}

// OverviewExporter uploads rated-meal overviews to an S3 bucket.
type OverviewExporter struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewOverviewExporter creates an exporter writing under prefix in bucket.
func NewOverviewExporter(client ObjectPutter, bucket, prefix string) *OverviewExporter {
	return &OverviewExporter{client: client, bucket: bucket, prefix: prefix}
}

// Upload writes the overview as JSON and returns the object key.
func (e *OverviewExporter) Upload(ctx context.Context, overview *Overview) (string, error) {
	body, err := json.MarshalIndent(overview, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode overview: %w", err)
	}

	key := path.Join(e.prefix, "overview-"+overview.GeneratedAt.UTC().Format("20060102T150405Z")+".json")
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload overview to s3://%s/%s: %w", e.bucket, key, err)
	}
	return key, nil
}
