package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartmeal/backend/internal/mocks"
	"github.com/pageza/smartmeal/backend/internal/service"
)

func TestOverviewExporterUpload(t *testing.T) {
	putter := new(mocks.MockObjectPutter)
	var body []byte
	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "meals" && *in.Key == "overviews/overview-20250301T080000Z.json"
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*s3.PutObjectInput)
		body, _ = io.ReadAll(in.Body)
	}).Return(&s3.PutObjectOutput{}, nil)

	exporter := service.NewOverviewExporter(putter, "meals", "overviews/")
	overview := &service.Overview{
		GeneratedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600)),
		Meals:       []service.OverviewRow{{MealID: "m1", Name: "Pasta", Rating: 5, Price: 12, Currency: "CHF"}},
	}

	key, err := exporter.Upload(context.Background(), overview)
	require.NoError(t, err)
	assert.Equal(t, "overviews/overview-20250301T080000Z.json", key)

	var decoded service.Overview
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "Pasta", decoded.Meals[0].Name)
	putter.AssertExpectations(t)
}

func TestOverviewExporterUploadError(t *testing.T) {
	putter := new(mocks.MockObjectPutter)
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	exporter := service.NewOverviewExporter(putter, "meals", "")
	_, err := exporter.Upload(context.Background(), &service.Overview{GeneratedAt: time.Now()})
	assert.ErrorContains(t, err, "access denied")
}
