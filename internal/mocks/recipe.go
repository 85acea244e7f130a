package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/smartmeal/backend/internal/model"
	"github.com/pageza/smartmeal/backend/internal/service"
)

// MockRecipeSource is a mock implementation of the upstream recipe API
type MockRecipeSource struct {
	mock.Mock
}

// Search mocks the Search method
func (m *MockRecipeSource) Search(ctx context.Context, query string, filters service.SearchFilters) ([]model.Meal, error) {
	args := m.Called(ctx, query, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

// Similar mocks the Similar method
func (m *MockRecipeSource) Similar(ctx context.Context, sourceID int64, number int) ([]model.Meal, error) {
	args := m.Called(ctx, sourceID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

// MockObjectPutter is a mock S3 client
type MockObjectPutter struct {
	mock.Mock
}

// PutObject mocks the PutObject method
func (m *MockObjectPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}
