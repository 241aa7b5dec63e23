package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"medicine-catalog/internal/listcache"
	"medicine-catalog/internal/model"
	"medicine-catalog/internal/upload"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMedicineRepository is a mock implementation of MedicineRepository.
type MockMedicineRepository struct {
	mock.Mock
}

func (m *MockMedicineRepository) List(ctx context.Context, q model.ListQuery) ([]model.Medicine, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	args := m.Called(ctx, medicine)
	return args.Error(0)
}

func (m *MockMedicineRepository) Update(ctx context.Context, medicine *model.Medicine) error {
	args := m.Called(ctx, medicine)
	return args.Error(0)
}

func (m *MockMedicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMedicineRepository) Manufacturers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockUploader is a mock implementation of upload.Uploader.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Put(ctx context.Context, f *upload.File) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) Remove(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func newTestCache(t *testing.T) *listcache.Cache {
	t.Helper()
	cache, err := listcache.New(listcache.DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

func pngFile() *upload.File {
	return &upload.File{Filename: "box.png", ContentType: "image/png", Size: 3, Content: strings.NewReader("png")}
}

func exeFile() *upload.File {
	return &upload.File{Filename: "setup.exe", ContentType: "application/octet-stream", Content: strings.NewReader("MZ")}
}

func TestMedicineService_List(t *testing.T) {
	ctx := context.Background()
	all := []model.Medicine{
		{ID: uuid.New(), Name: "Paracetamol", Price: 10},
		{ID: uuid.New(), Name: "Aspirin", Price: 5},
	}

	t.Run("Second call is served from cache", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		mockRepo.On("List", mock.Anything, model.ListQuery{}).Return(all, nil).Once()

		first, err := svc.List(ctx, model.ListQuery{})
		require.NoError(t, err)
		second, err := svc.List(ctx, model.ListQuery{})
		require.NoError(t, err)

		assert.Equal(t, all, first)
		assert.Equal(t, all, second)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Filtered query is never served the full listing", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		filtered := model.ListQuery{Search: "para"}
		mockRepo.On("List", mock.Anything, model.ListQuery{}).Return(all, nil).Once()
		mockRepo.On("List", mock.Anything, filtered).Return(all[:1], nil).Once()

		_, err := svc.List(ctx, model.ListQuery{})
		require.NoError(t, err)
		got, err := svc.List(ctx, filtered)
		require.NoError(t, err)

		assert.Equal(t, all[:1], got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		mockRepo.On("List", mock.Anything, model.ListQuery{}).Return(nil, errors.New("database error")).Once()

		medicines, err := svc.List(ctx, model.ListQuery{})
		require.Error(t, err)
		assert.Nil(t, medicines)
		mockRepo.AssertExpectations(t)
	})
}

func TestMedicineService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	medicine := &model.Medicine{ID: id, Name: "Paracetamol"}

	tests := []struct {
		name        string
		id          string
		setupMock   bool
		mockReturn  *model.Medicine
		mockError   error
		expectedErr error
		expectError bool
	}{
		{name: "Success", id: id.String(), setupMock: true, mockReturn: medicine},
		{name: "Medicine not found", id: id.String(), setupMock: true, expectError: true, expectedErr: model.ErrMedicineNotFound},
		{name: "Malformed ID", id: "not-a-uuid", expectError: true, expectedErr: model.ErrMedicineNotFound},
		{name: "Empty ID", id: "", expectError: true, expectedErr: model.ErrMedicineNotFound},
		{name: "Repository error", id: id.String(), setupMock: true, mockError: errors.New("database error"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMedicineRepository)
			svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

			if tt.setupMock {
				mockRepo.On("GetByID", ctx, id).Return(tt.mockReturn, tt.mockError)
			}

			got, err := svc.GetByID(ctx, tt.id)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, got)
				if tt.expectedErr != nil {
					assert.Equal(t, tt.expectedErr, err)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, got)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMedicineService_Create(t *testing.T) {
	ctx := context.Background()
	input := model.MedicineInput{Name: "Paracetamol", Price: 10, Quantity: 100, Manufacturer: "Acme"}

	t.Run("Without image", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		mockUploader := new(MockUploader)
		svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

		mockRepo.On("Create", ctx, mock.MatchedBy(func(m *model.Medicine) bool {
			return m.Name == "Paracetamol" && m.ImageURL == ""
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Medicine).ID = uuid.New()
		}).Return(nil)

		got, err := svc.Create(ctx, input, nil)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, got.ID)
		assert.Empty(t, got.ImageURL)

		mockRepo.AssertExpectations(t)
		mockUploader.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("With image", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		mockUploader := new(MockUploader)
		svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

		file := pngFile()
		mockUploader.On("Put", ctx, file).Return("/uploads/1-a.png", nil)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(m *model.Medicine) bool {
			return m.ImageURL == "/uploads/1-a.png"
		})).Return(nil)

		got, err := svc.Create(ctx, input, file)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/1-a.png", got.ImageURL)

		mockRepo.AssertExpectations(t)
		mockUploader.AssertExpectations(t)
	})

	t.Run("Rejected image stores nothing", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		mockUploader := new(MockUploader)
		svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

		got, err := svc.Create(ctx, input, exeFile())
		assert.Equal(t, model.ErrInvalidImageType, err)
		assert.Nil(t, got)

		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockUploader.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("Invalid input", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		_, err := svc.Create(ctx, model.MedicineInput{Price: 1}, nil)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeInvalidMedicine, domainErr.Code)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Persistence failure removes stored image", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		mockUploader := new(MockUploader)
		svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

		file := pngFile()
		mockUploader.On("Put", ctx, file).Return("/uploads/1-a.png", nil)
		mockUploader.On("Remove", ctx, "/uploads/1-a.png").Return(nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("database error"))

		got, err := svc.Create(ctx, input, file)
		require.Error(t, err)
		assert.Nil(t, got)

		mockUploader.AssertExpectations(t)
	})

	t.Run("Invalidates cached listing", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		mockRepo.On("List", mock.Anything, model.ListQuery{}).Return([]model.Medicine{}, nil).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(nil)
		mockRepo.On("List", mock.Anything, model.ListQuery{}).Return([]model.Medicine{{Name: "Paracetamol"}}, nil).Once()

		before, err := svc.List(ctx, model.ListQuery{})
		require.NoError(t, err)
		assert.Empty(t, before)

		_, err = svc.Create(ctx, input, nil)
		require.NoError(t, err)

		after, err := svc.List(ctx, model.ListQuery{})
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.Equal(t, "Paracetamol", after[0].Name)

		mockRepo.AssertExpectations(t)
	})
}

func TestMedicineService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	stored := func() *model.Medicine {
		return &model.Medicine{
			ID:        id,
			Name:      "Paracetamol",
			Price:     10,
			Quantity:  100,
			ImageURL:  "/uploads/old.png",
			CreatedAt: time.Now(),
		}
	}

	tests := []struct {
		name          string
		input         model.MedicineInput
		file          *upload.File
		putURL        string
		expectRemove  []string
		expectedURL   string
		expectedErr   error
		skipRepoWrite bool
	}{
		{
			name:        "Keeps existing image when supplied",
			input:       model.MedicineInput{Name: "Paracetamol", Price: 12, ExistingImageURL: "/uploads/old.png"},
			expectedURL: "/uploads/old.png",
		},
		{
			name:         "Clears image when existing URL omitted",
			input:        model.MedicineInput{Name: "Paracetamol", Price: 12},
			expectRemove: []string{"/uploads/old.png"},
			expectedURL:  "",
		},
		{
			name:         "Replaces image with new upload",
			input:        model.MedicineInput{Name: "Paracetamol", Price: 12, ExistingImageURL: "/uploads/old.png"},
			file:         pngFile(),
			putURL:       "/uploads/new.png",
			expectRemove: []string{"/uploads/old.png"},
			expectedURL:  "/uploads/new.png",
		},
		{
			name:          "Rejects foreign existing URL",
			input:         model.MedicineInput{Name: "Paracetamol", ExistingImageURL: "/uploads/someone-else.png"},
			expectedErr:   model.ErrImageURLMismatch,
			skipRepoWrite: true,
		},
		{
			name:          "Rejects invalid image",
			input:         model.MedicineInput{Name: "Paracetamol", ExistingImageURL: "/uploads/old.png"},
			file:          exeFile(),
			expectedErr:   model.ErrInvalidImageType,
			skipRepoWrite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMedicineRepository)
			mockUploader := new(MockUploader)
			svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

			mockRepo.On("GetByID", ctx, id).Return(stored(), nil).Maybe()
			if tt.file != nil && tt.putURL != "" {
				mockUploader.On("Put", ctx, tt.file).Return(tt.putURL, nil)
			}
			for _, url := range tt.expectRemove {
				mockUploader.On("Remove", ctx, url).Return(nil)
			}
			if !tt.skipRepoWrite {
				mockRepo.On("Update", ctx, mock.MatchedBy(func(m *model.Medicine) bool {
					return m.ID == id && m.ImageURL == tt.expectedURL
				})).Return(nil)
			}

			got, err := svc.Update(ctx, id.String(), tt.input, tt.file)

			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
				assert.Nil(t, got)
				mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				mockUploader.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedURL, got.ImageURL)
			assert.Equal(t, 12.0, got.Price)
			mockRepo.AssertExpectations(t)
			mockUploader.AssertExpectations(t)
		})
	}
}

func TestMedicineService_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	input := model.MedicineInput{Name: "Paracetamol", Price: 12}

	t.Run("Unknown ID", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		mockRepo.On("GetByID", ctx, id).Return(nil, nil)

		_, err := svc.Update(ctx, id.String(), input, nil)
		assert.Equal(t, model.ErrMedicineNotFound, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Row removed concurrently", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		mockRepo.On("GetByID", ctx, id).Return(&model.Medicine{ID: id}, nil)
		mockRepo.On("Update", ctx, mock.Anything).Return(model.ErrMedicineNotFound)

		_, err := svc.Update(ctx, id.String(), input, nil)
		assert.Equal(t, model.ErrMedicineNotFound, err)
	})

	t.Run("Persistence failure removes new image and keeps old", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		mockUploader := new(MockUploader)
		svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

		file := pngFile()
		mockRepo.On("GetByID", ctx, id).Return(&model.Medicine{ID: id, ImageURL: "/uploads/old.png"}, nil)
		mockUploader.On("Put", ctx, file).Return("/uploads/new.png", nil)
		mockUploader.On("Remove", ctx, "/uploads/new.png").Return(nil)
		mockRepo.On("Update", ctx, mock.Anything).Return(errors.New("database error"))

		_, err := svc.Update(ctx, id.String(), input, file)
		require.Error(t, err)
		assert.NotEqual(t, model.ErrMedicineNotFound, err)

		mockUploader.AssertExpectations(t)
		mockUploader.AssertNotCalled(t, "Remove", ctx, "/uploads/old.png")
	})
}

func TestMedicineService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Removes record and image", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		mockUploader := new(MockUploader)
		svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

		mockRepo.On("GetByID", ctx, id).Return(&model.Medicine{ID: id, ImageURL: "/uploads/a.png"}, nil)
		mockRepo.On("Delete", ctx, id).Return(nil)
		mockUploader.On("Remove", ctx, "/uploads/a.png").Return(nil)

		require.NoError(t, svc.Delete(ctx, id.String()))
		mockRepo.AssertExpectations(t)
		mockUploader.AssertExpectations(t)
	})

	t.Run("Image removal failure is not an error", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		mockUploader := new(MockUploader)
		svc := NewMedicineService(mockRepo, mockUploader, newTestCache(t), zerolog.Nop())

		mockRepo.On("GetByID", ctx, id).Return(&model.Medicine{ID: id, ImageURL: "/uploads/a.png"}, nil)
		mockRepo.On("Delete", ctx, id).Return(nil)
		mockUploader.On("Remove", ctx, "/uploads/a.png").Return(errors.New("disk error"))

		assert.NoError(t, svc.Delete(ctx, id.String()))
	})

	t.Run("Unknown ID", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		mockRepo.On("GetByID", ctx, id).Return(nil, nil)

		assert.Equal(t, model.ErrMedicineNotFound, svc.Delete(ctx, id.String()))
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockMedicineRepository)
		svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

		mockRepo.On("GetByID", ctx, id).Return(&model.Medicine{ID: id}, nil)
		mockRepo.On("Delete", ctx, id).Return(errors.New("database error"))

		err := svc.Delete(ctx, id.String())
		require.Error(t, err)
		assert.NotEqual(t, model.ErrMedicineNotFound, err)
	})
}

func TestMedicineService_Manufacturers(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMedicineRepository)
	svc := NewMedicineService(mockRepo, new(MockUploader), newTestCache(t), zerolog.Nop())

	mockRepo.On("Manufacturers", ctx).Return([]string{"Acme", "Globex"}, nil).Once()
	mockRepo.On("Manufacturers", ctx).Return(nil, errors.New("database error")).Once()

	got, err := svc.Manufacturers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, got)

	_, err = svc.Manufacturers(ctx)
	assert.Error(t, err)
}
