package service

import (
	"context"
	"errors"
	"fmt"

	"medicine-catalog/internal/listcache"
	"medicine-catalog/internal/model"
	"medicine-catalog/internal/repository"
	"medicine-catalog/internal/upload"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// medicineService implements MedicineService.
type medicineService struct {
	medicineRepo repository.MedicineRepository
	uploader     upload.Uploader
	cache        *listcache.Cache
	logger       zerolog.Logger
}

// NewMedicineService creates a new medicine service. The cache is owned by
// the caller, which closes it on shutdown.
func NewMedicineService(
	medicineRepo repository.MedicineRepository,
	uploader upload.Uploader,
	cache *listcache.Cache,
	logger zerolog.Logger,
) MedicineService {
	return &medicineService{
		medicineRepo: medicineRepo,
		uploader:     uploader,
		cache:        cache,
		logger:       logger.With().Str("service", "medicine").Logger(),
	}
}

func (s *medicineService) List(ctx context.Context, q model.ListQuery) ([]model.Medicine, error) {
	medicines, err := s.cache.GetOrFetch(ctx, q, func(ctx context.Context) ([]model.Medicine, error) {
		return s.medicineRepo.List(ctx, q)
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("search", q.Search).
			Str("manufacturer", q.Manufacturer).
			Msg("failed to list medicines")
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	s.logger.Debug().Int("count", len(medicines)).Msg("listed medicines")
	return medicines, nil
}

func (s *medicineService) GetByID(ctx context.Context, id string) (*model.Medicine, error) {
	medicineID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Debug().Str("medicine_id", id).Msg("medicine ID is not a UUID")
		return nil, model.ErrMedicineNotFound
	}

	medicine, err := s.medicineRepo.GetByID(ctx, medicineID)
	if err != nil {
		s.logger.Error().Err(err).Str("medicine_id", id).Msg("failed to get medicine by ID")
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	if medicine == nil {
		s.logger.Debug().Str("medicine_id", id).Msg("medicine not found")
		return nil, model.ErrMedicineNotFound
	}

	return medicine, nil
}

func (s *medicineService) Create(ctx context.Context, in model.MedicineInput, image *upload.File) (*model.Medicine, error) {
	if err := validate(in, image); err != nil {
		return nil, err
	}

	medicine := &model.Medicine{}
	in.Apply(medicine)

	if image != nil {
		url, err := s.uploader.Put(ctx, image)
		if err != nil {
			return nil, err
		}
		medicine.ImageURL = url
	}

	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to create medicine")
		s.discard(ctx, medicine.ImageURL)
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	s.cache.Invalidate()

	s.logger.Info().
		Str("medicine_id", medicine.ID.String()).
		Str("name", medicine.Name).
		Bool("has_image", medicine.ImageURL != "").
		Msg("medicine created")

	return medicine, nil
}

func (s *medicineService) Update(ctx context.Context, id string, in model.MedicineInput, image *upload.File) (*model.Medicine, error) {
	if err := validate(in, image); err != nil {
		return nil, err
	}

	medicine, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ExistingImageURL != "" && in.ExistingImageURL != medicine.ImageURL {
		s.logger.Warn().
			Str("medicine_id", id).
			Str("existing_image_url", in.ExistingImageURL).
			Msg("existing image URL does not match stored image")
		return nil, model.ErrImageURLMismatch
	}

	previousURL := medicine.ImageURL
	in.Apply(medicine)
	medicine.ImageURL = in.ExistingImageURL

	if image != nil {
		url, err := s.uploader.Put(ctx, image)
		if err != nil {
			return nil, err
		}
		medicine.ImageURL = url
	}

	if err := s.medicineRepo.Update(ctx, medicine); err != nil {
		if medicine.ImageURL != previousURL {
			s.discard(ctx, medicine.ImageURL)
		}
		if errors.Is(err, model.ErrMedicineNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("medicine_id", id).Msg("failed to update medicine")
		return nil, fmt.Errorf("failed to update medicine: %w", err)
	}

	s.cache.Invalidate()

	if previousURL != medicine.ImageURL {
		s.discard(ctx, previousURL)
	}

	s.logger.Info().
		Str("medicine_id", id).
		Bool("image_replaced", image != nil).
		Msg("medicine updated")

	return medicine, nil
}

func (s *medicineService) Delete(ctx context.Context, id string) error {
	medicine, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.medicineRepo.Delete(ctx, medicine.ID); err != nil {
		if errors.Is(err, model.ErrMedicineNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("medicine_id", id).Msg("failed to delete medicine")
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	s.cache.Invalidate()
	s.discard(ctx, medicine.ImageURL)

	s.logger.Info().Str("medicine_id", id).Msg("medicine deleted")
	return nil
}

func (s *medicineService) Manufacturers(ctx context.Context) ([]string, error) {
	manufacturers, err := s.medicineRepo.Manufacturers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list manufacturers")
		return nil, fmt.Errorf("failed to list manufacturers: %w", err)
	}
	return manufacturers, nil
}

// discard removes a stored image, logging failures.
func (s *medicineService) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.uploader.Remove(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("image_url", url).Msg("failed to remove stored image")
	}
}

// validate rejects bad input and files before anything is written.
func validate(in model.MedicineInput, image *upload.File) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if image != nil {
		return upload.Validate(image)
	}
	return nil
}
