package service

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/repository"
	"codeflex/fitness-api/internal/storage"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageUpload tells the client where to PUT a new profile image.
type ImageUpload struct {
	UploadURL   string
	ObjectKey   string
	ContentType string
}

type UserService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// ImageURL returns a short-lived download URL for the user's image, or
	// "" when the user has none or storage is disabled.
	ImageURL(ctx context.Context, user *domain.User) string
	CreateImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*ImageUpload, error)
	// EnsureAdmins grants the admin role to the registered users among
	// emails. Unknown emails are skipped.
	EnsureAdmins(ctx context.Context, emails []string) error
}

type userService struct {
	userRepo repository.UserRepository
	files    storage.FileStorage // nil when S3 is not configured
}

func NewUserService(userRepo repository.UserRepository, files storage.FileStorage) UserService {
	return &userService{userRepo: userRepo, files: files}
}

func (s *userService) GetProfile(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) ImageURL(ctx context.Context, user *domain.User) string {
	if s.files == nil || user == nil || user.Image == "" {
		return ""
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, user.Image, 0)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("presign profile image failed")
		return ""
	}
	return url
}

// CreateImageUpload reserves a new object key for the user's image and
// records it on the user. The previous image object is deleted best-effort.
func (s *userService) CreateImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*ImageUpload, error) {
	if s.files == nil {
		return nil, ErrStorageDisabled
	}

	key, err := storage.ProfileImageKey(userID.Hex(), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, 0)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	if err := s.userRepo.SetImage(ctx, userID, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set image: %w", err)
	}

	if current.Image != "" {
		if err := s.files.DeleteObject(ctx, current.Image); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", current.Image).Msg("delete previous profile image failed")
		}
	}

	return &ImageUpload{UploadURL: uploadURL, ObjectKey: key, ContentType: contentType}, nil
}

func (s *userService) EnsureAdmins(ctx context.Context, emails []string) error {
	for _, raw := range emails {
		email := domain.NormalizeEmail(raw)
		if email == "" {
			continue
		}

		user, err := s.userRepo.GetByEmail(ctx, email, false)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Ctx(ctx).Warn().Str("email", email).Msg("admin email has no account yet")
				continue
			}
			return fmt.Errorf("lookup admin %s: %w", email, err)
		}
		if user.IsAdmin() {
			continue
		}

		if err := s.userRepo.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin %s: %w", email, err)
		}
		log.Ctx(ctx).Info().Str("user_id", user.ID.Hex()).Msg("granted admin role")
	}
	return nil
}
