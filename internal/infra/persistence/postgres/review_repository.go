package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the domain's ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create persists a new review to the database.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}

		return errors.Wrap(err, "failed to create review")
	}

	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// FindByID retrieves a single review by its unique ID.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel
	if err := repo.db.WithContext(ctx).First(&reviewM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return toReviewDomain(&reviewM), nil
}

// FindByUserAndProduct retrieves the review a user wrote for a product.
func (repo *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel
	err := repo.db.WithContext(ctx).
		First(&reviewM, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by user and product")
	}

	return toReviewDomain(&reviewM), nil
}

// FindByProductID retrieves the active, approved reviews of a product,
// most recent first.
func (repo *reviewRepository) FindByProductID(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	var reviewMs []*model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ? AND is_approved = ?", productID, true, true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviewMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find reviews by product id")
	}

	reviews := make([]*entity.Review, 0, len(reviewMs))
	for _, reviewM := range reviewMs {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// Update modifies an existing review in the database.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Save(reviewM).Error; err != nil {
		return errors.Wrap(err, "failed to update review")
	}

	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// Delete removes a review by its ID.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete review")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// AggregateForProduct computes the mean rating and count over the product's
// active, approved reviews in a single query. Zero reviews yields (0, 0).
func (repo *reviewRepository) AggregateForProduct(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var aggregate struct {
		Average float64
		Count   int
	}

	err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ? AND is_active = ? AND is_approved = ?", productID, true, true).
		Scan(&aggregate).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to aggregate reviews")
	}

	return aggregate.Average, aggregate.Count, nil
}

// toReviewDomain converts a GORM ReviewModel to a pure domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:                 data.ID,
		ProductID:          data.ProductID,
		UserID:             data.UserID,
		Rating:             data.Rating,
		Title:              data.Title,
		Comment:            data.Comment,
		OrderID:            data.OrderID,
		IsVerifiedPurchase: data.IsVerifiedPurchase,
		IsActive:           data.IsActive,
		IsApproved:         data.IsApproved,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:                 data.ID,
		ProductID:          data.ProductID,
		UserID:             data.UserID,
		Rating:             data.Rating,
		Title:              data.Title,
		Comment:            data.Comment,
		OrderID:            data.OrderID,
		IsVerifiedPurchase: data.IsVerifiedPurchase,
		IsActive:           data.IsActive,
		IsApproved:         data.IsApproved,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}
