package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ReviewRepo  repository.ReviewRepository
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo:  params.ReviewRepo,
		productRepo: params.ProductRepo,
		orderRepo:   params.OrderRepo,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateReview records a user's review of a product and refreshes the
// product's rating aggregate. The verified-purchase flag is set only when the
// linked order belongs to the caller, contains the product and was delivered.
func (srv *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, input *usecase.CreateReviewInput) (*entity.Review, error) {
	if err := entity.ValidateRating(input.Rating); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	if _, err := srv.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	now := time.Now()
	review := &entity.Review{
		ID:                 uuid.New(),
		ProductID:          input.ProductID,
		UserID:             userID,
		Rating:             input.Rating,
		Title:              input.Title,
		Comment:            input.Comment,
		OrderID:            input.OrderID,
		IsVerifiedPurchase: srv.isVerifiedPurchase(ctx, userID, input.ProductID, input.OrderID),
		IsActive:           true,
		IsApproved:         true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, domainerrors.ErrReviewAlreadyExists
		}

		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := srv.recomputeRating(ctx, review.ProductID); err != nil {
		return nil, err
	}

	return review, nil
}

// UpdateReview modifies the caller's own review and refreshes the aggregate.
func (srv *reviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, input *usecase.UpdateReviewInput) (*entity.Review, error) {
	review, err := srv.findOwnedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := entity.ValidateRating(*input.Rating); err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
		}
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	review.UpdatedAt = time.Now()

	if err := srv.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if err := srv.recomputeRating(ctx, review.ProductID); err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview removes the caller's own review and refreshes the aggregate.
func (srv *reviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := srv.findOwnedReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := srv.reviewRepo.Delete(ctx, review.ID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return srv.recomputeRating(ctx, review.ProductID)
}

// ListProductReviews returns a product's visible reviews, most recent first.
func (srv *reviewService) ListProductReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByProductID(ctx, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews by product: %w", err)
	}

	return reviews, nil
}

// ModerateReview sets the moderation flags on any review and refreshes the
// aggregate, since hidden reviews drop out of it.
func (srv *reviewService) ModerateReview(ctx context.Context, reviewID uuid.UUID, input *usecase.ModerateReviewInput) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	review.IsApproved = input.IsApproved
	review.IsActive = input.IsActive
	review.UpdatedAt = time.Now()

	if err := srv.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if err := srv.recomputeRating(ctx, review.ProductID); err != nil {
		return nil, err
	}

	return review, nil
}

func (srv *reviewService) findOwnedReview(ctx context.Context, userID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	if review.UserID != userID {
		return nil, domainerrors.ErrReviewOwnershipViolation
	}

	return review, nil
}

// recomputeRating rebuilds the product's denormalized rating aggregate from
// the full set of active, approved reviews. Deactivated products keep their
// aggregate current as well; it simply is not served.
func (srv *reviewService) recomputeRating(ctx context.Context, productID uuid.UUID) error {
	average, count, err := srv.reviewRepo.AggregateForProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	rounded := math.Round(average*10) / 10

	if err := srv.productRepo.UpdateRating(ctx, productID, rounded, count); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			srv.log(ctx).Warn("Rating recompute skipped for missing product",
				slog.Any("productID", productID))

			return nil
		}

		return fmt.Errorf("failed to update product rating: %w", err)
	}

	return nil
}

// isVerifiedPurchase checks the order link on a new review. A broken link
// never fails review creation; the flag simply stays false.
func (srv *reviewService) isVerifiedPurchase(ctx context.Context, userID, productID uuid.UUID, orderID *uuid.UUID) bool {
	if orderID == nil {
		return false
	}

	order, err := srv.orderRepo.FindByID(ctx, *orderID)
	if err != nil {
		return false
	}
	if order.UserID != userID || order.Status != entity.OrderStatusDelivered {
		return false
	}

	for idx := range order.Items {
		if order.Items[idx].ProductID == productID {
			return true
		}
	}

	return false
}
