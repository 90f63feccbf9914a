package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reviewServiceFixtures holds all test dependencies for review service tests.
type reviewServiceFixtures struct {
	service     usecase.ReviewUsecase
	reviewRepo  *mockRepo.MockReviewRepository
	productRepo *mockRepo.MockProductRepository
	orderRepo   *mockRepo.MockOrderRepository
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)

	service := NewReviewService(ReviewServiceParams{
		ReviewRepo:  reviewRepo,
		ProductRepo: productRepo,
		OrderRepo:   orderRepo,
		Logger:      newDiscardLogger(),
	})

	return reviewServiceFixtures{
		service:     service,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Return(nil)

	fx.reviewRepo.EXPECT().
		AggregateForProduct(ctx, product.ID).
		Return(4.0, 1, nil)

	fx.productRepo.EXPECT().
		UpdateRating(ctx, product.ID, 4.0, 1).
		Return(nil)

	review, err := fx.service.CreateReview(ctx, userID, &usecase.CreateReviewInput{
		ProductID: product.ID,
		Rating:    4,
		Comment:   "solid build",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, review.UserID)
	assert.True(t, review.IsActive)
	assert.True(t, review.IsApproved)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestReviewService_CreateReview_RatingOutOfRange(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()

	_, err := fx.service.CreateReview(ctx, uuid.New(), &usecase.CreateReviewInput{
		ProductID: uuid.New(),
		Rating:    6,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	product := activeProduct(2500, 10)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Return(repository.ErrDuplicateReview)

	_, err := fx.service.CreateReview(ctx, uuid.New(), &usecase.CreateReviewInput{
		ProductID: product.ID,
		Rating:    3,
	})
	assert.ErrorIs(t, err, domainerrors.ErrReviewAlreadyExists)
}

func TestReviewService_CreateReview_VerifiedPurchase(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	orderID := uuid.New()

	deliveredOrder := &entity.Order{
		ID:     orderID,
		UserID: userID,
		Status: entity.OrderStatusDelivered,
		Items:  []entity.OrderItem{{ProductID: product.ID, Quantity: 1}},
	}

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(deliveredOrder, nil)

	fx.reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Return(nil)

	fx.reviewRepo.EXPECT().
		AggregateForProduct(ctx, product.ID).
		Return(5.0, 1, nil)

	fx.productRepo.EXPECT().
		UpdateRating(ctx, product.ID, 5.0, 1).
		Return(nil)

	review, err := fx.service.CreateReview(ctx, userID, &usecase.CreateReviewInput{
		ProductID: product.ID,
		Rating:    5,
		OrderID:   &orderID,
	})
	require.NoError(t, err)
	assert.True(t, review.IsVerifiedPurchase)
}

func TestReviewService_CreateReview_UndeliveredOrderNotVerified(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	orderID := uuid.New()

	pendingOrder := &entity.Order{
		ID:     orderID,
		UserID: userID,
		Status: entity.OrderStatusPending,
		Items:  []entity.OrderItem{{ProductID: product.ID, Quantity: 1}},
	}

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(pendingOrder, nil)

	fx.reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Return(nil)

	fx.reviewRepo.EXPECT().
		AggregateForProduct(ctx, product.ID).
		Return(5.0, 1, nil)

	fx.productRepo.EXPECT().
		UpdateRating(ctx, product.ID, 5.0, 1).
		Return(nil)

	review, err := fx.service.CreateReview(ctx, userID, &usecase.CreateReviewInput{
		ProductID: product.ID,
		Rating:    5,
		OrderID:   &orderID,
	})
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestReviewService_CreateReview_AverageRoundedToOneDecimal(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	product := activeProduct(2500, 10)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Return(nil)

	fx.reviewRepo.EXPECT().
		AggregateForProduct(ctx, product.ID).
		Return(4.333333, 3, nil)

	fx.productRepo.EXPECT().
		UpdateRating(ctx, product.ID, 4.3, 3).
		Return(nil)

	_, err := fx.service.CreateReview(ctx, uuid.New(), &usecase.CreateReviewInput{
		ProductID: product.ID,
		Rating:    4,
	})
	require.NoError(t, err)
}

func TestReviewService_UpdateReview_OwnershipEnforced(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	reviewID := uuid.New()
	review := &entity.Review{ID: reviewID, UserID: uuid.New(), ProductID: uuid.New(), Rating: 3}

	fx.reviewRepo.EXPECT().
		FindByID(ctx, reviewID).
		Return(review, nil)

	newRating := 5
	_, err := fx.service.UpdateReview(ctx, uuid.New(), reviewID, &usecase.UpdateReviewInput{
		Rating: &newRating,
	})
	assert.ErrorIs(t, err, domainerrors.ErrReviewOwnershipViolation)
}

func TestReviewService_UpdateReview_PartialUpdate(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	reviewID := uuid.New()
	productID := uuid.New()
	review := &entity.Review{
		ID:        reviewID,
		UserID:    userID,
		ProductID: productID,
		Rating:    3,
		Title:     "okay",
		Comment:   "does the job",
	}

	fx.reviewRepo.EXPECT().
		FindByID(ctx, reviewID).
		Return(review, nil)

	fx.reviewRepo.EXPECT().
		Update(ctx, review).
		Return(nil)

	fx.reviewRepo.EXPECT().
		AggregateForProduct(ctx, productID).
		Return(4.0, 2, nil)

	fx.productRepo.EXPECT().
		UpdateRating(ctx, productID, 4.0, 2).
		Return(nil)

	newRating := 5
	updated, err := fx.service.UpdateReview(ctx, userID, reviewID, &usecase.UpdateReviewInput{
		Rating: &newRating,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "okay", updated.Title)
	assert.Equal(t, "does the job", updated.Comment)
}

func TestReviewService_DeleteReview_RecomputesRating(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	reviewID := uuid.New()
	productID := uuid.New()
	review := &entity.Review{ID: reviewID, UserID: userID, ProductID: productID, Rating: 5}

	fx.reviewRepo.EXPECT().
		FindByID(ctx, reviewID).
		Return(review, nil)

	fx.reviewRepo.EXPECT().
		Delete(ctx, reviewID).
		Return(nil)

	fx.reviewRepo.EXPECT().
		AggregateForProduct(ctx, productID).
		Return(0.0, 0, nil)

	fx.productRepo.EXPECT().
		UpdateRating(ctx, productID, 0.0, 0).
		Return(nil)

	err := fx.service.DeleteReview(ctx, userID, reviewID)
	assert.NoError(t, err)
}

func TestReviewService_ModerateReview_HidingRecomputesRating(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	reviewID := uuid.New()
	productID := uuid.New()
	review := &entity.Review{
		ID:         reviewID,
		UserID:     uuid.New(),
		ProductID:  productID,
		Rating:     1,
		IsActive:   true,
		IsApproved: true,
	}

	fx.reviewRepo.EXPECT().
		FindByID(ctx, reviewID).
		Return(review, nil)

	fx.reviewRepo.EXPECT().
		Update(ctx, review).
		Return(nil)

	fx.reviewRepo.EXPECT().
		AggregateForProduct(ctx, productID).
		Return(4.5, 2, nil)

	fx.productRepo.EXPECT().
		UpdateRating(ctx, productID, 4.5, 2).
		Return(nil)

	moderated, err := fx.service.ModerateReview(ctx, reviewID, &usecase.ModerateReviewInput{
		IsApproved: false,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.False(t, moderated.IsApproved)
	assert.True(t, moderated.IsActive)
}

func TestReviewService_ModerateReview_NotFound(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	reviewID := uuid.New()

	fx.reviewRepo.EXPECT().
		FindByID(ctx, reviewID).
		Return(nil, repository.ErrReviewNotFound)

	_, err := fx.service.ModerateReview(ctx, reviewID, &usecase.ModerateReviewInput{})
	assert.ErrorIs(t, err, domainerrors.ErrReviewNotFound)
}
