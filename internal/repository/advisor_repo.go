package repository

import (
	"context"
	"errors"
	"fmt"

	"qr-feedback-backend/internal/database"
	"qr-feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrDuplicateEmail = errors.New("user with this email already exists")

type AdvisorRepo struct {
	collection *mongo.Collection
}

func NewAdvisorRepo() *AdvisorRepo {
	return &AdvisorRepo{
		collection: database.GetCollection("advisors"),
	}
}

func (r *AdvisorRepo) FindByEmail(ctx context.Context, email string) (*models.Advisor, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AdvisorRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Advisor, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AdvisorRepo) findOne(ctx context.Context, filter bson.M) (*models.Advisor, error) {
	var advisor models.Advisor
	err := r.collection.FindOne(ctx, filter).Decode(&advisor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &advisor, nil
}

func (r *AdvisorRepo) Create(ctx context.Context, advisor *models.Advisor) error {
	if advisor.PerformanceData == nil {
		advisor.PerformanceData = []models.FeedbackEntry{}
	}
	result, err := r.collection.InsertOne(ctx, advisor)
	if err != nil {
		return insertError(err)
	}
	advisor.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// insertError maps a unique email index violation to ErrDuplicateEmail.
func insertError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("insert advisor: %w", err)
}

// ListByRole returns every account with the given role, feedback included.
func (r *AdvisorRepo) ListByRole(ctx context.Context, role models.Role) ([]models.Advisor, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find advisors: %w", err)
	}
	advisors := []models.Advisor{}
	if err := cursor.All(ctx, &advisors); err != nil {
		return nil, fmt.Errorf("decode advisors: %w", err)
	}
	return advisors, nil
}

// ListAll is used by the batch QR regeneration command.
func (r *AdvisorRepo) ListAll(ctx context.Context) ([]models.Advisor, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"performanceData": 0}))
	if err != nil {
		return nil, fmt.Errorf("find advisors: %w", err)
	}
	advisors := []models.Advisor{}
	if err := cursor.All(ctx, &advisors); err != nil {
		return nil, fmt.Errorf("decode advisors: %w", err)
	}
	return advisors, nil
}

// SetQRCode reports false when no advisor matched id.
func (r *AdvisorRepo) SetQRCode(ctx context.Context, id bson.ObjectID, qrCode string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"qrCode": qrCode},
	})
	if err != nil {
		return false, fmt.Errorf("update qr code: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// AppendFeedback pushes entry atomically so concurrent submissions never overwrite each other.
// Reports false when no advisor matched id.
func (r *AdvisorRepo) AppendFeedback(ctx context.Context, id bson.ObjectID, entry models.FeedbackEntry) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"performanceData": entry},
	})
	if err != nil {
		return false, fmt.Errorf("append feedback: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// EnsureIndexes creates necessary indexes for the advisors collection
func (r *AdvisorRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
