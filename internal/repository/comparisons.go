package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RishiKendai/aegis/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

const comparisonsCollection = "plagiarism_comparisons"

// ComparisonsRepository stores the matched-region detail behind every
// significant pair, the evidence a drive result links back to.
type ComparisonsRepository struct {
	mongoRepo *MongoRepository
}

func NewComparisonsRepository(mongoRepo *MongoRepository) *ComparisonsRepository {
	return &ComparisonsRepository{mongoRepo: mongoRepo}
}

func (r *ComparisonsRepository) InsertComparison(ctx context.Context, result *models.ComparisonResult) error {
	result.CreatedAt = time.Now()
	if err := r.mongoRepo.InsertOne(ctx, comparisonsCollection, result); err != nil {
		return fmt.Errorf("failed to insert comparison result: %w", err)
	}
	return nil
}

func (r *ComparisonsRepository) GetComparisonsByDriveID(ctx context.Context, driveID string) ([]*models.ComparisonResult, error) {
	filter := bson.M{"driveId": driveID}

	cursor, err := r.mongoRepo.FindMany(ctx, comparisonsCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find comparisons: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.ComparisonResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode comparisons: %w", err)
	}
	return results, nil
}
