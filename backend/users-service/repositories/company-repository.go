package repositories

import (
	"context"
	"errors"
	"fmt"

	"task-tracker/backend/users-service/models"
	"task-tracker/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CompanyRepo struct {
	collection *mongo.Collection
}

func NewCompanyRepo(collection *mongo.Collection) *CompanyRepo {
	return &CompanyRepo{collection: collection}
}

func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("company %s: %w", name, utils.ErrNotFound)
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("company %s: %w", id.Hex(), utils.ErrNotFound)
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepo) Insert(ctx context.Context, company *models.Company) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, company)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to save company: %v", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// AddTeam dodaje novi tim u listu timova kompanije.
func (r *CompanyRepo) AddTeam(ctx context.Context, companyID primitive.ObjectID, team models.Team) error {
	filter := bson.M{"_id": companyID}
	update := bson.M{"$push": bson.M{"teams": team}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add team: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("company %s: %w", companyID.Hex(), utils.ErrNotFound)
	}
	return nil
}

// AddTeamMember dodaje korisnika u listu članova postojećeg tima.
func (r *CompanyRepo) AddTeamMember(ctx context.Context, companyID primitive.ObjectID, teamName string, memberID primitive.ObjectID) error {
	filter := bson.M{"_id": companyID, "teams.name": teamName}
	update := bson.M{"$push": bson.M{"teams.$.members": memberID}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add team member: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("team %s in company %s: %w", teamName, companyID.Hex(), utils.ErrNotFound)
	}
	return nil
}
