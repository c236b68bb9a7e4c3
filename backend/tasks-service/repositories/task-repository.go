package repositories

import (
	"context"
	"errors"
	"fmt"

	"task-tracker/backend/tasks-service/models"
	"task-tracker/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskFilter opisuje upit nad kolekcijom zadataka. Prazna polja se ne filtriraju.
type TaskFilter struct {
	Team       string
	AssignedTo *primitive.ObjectID
	Status     *models.TaskStatus
}

type TaskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(collection *mongo.Collection) *TaskRepo {
	return &TaskRepo{collection: collection}
}

func (r *TaskRepo) Insert(ctx context.Context, task *models.Task) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create task: %v", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("task %s: %w", id.Hex(), utils.ErrNotFound)
		}
		return nil, err
	}
	return &task, nil
}

// Update menja ceo dokument zadatka (last-writer-wins).
func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task %s: %w", task.ID.Hex(), utils.ErrNotFound)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task %s: %w", id.Hex(), utils.ErrNotFound)
	}
	return nil
}

// Find vraća sve zadatke koji odgovaraju filteru, u jednom prolazu kursora,
// tako da agregacije rade nad konzistentnim snimkom.
func (r *TaskRepo) Find(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{}
	if filter.Team != "" {
		query["team"] = filter.Team
	}
	if filter.AssignedTo != nil {
		query["assignedTo"] = *filter.AssignedTo
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	cursor, err := r.collection.Find(ctx, query, options.Find())
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, cursor.Err()
}
