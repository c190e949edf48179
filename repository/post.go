package repository

import (
	"context"
	"errors"

	"devhub/database"
	"devhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	// FindAll returns every post, newest first.
	FindAll(ctx context.Context) ([]models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// Save replaces the stored document, persisting in-memory mutations of the
	// likes and comments arrays.
	Save(ctx context.Context, post *models.Post) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type mongoPostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(store *database.Store) PostRepository {
	return &mongoPostRepository{coll: store.Collection("posts")}
}

func (r *mongoPostRepository) Insert(ctx context.Context, post *models.Post) error {
	_, err := r.coll.InsertOne(ctx, post)
	return err
}

func (r *mongoPostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *mongoPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *mongoPostRepository) Save(ctx context.Context, post *models.Post) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	return err
}

func (r *mongoPostRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *mongoPostRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user": userID})
	return err
}
