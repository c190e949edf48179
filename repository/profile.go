package repository

import (
	"context"
	"errors"
	"time"

	"devhub/database"
	"devhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	FindAll(ctx context.Context) ([]models.Profile, error)
	// Upsert sets only the provided fields on the caller's profile, creating
	// the document if it does not exist yet.
	Upsert(ctx context.Context, userID primitive.ObjectID, fields models.ProfileFields) (*models.Profile, error)
	// Save replaces the stored document, persisting in-memory mutations of the
	// experience and education arrays.
	Save(ctx context.Context, profile *models.Profile) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type mongoProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(store *database.Store) ProfileRepository {
	return &mongoProfileRepository{coll: store.Collection("profiles")}
}

func (r *mongoProfileRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *mongoProfileRepository) FindAll(ctx context.Context) ([]models.Profile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *mongoProfileRepository) Upsert(ctx context.Context, userID primitive.ObjectID, fields models.ProfileFields) (*models.Profile, error) {
	set := bson.M{
		"user":   userID,
		"status": fields.Status,
		"skills": fields.Skills,
	}
	setString(set, "company", fields.Company)
	setString(set, "website", fields.Website)
	setString(set, "location", fields.Location)
	setString(set, "bio", fields.Bio)
	setString(set, "githubusername", fields.GithubUsername)
	setString(set, "social.youtube", fields.Youtube)
	setString(set, "social.twitter", fields.Twitter)
	setString(set, "social.facebook", fields.Facebook)
	setString(set, "social.linkedin", fields.Linkedin)
	setString(set, "social.instagram", fields.Instagram)

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"experience": []models.Experience{},
			"education":  []models.Education{},
			"date":       time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile models.Profile
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *mongoProfileRepository) Save(ctx context.Context, profile *models.Profile) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile)
	return err
}

func (r *mongoProfileRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"user": userID})
	return err
}

func setString(set bson.M, key string, value *string) {
	if value != nil {
		set[key] = *value
	}
}
