package listingRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"directory101/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoListingRepo implements ListingRepository on MongoDB, queried with
// declarative bson filters.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates a ListingRepository backed by MongoDB.
func NewMongoListingRepo(client *mongo.Client) *MongoListingRepo {
	coll := client.Database("directory101").Collection("listings")
	repo := &MongoListingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields that are frequently used in queries.
func (r *MongoListingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "categories", Value: 1}}},
		{Keys: bson.D{{Key: "region", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// buildSearchFilter translates the conjunctive filter set into a bson filter.
func buildSearchFilter(q models.ListingQuery) bson.M {
	filter := bson.M{}
	if !q.IncludeAll {
		filter["status"] = string(models.StatusApproved)
		filter["active"] = true
	}
	if q.Category != "" {
		filter["categories"] = q.Category
	}
	if q.AgeRange != "" {
		filter["ageRanges"] = q.AgeRange
	}
	if q.Region != "" {
		filter["region"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q.Region) + "$", "$options": "i"}
	}
	if q.Query != "" {
		pattern := regexp.QuoteMeta(q.Query)
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return filter
}

// sortDocument maps the sort enumeration onto a mongo sort with the ID
// tie-break appended.
func sortDocument(key models.SortKey) bson.D {
	switch key {
	case models.SortCreatedAsc:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}}
	case models.SortUpdatedAsc:
		return bson.D{{Key: "updatedAt", Value: 1}, {Key: "id", Value: 1}}
	case models.SortUpdatedDesc:
		return bson.D{{Key: "updatedAt", Value: -1}, {Key: "id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: 1}}
	}
}

// Search runs the paged read and the count against the same filter so the
// window and the total can never disagree.
func (r *MongoListingRepo) Search(ctx context.Context, q models.ListingQuery) (*models.PageResult, error) {
	q = q.Normalized()
	filter := buildSearchFilter(q)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: count: %v", ErrQueryFailed, err)
	}

	opts := options.Find().
		SetSort(sortDocument(q.Sort)).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(models.PageSize))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	items := []models.Listing{}
	for cursor.Next(ctx) {
		var l models.Listing
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrQueryFailed, err)
		}
		items = append(items, l)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %v", ErrQueryFailed, err)
	}

	return &models.PageResult{Items: items, TotalCount: total}, nil
}

// GetByID retrieves a listing by its unique ID.
func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch listing with id %s: %w", id, err)
	}
	return &l, nil
}

// GetBySlug retrieves a listing by its derived slug.
func (r *MongoListingRepo) GetBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	var l models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch listing with slug %s: %w", slug, err)
	}
	return &l, nil
}

// Create inserts a new listing record.
func (r *MongoListingRepo) Create(ctx context.Context, l *models.Listing) error {
	l.DeriveSlug()
	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update replaces an existing listing record.
func (r *MongoListingRepo) Update(ctx context.Context, l *models.Listing) error {
	l.DeriveSlug()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": l.ID}, l)
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", l.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing record by its ID.
func (r *MongoListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Claim performs the conditional update server-side: the filter requires the
// listing to still be unclaimed, so only one of two racing claims matches.
func (r *MongoListingRepo) Claim(ctx context.Context, id, ownerID string) error {
	filter := bson.M{"id": id, "claimed": false}
	update := bson.M{"$set": bson.M{
		"claimed":   true,
		"ownerId":   ownerID,
		"updatedAt": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to claim listing %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		// Either the listing does not exist or someone claimed it first.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyClaimed
	}
	return nil
}

// IncrementContactClicks bumps the contact-click counter with $inc.
func (r *MongoListingRepo) IncrementContactClicks(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"contactClicks": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment contact clicks for %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates the moderation status.
func (r *MongoListingRepo) SetStatus(ctx context.Context, id string, status models.ListingStatus) error {
	return r.patch(ctx, id, bson.M{"status": string(status)})
}

// SetPlan updates the paid plan tier.
func (r *MongoListingRepo) SetPlan(ctx context.Context, id string, plan models.PlanTier) error {
	return r.patch(ctx, id, bson.M{"plan": string(plan)})
}

func (r *MongoListingRepo) patch(ctx context.Context, id string, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to patch listing %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
