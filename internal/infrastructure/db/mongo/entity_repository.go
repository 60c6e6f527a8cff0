package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ruetfest/festcrm/internal/core/domain"
)

// EntityRepository is the generic document-store backend for one entity
// collection. The same implementation serves sponsors, alumni and speakers.
type EntityRepository struct {
	col *mongo.Collection
}

func NewEntityRepository(db *mongo.Database, collection string) *EntityRepository {
	return &EntityRepository{col: db.Collection(collection)}
}

func (r *EntityRepository) Insert(ctx context.Context, doc domain.Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *EntityRepository) FindByID(ctx context.Context, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed identifiers behave exactly like unknown ones.
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw bson.M
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find by id: %w", err)
	}
	return normalize(raw), nil
}

func (r *EntityRepository) FindAll(ctx context.Context) ([]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	return decodeAll(ctx, cur)
}

func (r *EntityRepository) Search(ctx context.Context, fields []string, term string, projection []string) ([]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	proj := bson.M{"_id": 0}
	for _, f := range projection {
		proj[f] = 1
	}

	cur, err := r.col.Find(ctx, searchFilter(fields, term), options.Find().SetProjection(proj))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return decodeAll(ctx, cur)
}

func (r *EntityRepository) FindFirst(ctx context.Context, filter map[string]string) (domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := make(bson.M, len(filter))
	for k, v := range filter {
		q[k] = v
	}

	var raw bson.M
	if err := r.col.FindOne(ctx, q).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find first: %w", err)
	}
	return normalize(raw), nil
}

func (r *EntityRepository) Update(ctx context.Context, id string, fields domain.Document) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EntityRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EntityRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// searchFilter ORs a case-insensitive match across fields. QuoteMeta keeps
// pattern characters in the term literal.
func searchFilter(fields []string, term string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return bson.M{"$or": or}
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]domain.Document, error) {
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	docs := make([]domain.Document, len(raw))
	for i, m := range raw {
		docs[i] = normalize(m)
	}
	return docs, nil
}

// normalize converts driver types into the plain Go values the core works
// with: ObjectIDs become hex strings, datetimes become time.Time in UTC,
// nested documents and arrays become map[string]any and []any.
func normalize(m bson.M) domain.Document {
	doc := make(domain.Document, len(m))
	for k, v := range m {
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeValue(val)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}
