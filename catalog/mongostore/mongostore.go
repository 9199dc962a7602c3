// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package mongostore implements catalog.Store on MongoDB.
//
// Skills live in the "skills" collection and categories in "skillcategories".
// Both carry a unique index on name; see EnsureIndexes.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/stacklok/skillboard/catalog"
)

// Collection names.
const (
	SkillsCollection     = "skills"
	CategoriesCollection = "skillcategories"
)

type skillDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	LightColorPath string             `bson:"lightColorPath"`
	DarkColorPath  string             `bson:"darkColorPath"`
}

type skillViewDoc struct {
	Skill        skillDoc           `bson:",inline"`
	CategoryID   primitive.ObjectID `bson:"categoryId,omitempty"`
	CategoryName string             `bson:"categoryName,omitempty"`
}

type categoryDoc struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	Name   string               `bson:"name"`
	Skills []primitive.ObjectID `bson:"skills"`
}

func (d skillDoc) toSkill() catalog.Skill {
	return catalog.Skill{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		LightIconKey: d.LightColorPath,
		DarkIconKey:  d.DarkColorPath,
	}
}

func (d categoryDoc) toCategory() catalog.Category {
	ids := make([]string, 0, len(d.Skills))
	for _, id := range d.Skills {
		ids = append(ids, id.Hex())
	}
	return catalog.Category{ID: d.ID.Hex(), Name: d.Name, Skills: ids}
}

// Store is a MongoDB-backed catalog.Store.
type Store struct {
	skills     *mongo.Collection
	categories *mongo.Collection
}

var _ catalog.Store = (*Store)(nil)

// New returns a Store using the collections of db.
func New(db *mongo.Database) *Store {
	return &Store{
		skills:     db.Collection(SkillsCollection),
		categories: db.Collection(CategoriesCollection),
	}
}

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique name indexes on both collections.
// It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	}
	if _, err := s.skills.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("creating %s name index: %w", SkillsCollection, err)
	}
	if _, err := s.categories.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("creating %s name index: %w", CategoriesCollection, err)
	}
	membership := mongo.IndexModel{
		Keys:    bson.D{{Key: "skills", Value: 1}},
		Options: options.Index().SetName("skills"),
	}
	if _, err := s.categories.Indexes().CreateOne(ctx, membership); err != nil {
		return fmt.Errorf("creating %s skills index: %w", CategoriesCollection, err)
	}
	return nil
}

// GetSkill implements catalog.SkillStore.
func (s *Store) GetSkill(ctx context.Context, id string) (*catalog.Skill, error) {
	oid, err := objectID(id, "skill")
	if err != nil {
		return nil, err
	}
	var doc skillDoc
	if err := s.skills.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("skill %s: %w", id, catalog.ErrNotFound)
		}
		return nil, fmt.Errorf("finding skill %s: %w", id, err)
	}
	sk := doc.toSkill()
	return &sk, nil
}

// FindSkillByName implements catalog.SkillStore.
func (s *Store) FindSkillByName(ctx context.Context, name string) (*catalog.Skill, error) {
	var doc skillDoc
	if err := s.skills.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding skill %q: %w", name, err)
	}
	sk := doc.toSkill()
	return &sk, nil
}

// InsertSkill implements catalog.SkillStore.
func (s *Store) InsertSkill(ctx context.Context, sk *catalog.Skill) error {
	doc := skillDoc{
		ID:             primitive.NewObjectID(),
		Name:           sk.Name,
		LightColorPath: sk.LightIconKey,
		DarkColorPath:  sk.DarkIconKey,
	}
	if _, err := s.skills.InsertOne(ctx, doc); err != nil {
		return writeError("inserting skill", sk.Name, err)
	}
	sk.ID = doc.ID.Hex()
	return nil
}

// UpdateSkill implements catalog.SkillStore.
func (s *Store) UpdateSkill(ctx context.Context, sk *catalog.Skill) error {
	oid, err := objectID(sk.ID, "skill")
	if err != nil {
		return err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: sk.Name},
		{Key: "lightColorPath", Value: sk.LightIconKey},
		{Key: "darkColorPath", Value: sk.DarkIconKey},
	}}}
	res, err := s.skills.UpdateByID(ctx, oid, update)
	if err != nil {
		return writeError("updating skill", sk.Name, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("skill %s: %w", sk.ID, catalog.ErrNotFound)
	}
	return nil
}

// DeleteSkill implements catalog.SkillStore.
func (s *Store) DeleteSkill(ctx context.Context, id string) error {
	oid, err := objectID(id, "skill")
	if err != nil {
		return err
	}
	res, err := s.skills.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("deleting skill %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("skill %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// GetSkills implements catalog.SkillStore. Results follow the order of ids;
// unknown or malformed ids are skipped.
func (s *Store) GetSkills(ctx context.Context, ids []string) ([]catalog.Skill, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []catalog.Skill{}, nil
	}
	cur, err := s.skills.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, fmt.Errorf("finding skills: %w", err)
	}
	var docs []skillDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}

	byID := make(map[string]catalog.Skill, len(docs))
	for _, d := range docs {
		byID[d.ID.Hex()] = d.toSkill()
	}
	out := make([]catalog.Skill, 0, len(docs))
	for _, id := range ids {
		if sk, ok := byID[id]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}

// CountSkills implements catalog.SkillStore.
func (s *Store) CountSkills(ctx context.Context, f catalog.SkillFilter) (int64, error) {
	n, err := s.skills.CountDocuments(ctx, skillFilter(f))
	if err != nil {
		return 0, fmt.Errorf("counting skills: %w", err)
	}
	return n, nil
}

// SearchSkills implements catalog.SkillStore.
func (s *Store) SearchSkills(ctx context.Context, f catalog.SkillFilter, skip, limit int64) ([]catalog.SkillView, error) {
	cur, err := s.skills.Aggregate(ctx, searchPipeline(f, skip, limit))
	if err != nil {
		return nil, fmt.Errorf("searching skills: %w", err)
	}
	var docs []skillViewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	out := make([]catalog.SkillView, 0, len(docs))
	for _, d := range docs {
		view := catalog.SkillView{Skill: d.Skill.toSkill(), CategoryName: d.CategoryName}
		if !d.CategoryID.IsZero() {
			view.CategoryID = d.CategoryID.Hex()
		}
		out = append(out, view)
	}
	return out, nil
}

// ListCategories implements catalog.CategoryStore.
func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.categories.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}
	out := make([]catalog.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toCategory())
	}
	return out, nil
}

// GetCategory implements catalog.CategoryStore.
func (s *Store) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	oid, err := objectID(id, "category")
	if err != nil {
		return nil, err
	}
	c, err := s.findCategory(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, fmt.Errorf("finding category %s: %w", id, err)
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", id, catalog.ErrNotFound)
	}
	return c, nil
}

// FindCategoryByName implements catalog.CategoryStore.
func (s *Store) FindCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	c, err := s.findCategory(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return nil, fmt.Errorf("finding category %q: %w", name, err)
	}
	return c, nil
}

// InsertCategory implements catalog.CategoryStore.
func (s *Store) InsertCategory(ctx context.Context, c *catalog.Category) error {
	doc := categoryDoc{
		ID:     primitive.NewObjectID(),
		Name:   c.Name,
		Skills: objectIDs(c.Skills),
	}
	if _, err := s.categories.InsertOne(ctx, doc); err != nil {
		return writeError("inserting category", c.Name, err)
	}
	c.ID = doc.ID.Hex()
	if c.Skills == nil {
		c.Skills = []string{}
	}
	return nil
}

// FindCategoryBySkill implements catalog.CategoryStore.
func (s *Store) FindCategoryBySkill(ctx context.Context, skillID string) (*catalog.Category, error) {
	oid, err := primitive.ObjectIDFromHex(skillID)
	if err != nil {
		return nil, nil
	}
	c, err := s.findCategory(ctx, bson.D{{Key: "skills", Value: oid}})
	if err != nil {
		return nil, fmt.Errorf("finding category of skill %s: %w", skillID, err)
	}
	return c, nil
}

// AddSkillToCategory implements catalog.CategoryStore.
func (s *Store) AddSkillToCategory(ctx context.Context, categoryID, skillID string) error {
	return s.updateMembership(ctx, categoryID, skillID, "$addToSet")
}

// RemoveSkillFromCategory implements catalog.CategoryStore.
func (s *Store) RemoveSkillFromCategory(ctx context.Context, categoryID, skillID string) error {
	return s.updateMembership(ctx, categoryID, skillID, "$pull")
}

// RemoveSkillFromAllCategories implements catalog.CategoryStore.
func (s *Store) RemoveSkillFromAllCategories(ctx context.Context, skillID string) error {
	oid, err := primitive.ObjectIDFromHex(skillID)
	if err != nil {
		return nil
	}
	_, err = s.categories.UpdateMany(ctx,
		bson.D{{Key: "skills", Value: oid}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "skills", Value: oid}}}},
	)
	if err != nil {
		return fmt.Errorf("removing skill %s from categories: %w", skillID, err)
	}
	return nil
}

func (s *Store) updateMembership(ctx context.Context, categoryID, skillID, op string) error {
	cid, err := objectID(categoryID, "category")
	if err != nil {
		return err
	}
	sid, err := objectID(skillID, "skill")
	if err != nil {
		return err
	}
	res, err := s.categories.UpdateByID(ctx, cid, bson.D{{Key: op, Value: bson.D{{Key: "skills", Value: sid}}}})
	if err != nil {
		return fmt.Errorf("updating category %s: %w", categoryID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("category %s: %w", categoryID, catalog.ErrNotFound)
	}
	return nil
}

// findCategory returns nil, nil when nothing matches.
func (s *Store) findCategory(ctx context.Context, filter bson.D) (*catalog.Category, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "name", Value: 1}})
	var doc categoryDoc
	if err := s.categories.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	c := doc.toCategory()
	return &c, nil
}

// skillFilter translates f into a query document.
func skillFilter(f catalog.SkillFilter) bson.D {
	filter := bson.D{}
	if f.NameContains != "" {
		filter = append(filter, bson.E{Key: "name", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(f.NameContains)},
			{Key: "$options", Value: "i"},
		}})
	}
	if f.IDs != nil {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$in", Value: objectIDs(f.IDs)}}})
	}
	return filter
}

// searchPipeline pages before joining so the lookup only runs for returned rows.
func searchPipeline(f catalog.SkillFilter, skip, limit int64) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: skillFilter(f)}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
	}
	if skip > 0 {
		p = append(p, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: limit}})
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CategoriesCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "skills"},
			{Key: "as", Value: "category"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "categoryId", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$category._id", 0}}}},
			{Key: "categoryName", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$category.name", 0}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "category", Value: 0}}}},
	)
}

// objectID parses a hex id. Malformed ids cannot name a document, so they
// report ErrNotFound.
func objectID(id, kind string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s %s: %w", kind, id, catalog.ErrNotFound)
	}
	return oid, nil
}

// objectIDs parses ids, dropping malformed entries. It never returns nil.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func writeError(op, name string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%q: %w", name, catalog.ErrConflict)
	}
	return fmt.Errorf("%s %q: %w", op, name, err)
}
