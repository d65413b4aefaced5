package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greengrocer-backend/internal/domain"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type MongoStore struct {
	products *mongo.Collection
	orders   *mongo.Collection
	admins   *mongo.Collection
	accounts *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		products: db.Collection(productsCollection),
		orders:   db.Collection(ordersCollection),
		admins:   db.Collection(adminsCollection),
		accounts: db.Collection(accountsCollection),
	}
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	if _, err := m.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	unique := options.Index().SetUnique(true)
	if _, err := m.admins.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}); err != nil {
		return fmt.Errorf("failed to create admin indexes: %w", err)
	}
	if _, err := m.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}); err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}
	return nil
}

// ----- Products -----

func (m *MongoStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	cur, err := m.products.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cur.Close(ctx)

	products := make([]domain.Product, 0)
	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, &DecodeError{Collection: productsCollection, ID: rawID(cur.Current), Err: err}
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (m *MongoStore) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	fields, err := productFields(p)
	if err != nil {
		return domain.Product{}, err
	}
	res, err := m.products.InsertOne(ctx, fields)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return p, nil
}

func (m *MongoStore) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, ErrNotFound
	}

	set := bson.M{"updated_at": patch.UpdatedAt}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		price, err := encodeDecimal(*patch.Price)
		if err != nil {
			return domain.Product{}, fmt.Errorf("encode price: %w", err)
		}
		set["price"] = price
	}
	if patch.ImageURL != nil {
		if *patch.ImageURL == "" {
			set["image_url"] = nil
		} else {
			set["image_url"] = *patch.ImageURL
		}
	}

	var doc productDocument
	err = m.products.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return doc.toDomain()
}

func (m *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ----- Orders -----

func (m *MongoStore) CreateOrder(ctx context.Context, o domain.Order) (string, error) {
	fields, err := orderFields(o)
	if err != nil {
		return "", err
	}
	res, err := m.orders.InsertOne(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (m *MongoStore) GetOrderByID(ctx context.Context, id string) (domain.Order, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an id this store could have issued.
		return domain.Order{}, false, nil
	}

	raw, err := m.orders.FindOne(ctx, bson.M{"_id": oid}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to get order: %w", err)
	}

	var doc orderDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return domain.Order{}, false, &DecodeError{Collection: ordersCollection, ID: id, Err: err}
	}
	o, err := doc.toDomain()
	if err != nil {
		return domain.Order{}, false, err
	}
	return o, true, nil
}

func (m *MongoStore) GetOrdersByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return m.findOrders(ctx, bson.M{"user_id": ownerID})
}

func (m *MongoStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return m.findOrders(ctx, bson.M{})
}

func (m *MongoStore) findOrders(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	cur, err := m.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := make([]domain.Order, 0)
	for cur.Next(ctx) {
		var doc orderDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, &DecodeError{Collection: ordersCollection, ID: rawID(cur.Current), Err: err}
		}
		o, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	return orders, nil
}

func (m *MongoStore) UpdateOrder(ctx context.Context, id string, upd OrderUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := bson.M{
		"status":     string(upd.Status),
		"updated_at": upd.UpdatedAt,
	}
	if upd.Location != nil {
		set["current_location"] = bson.M{"lat": upd.Location.Lat, "lng": upd.Location.Lng}
	}

	res, err := m.orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ----- Admin users -----

func (m *MongoStore) ListAdminUsers(ctx context.Context) ([]domain.AdminUser, error) {
	cur, err := m.admins.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}
	defer cur.Close(ctx)

	admins := make([]domain.AdminUser, 0)
	for cur.Next(ctx) {
		var doc adminDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, &DecodeError{Collection: adminsCollection, ID: rawID(cur.Current), Err: err}
		}
		a, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}
	return admins, nil
}

func (m *MongoStore) CreateAdminUser(ctx context.Context, email string, createdAt time.Time) (domain.AdminUser, error) {
	res, err := m.admins.InsertOne(ctx, bson.M{
		"email":      email,
		"role":       domain.RoleAdmin,
		"created_at": createdAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.AdminUser{}, ErrDuplicate
	}
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("failed to insert admin user: %w", err)
	}
	return domain.AdminUser{
		ID:        res.InsertedID.(primitive.ObjectID).Hex(),
		Email:     email,
		Role:      domain.RoleAdmin,
		CreatedAt: createdAt,
	}, nil
}

func (m *MongoStore) FindAdminByEmail(ctx context.Context, email string) (domain.AdminUser, bool, error) {
	var doc adminDocument
	err := m.admins.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.AdminUser{}, false, nil
	}
	if err != nil {
		return domain.AdminUser{}, false, fmt.Errorf("failed to find admin user: %w", err)
	}
	a, err := doc.toDomain()
	if err != nil {
		return domain.AdminUser{}, false, err
	}
	return a, true, nil
}

// ----- Accounts -----

func (m *MongoStore) CreateAccount(ctx context.Context, a Account) (Account, error) {
	doc := accountDocument{
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
	res, err := m.accounts.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return Account{}, ErrDuplicate
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to insert account: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return a, nil
}

func (m *MongoStore) FindAccountByEmail(ctx context.Context, email string) (Account, bool, error) {
	return m.findAccount(ctx, bson.M{"email": strings.ToLower(email)})
}

func (m *MongoStore) GetAccount(ctx context.Context, id string) (Account, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Account{}, false, nil
	}
	return m.findAccount(ctx, bson.M{"_id": oid})
}

func (m *MongoStore) findAccount(ctx context.Context, filter bson.M) (Account, bool, error) {
	var doc accountDocument
	err := m.accounts.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Account{}, false, nil
	}
	if err != nil {
		return Account{}, false, fmt.Errorf("failed to find account: %w", err)
	}
	return doc.toAccount(), true, nil
}

func rawID(raw bson.Raw) string {
	v, err := raw.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return v.String()
}
