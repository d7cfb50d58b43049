package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	rates "github.com/malusev998/privatbank-rates"
)

type mongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStorage(c MongoDBConfig) (rates.Storage, error) {
	ctx := c.context()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.ConnectionString))

	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	st := mongoStorage{
		client:     client,
		collection: client.Database(c.Database).Collection(c.Collection),
	}

	if c.Migrate {
		if err := st.Migrate(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return st, nil
}

func (m mongoStorage) Store(ctx context.Context, days []rates.DayRates) (int, error) {
	rs := records(days, time.Now().UTC())

	if len(rs) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(rs))

	for _, r := range rs {
		sale, err := primitive.ParseDecimal128(r.Sale.String())
		if err != nil {
			return 0, fmt.Errorf("sale rate %s %s: %w", r.Date, r.Currency, err)
		}

		purchase, err := primitive.ParseDecimal128(r.Purchase.String())
		if err != nil {
			return 0, fmt.Errorf("purchase rate %s %s: %w", r.Date, r.Currency, err)
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{
				"date":     r.Date.Time,
				"currency": r.Currency,
				"provider": string(r.Provider),
			}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"sale":      sale,
					"purchase":  purchase,
					"createdAt": r.CreatedAt,
				},
			}).
			SetUpsert(true))
	}

	if _, err := m.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return 0, err
	}

	return len(rs), nil
}

func (m mongoStorage) Migrate(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "currency", Value: 1},
			{Key: "provider", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})

	if err != nil {
		return fmt.Errorf("migrate mongodb collection %s: %w", m.collection.Name(), err)
	}

	return nil
}

func (m mongoStorage) Drop(ctx context.Context) error {
	return m.collection.Drop(ctx)
}

func (m mongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}
