package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"juzbuild-api/internal/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensures the control-plane indexes exist: the compound site/owner key the
// teardown predicate relies on, and the api key lookup used by auth.
func main() {
	uri, err := shared.SafeEnv("MONGO_URI")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: MONGO_URI environment variable is required: %v\n", err)
		os.Exit(1)
	}
	dbName := shared.GetEnv("MONGO_DB", "juzbuild")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	_, err = db.Collection("sites").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "siteId", Value: 1}, {Key: "ownerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating sites index: %v\n", err)
		os.Exit(1)
	}

	_, err = db.Collection("owners").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "apiKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating owners index: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migration completed successfully!")
}
