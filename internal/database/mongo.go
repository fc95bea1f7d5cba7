package database

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"festreg/entity"
	"festreg/internal/config"
)

const collectionSessions = "sessions"

// MongoDB keeps login sessions. A client is configured once; each
// operation opens and closes its own connection.
type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
	indexOnce     sync.Once
}

func NewMongoClient(conf *config.Config) *MongoDB {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

// ensureTTLIndex lets Mongo purge expired sessions on its own; expiry is
// still checked on every lookup, so a failed creation only delays cleanup.
func (m *MongoDB) ensureTTLIndex(connection *mongo.Client) {
	m.indexOnce.Do(func() {
		collection := connection.Database(m.database).Collection(collectionSessions)
		_, _ = collection.Indexes().CreateOne(m.ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		})
	})
}

func (m *MongoDB) CreateSession(session *entity.Session) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	m.ensureTTLIndex(connection)

	collection := connection.Database(m.database).Collection(collectionSessions)
	_, err = collection.InsertOne(m.ctx, session)
	return err
}

// GetSession resolves a token; mongo.ErrNoDocuments when unknown.
func (m *MongoDB) GetSession(token string) (*entity.Session, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionSessions)
	filter := bson.D{{Key: "token", Value: token}}
	var session entity.Session
	err = collection.FindOne(m.ctx, filter).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *MongoDB) DeleteSession(token string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionSessions)
	_, err = collection.DeleteOne(m.ctx, bson.D{{Key: "token", Value: token}})
	return err
}
