// Package mongo archives transcripts to a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
)

const (
	defaultDatabase   = "chatbot_db"
	defaultCollection = "chat_history"
	defaultTimeout    = 5 * time.Second
)

// Options configures the sink.
type Options struct {
	Client     *mongodriver.Client
	Database   string
	Collection string
	Timeout    time.Duration
}

// Sink implements ports.TranscriptSink and ports.TranscriptReader.
type Sink struct {
	mongo   *mongodriver.Client
	coll    collection
	timeout time.Duration
}

var (
	_ ports.TranscriptSink   = (*Sink)(nil)
	_ ports.TranscriptReader = (*Sink)(nil)
)

// Connect dials uri and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongodriver.Client, error) {
	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// New returns a Sink and ensures the session_id index exists.
func New(opts Options) (*Sink, error) {
	if opts.Client == nil {
		return nil, errors.New("mongo client is required")
	}
	database := opts.Database
	if database == "" {
		database = defaultDatabase
	}
	name := opts.Collection
	if name == "" {
		name = defaultCollection
	}

	wrapper := mongoCollection{coll: opts.Client.Database(database).Collection(name)}
	s := newSink(opts.Client, wrapper, opts.Timeout)

	ctx, cancel := s.withTimeout(context.Background())
	defer cancel()
	if err := ensureIndexes(ctx, wrapper); err != nil {
		return nil, fmt.Errorf("failed to create transcript index: %w", err)
	}
	return s, nil
}

func newSink(client *mongodriver.Client, coll collection, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Sink{mongo: client, coll: coll, timeout: timeout}
}

// Archive inserts one document per transcript.
func (s *Sink) Archive(ctx context.Context, t domain.Transcript) error {
	if t.SessionID == "" {
		return errors.New("session id is required")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, t); err != nil {
		return &domain.ExternalServiceError{Service: "mongo", Err: err}
	}
	return nil
}

// Transcripts returns a session's archived transcripts, oldest first.
func (s *Sink) Transcripts(ctx context.Context, sessionID string) (out []domain.Transcript, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "mongo", Err: err}
	}
	defer func() {
		if cerr := cur.Close(ctx); err == nil && cerr != nil {
			err = cerr
		}
	}()

	for cur.Next(ctx) {
		var t domain.Transcript
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks the server is reachable.
func (s *Sink) Ping(ctx context.Context) error {
	if s.mongo == nil {
		return errors.New("no mongo client")
	}
	return s.mongo.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (s *Sink) Close(ctx context.Context) error {
	if s.mongo == nil {
		return nil
	}
	return s.mongo.Disconnect(ctx)
}

func (s *Sink) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func ensureIndexes(ctx context.Context, coll collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}

type collection interface {
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongodriver.InsertOneResult, error)
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (cursor, error)
	Indexes() indexView
}

type indexView interface {
	CreateOne(ctx context.Context, model mongodriver.IndexModel, opts ...*options.CreateIndexesOptions) (string, error)
}

type cursor interface {
	Next(ctx context.Context) bool
	Decode(val any) error
	Err() error
	Close(ctx context.Context) error
}

type mongoCollection struct {
	coll *mongodriver.Collection
}

func (c mongoCollection) InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongodriver.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, document, opts...)
}

func (c mongoCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (cursor, error) {
	cur, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (c mongoCollection) Indexes() indexView {
	return mongoIndexView{view: c.coll.Indexes()}
}

type mongoIndexView struct {
	view mongodriver.IndexView
}

func (v mongoIndexView) CreateOne(ctx context.Context, model mongodriver.IndexModel, opts ...*options.CreateIndexesOptions) (string, error) {
	return v.view.CreateOne(ctx, model, opts...)
}
