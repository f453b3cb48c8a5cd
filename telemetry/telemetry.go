// Package telemetry persists periodic snapshots of driver station state to
// MongoDB, adapted from this codebase's database package: same connection
// lifecycle, same pool-size knobs, generalized from robot-fleet records to
// a single station's config and diagnostics history.
//
// Telemetry is entirely optional. If MONGODB_URI is unset, Start returns a
// no-op Recorder rather than failing, so a driver station never refuses to
// run just because nobody configured a database.
package telemetry

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"driverstation/dsconfig"
	"driverstation/engine"
	"driverstation/shared"
)

// Recorder persists periodic snapshots. A nil *Recorder (returned by Start
// when no database is configured) is safe to call Record/Stop on: every
// method is a no-op in that case.
type Recorder struct {
	client    *mongo.Client
	database  *mongo.Database
	snapshots *mongo.Collection
	ctx       context.Context
	cancel    context.CancelFunc
}

// Snapshot is one persisted sample: the config bus state plus the engine's
// current jitter and packet-loss figures.
type Snapshot struct {
	RecordedAt time.Time          `bson:"recordedAt"`
	Config     dsconfig.DsConfig  `bson:"config"`
	Diag       engine.Diagnostics `bson:"diagnostics"`
}

// Start connects to MongoDB using MONGODB_URI/MONGODB_DATABASE from the
// environment. If MONGODB_URI is unset, it returns a nil *Recorder and a
// nil error: telemetry is simply disabled, not a startup failure.
func Start(ctx context.Context) (*Recorder, error) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		shared.DebugPrint("telemetry: MONGODB_URI unset, recording disabled")
		return nil, nil
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "driverstation"
	}

	rctx, cancel := context.WithCancel(ctx)

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(uint64(shared.MONGODB_MAX_POOL_SIZE)).
		SetMinPoolSize(uint64(shared.MONGODB_MIN_POOL_SIZE))

	client, err := mongo.Connect(rctx, clientOpts)
	if err != nil {
		cancel()
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(rctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		cancel()
		return nil, err
	}

	db := client.Database(dbName)
	r := &Recorder{
		client:    client,
		database:  db,
		snapshots: db.Collection("snapshots"),
		ctx:       rctx,
		cancel:    cancel,
	}

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	shared.DebugPrint("telemetry: recording to %s/%s", uri, dbName)
	return r, nil
}

// Record inserts one snapshot. A nil Recorder silently does nothing.
func (r *Recorder) Record(cfg dsconfig.DsConfig, diag engine.Diagnostics) {
	if r == nil {
		return
	}
	snap := Snapshot{RecordedAt: time.Now(), Config: cfg, Diag: diag}
	insertCtx, cancel := context.WithTimeout(r.ctx, 5*time.Second)
	defer cancel()
	if _, err := r.snapshots.InsertOne(insertCtx, snap); err != nil {
		shared.DebugError(err)
	}
}

// IsHealthy reports whether the database connection is reachable. A nil
// Recorder reports unhealthy, since there is nothing to connect to.
func (r *Recorder) IsHealthy() bool {
	if r == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(r.ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(pingCtx, readpref.Primary()) == nil
}

// Stop disconnects from MongoDB. Safe to call on a nil Recorder and safe
// to call more than once.
func (r *Recorder) Stop() {
	if r == nil {
		return
	}
	r.cancel()
	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Disconnect(disconnectCtx); err != nil {
		shared.DebugError(err)
	}
}
