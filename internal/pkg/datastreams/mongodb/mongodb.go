package mongodb

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
	runcfg "github.com/ohowland/dyn_core/internal/pkg/config"
)

const collection = "assemblies"

type Handler struct {
	pid    uuid.UUID
	config config
	client *mongo.Client
}

type config struct {
	URI      string `json:"URI"`
	Database string `json:"Database"`
	Port     string `json:"Port"`
}

// New reads the handler configuration at configPath. Connect must be called
// before Write.
func New(configPath string) (*Handler, error) {
	jsonConfig, err := runcfg.Read(configPath)
	if err != nil {
		return nil, err
	}
	cfg := config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return nil, err
	}
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New("mongodb: URI and Database are required")
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	return &Handler{pid: pid, config: cfg}, nil
}

func (h *Handler) PID() uuid.UUID {
	return h.pid
}

func (h *Handler) Name() string {
	return "mongodb"
}

func (h *Handler) uri() string {
	if h.config.Port == "" {
		return h.config.URI
	}
	return h.config.URI + ":" + h.config.Port
}

func (h *Handler) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(h.uri()))
	if err != nil {
		return err
	}
	h.client = client
	return nil
}

func (h *Handler) Disconnect(ctx context.Context) error {
	if h.client == nil {
		return nil
	}
	return h.client.Disconnect(ctx)
}

// Write upserts the snapshot document keyed by run PID.
func (h *Handler) Write(ctx context.Context, s assembler.Snapshot) error {
	if h.client == nil {
		return errors.New("mongodb: not connected")
	}
	opts := options.Update().SetUpsert(true)
	_, err := h.client.Database(h.config.Database).Collection(collection).UpdateOne(
		ctx,
		bson.M{"_id": s.PID},
		snapshotToBSON(s),
		opts,
	)
	return err
}

func snapshotToBSON(s assembler.Snapshot) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.M{
			"models":         s.Models,
			"shapes":         s.Shapes,
			"connections":    s.Connections,
			"parameter_sets": s.ParameterSets,
			"warnings":       s.Warnings,
		}},
	}
}
