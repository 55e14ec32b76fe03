package natshandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
	runcfg "github.com/ohowland/dyn_core/internal/pkg/config"
)

const flushTimeout = 2 * time.Second

type Handler struct {
	pid    uuid.UUID
	config config
	conn   *nats.Conn
}

type config struct {
	Server  string `json:"Server"`
	Subject string `json:"Subject"`
}

func New(configPath string) (*Handler, error) {
	jsonConfig, err := runcfg.Read(configPath)
	if err != nil {
		return nil, err
	}
	cfg := config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return nil, err
	}
	if cfg.Server == "" {
		cfg.Server = nats.DefaultURL
	}
	if cfg.Subject == "" {
		cfg.Subject = "assembly"
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
	return "nats"
}

func (h *Handler) Connect() error {
	nc, err := nats.Connect(h.config.Server)
	if err != nil {
		return err
	}
	h.conn = nc
	return nil
}

func (h *Handler) Close() {
	if h.conn != nil {
		h.conn.Close()
	}
}

// Subject is the subject a run is published on.
func (h *Handler) Subject(pid string) string {
	return h.config.Subject + "." + pid
}

// Subscribe delivers every snapshot published under the subject of the handler
// to handle. Undecodable messages are passed to onError.
func (h *Handler) Subscribe(handle func(assembler.Snapshot), onError func(error)) (*nats.Subscription, error) {
	if h.conn == nil {
		return nil, errors.New("nats: not connected")
	}
	return h.conn.Subscribe(h.Subject("*"), func(m *nats.Msg) {
		s := assembler.Snapshot{}
		if err := json.Unmarshal(m.Data, &s); err != nil {
			onError(fmt.Errorf("%s: %w", m.Subject, err))
			return
		}
		handle(s)
	})
}

// Write publishes the JSON snapshot and flushes it to the server.
func (h *Handler) Write(ctx context.Context, s assembler.Snapshot) error {
	if h.conn == nil {
		return errors.New("nats: not connected")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := h.conn.Publish(h.Subject(s.PID), data); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		return h.conn.FlushTimeout(flushTimeout)
	}
	return h.conn.FlushWithContext(ctx)
}
