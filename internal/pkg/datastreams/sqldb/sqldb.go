package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
	runcfg "github.com/ohowland/dyn_core/internal/pkg/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

type Handler struct {
	pid    uuid.UUID
	config config
	db     *sql.DB
}

// config selects the driver with Driver: "mysql" (default) or "postgres".
type config struct {
	Driver   string `json:"Driver"`
	Server   string `json:"Server"`
	Port     int    `json:"Port"`
	Username string `json:"Username"`
	Password string `json:"Password"`
	Database string `json:"Database"`
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
	switch cfg.Driver {
	case "":
		cfg.Driver = "mysql"
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("sqldb: unsupported driver %q", cfg.Driver)
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
	return "sql/" + h.config.Driver
}

func (h *Handler) dsn() string {
	if h.config.Driver == "postgres" {
		return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=disable",
			h.config.Server, h.config.Port, h.config.Username, h.config.Password, h.config.Database)
	}
	return fmt.Sprintf("%v:%v@tcp(%v:%v)/%v", h.config.Username, h.config.Password, h.config.Server, h.config.Port, h.config.Database)
}

// DB opens the database. The connection is established lazily by the driver.
func (h *Handler) DB() (*sql.DB, error) {
	if h.db != nil {
		return h.db, nil
	}
	db, err := sql.Open(h.config.Driver, h.dsn())
	if err != nil {
		return nil, err
	}
	h.db = db
	return db, nil
}

func (h *Handler) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

// placeholders returns n bind parameters in the syntax of the driver.
func (h *Handler) placeholders(n int) string {
	marks := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if h.config.Driver == "postgres" {
			marks = append(marks, fmt.Sprintf("$%d", i))
		} else {
			marks = append(marks, "?")
		}
	}
	return strings.Join(marks, ", ")
}

const createConnections = `CREATE TABLE IF NOT EXISTS connections(
	pid VARCHAR(36) NOT NULL,
	seq INT NOT NULL,
	shape VARCHAR(255) NOT NULL,
	model1 VARCHAR(255) NOT NULL,
	name1 VARCHAR(255),
	index1 INT,
	model2 VARCHAR(255) NOT NULL,
	name2 VARCHAR(255),
	index2 INT,
	PRIMARY KEY (pid, seq))`

func (h *Handler) insertStatement() string {
	return `INSERT INTO connections (pid, seq, shape, model1, name1, index1, model2, name2, index2) VALUES (` +
		h.placeholders(9) + `)`
}

func initDBTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createConnections)
	return err
}

// Write stores one row per connection in a single transaction.
func (h *Handler) Write(ctx context.Context, s assembler.Snapshot) error {
	db, err := h.DB()
	if err != nil {
		return err
	}
	if err := initDBTables(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, h.insertStatement())
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for seq, c := range s.Connections {
		_, err := stmt.ExecContext(ctx, s.PID, seq, c.Shape,
			c.Model1, nullString(c.Name1), nullInt(c.Index1),
			c.Model2, nullString(c.Name2), nullInt(c.Index2))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("connection %d: %w", seq, err)
		}
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
