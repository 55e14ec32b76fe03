package webservice

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
)

// Store keeps the snapshots of finished runs in memory. It is a sink.
type Store struct {
	mux       *sync.RWMutex
	snapshots map[uuid.UUID]assembler.Snapshot
}

func NewStore() *Store {
	return &Store{
		mux:       &sync.RWMutex{},
		snapshots: make(map[uuid.UUID]assembler.Snapshot),
	}
}

func (s *Store) Name() string {
	return "webservice"
}

func (s *Store) Write(ctx context.Context, snap assembler.Snapshot) error {
	pid, err := uuid.Parse(snap.PID)
	if err != nil {
		return err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.snapshots[pid] = snap
	return nil
}

func (s *Store) Get(pid uuid.UUID) (assembler.Snapshot, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	snap, ok := s.snapshots[pid]
	return snap, ok
}

type service struct {
	store *Store
	log   logr.Logger
}

// New returns the HTTP handler serving the snapshots of store.
func New(store *Store, log logr.Logger) http.Handler {
	return makeRouter(store, log)
}

func makeRouter(store *Store, log logr.Logger) *mux.Router {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	s := service{store: store, log: log}
	r := mux.NewRouter()
	r.HandleFunc("/", BaseHandler)
	r.HandleFunc("/assembly/{pid}", s.snapshotHandler(func(snap assembler.Snapshot) interface{} {
		return snap
	})).Methods("GET")
	r.HandleFunc("/assembly/{pid}/connections", s.snapshotHandler(func(snap assembler.Snapshot) interface{} {
		return snap.Connections
	})).Methods("GET")
	r.HandleFunc("/assembly/{pid}/shapes", s.snapshotHandler(func(snap assembler.Snapshot) interface{} {
		return snap.Shapes
	})).Methods("GET")
	return r
}

func BaseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
}

// snapshotHandler serves the part of a stored snapshot selected by view.
func (s service) snapshotHandler(view func(assembler.Snapshot) interface{}) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")

		pid, err := uuid.Parse(vars["pid"])
		if err != nil {
			s.log.V(1).Info("malformed UUID", "pid", vars["pid"])
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		snap, ok := s.store.Get(pid)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		body, err := json.Marshal(view(snap))
		if err != nil {
			s.log.Error(err, "malformed JSON", "pid", pid.String())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			s.log.Error(err, "response not written", "pid", pid.String())
		}
	}
}
