package workqueue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/ntBre/besmarts/internal/errs"
)

// NATSConfig is spec.md §5's work-queue contract made concrete: a server
// address, a per-submission chunk size, and an expected total — here a
// subject to dispatch on and the poll interval workers honor. AuthToken is
// optional and, when set, is presented to the server as a bearer token
// (SPEC_FULL.md §3's credential-resolution path, fed from
// internal/secrets rather than stored in plain config).
type NATSConfig struct {
	ServerAddress string
	Subject       string
	PollInterval  time.Duration
	ChunkSize     int
	AuthToken     string
}

// wireReply is the JSON envelope a worker's reply carries: either a
// payload or an error string, never both.
type wireReply struct {
	Payload json.RawMessage `json:"payload,omitempty"`
	Err     string          `json:"err,omitempty"`
}

// NATSQueue is the distributed backend of spec.md §5: candidate-scoring
// requests publish on a subject per workspace; an embedded nats-server
// handles the local/default case without requiring an operator to stand up
// a broker. Workers may be this same process (its own subscriber, see
// startWorker) or any remote process subscribing to the same subject — the
// contract is identical either way.
type NATSQueue struct {
	cfg    NATSConfig
	conn   *nats.Conn
	embed  *server.Server
	mu     sync.Mutex
	jobs   map[string]Job
	closed bool
}

// NewEmbeddedNATSQueue boots an in-process nats-server and connects to it,
// giving the local/default case of spec.md §5 without an operator having
// to run a separate broker.
func NewEmbeddedNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	opts := &server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true}
	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("workqueue: starting embedded nats-server: %w", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		return nil, fmt.Errorf("workqueue: embedded nats-server did not become ready")
	}
	nc, err := nats.Connect(ns.ClientURL(), natsOpts(cfg)...)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("workqueue: connecting to embedded nats-server: %w", err)
	}
	q := &NATSQueue{cfg: cfg, conn: nc, embed: ns, jobs: map[string]Job{}}
	if err := q.startWorker(); err != nil {
		q.Close()
		return nil, err
	}
	return q, nil
}

// DialNATSQueue connects to an already-running NATS server at
// cfg.ServerAddress instead of booting an embedded one — the remote-worker
// case of spec.md §5, where workers are separate processes subscribing to
// the same subject.
func DialNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	nc, err := nats.Connect(cfg.ServerAddress, natsOpts(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("workqueue: dialing nats server %s: %w", cfg.ServerAddress, err)
	}
	return &NATSQueue{cfg: cfg, conn: nc, jobs: map[string]Job{}}, nil
}

// natsOpts turns the optional bearer token into a nats.Option; harmless to
// pass when the server has no auth configured (the embedded case).
func natsOpts(cfg NATSConfig) []nats.Option {
	if cfg.AuthToken == "" {
		return nil
	}
	return []nats.Option{nats.Token(cfg.AuthToken)}
}

// startWorker subscribes this process to cfg.Subject so it can itself
// answer requests — used by the embedded single-process queue where there
// is no separate worker pool to dial out to.
func (q *NATSQueue) startWorker() error {
	_, err := q.conn.Subscribe(q.cfg.Subject, func(msg *nats.Msg) {
		id := string(msg.Data)
		q.mu.Lock()
		j, ok := q.jobs[id]
		q.mu.Unlock()
		if !ok {
			msg.Respond(mustJSON(wireReply{Err: fmt.Sprintf("workqueue: unknown job id %s", id)}))
			return
		}
		defer func() {
			if r := recover(); r != nil {
				msg.Respond(mustJSON(wireReply{Err: fmt.Sprintf("workqueue: job %s panicked: %v", id, r)}))
			}
		}()
		res, err := j.Run()
		if err != nil {
			msg.Respond(mustJSON(wireReply{Err: err.Error()}))
			return
		}
		payload, err := json.Marshal(res)
		if err != nil {
			msg.Respond(mustJSON(wireReply{Err: fmt.Sprintf("workqueue: marshaling result: %v", err)}))
			return
		}
		msg.Respond(mustJSON(wireReply{Payload: payload}))
	})
	if err != nil {
		return fmt.Errorf("workqueue: subscribing to %s: %w", q.cfg.Subject, err)
	}
	return nil
}

func mustJSON(v wireReply) []byte {
	b, _ := json.Marshal(v)
	return b
}

// Submit publishes one request per job on cfg.Subject and waits up to
// PollInterval for each reply, reporting a timed-out or failed job as
// spec.md §7's WorkerFailure rather than aborting the rest of the batch.
// Results are decoded into map[string]interface{}; callers needing a
// concrete type re-marshal from that map.
func (q *NATSQueue) Submit(jobs []Job) ([]any, error) {
	q.mu.Lock()
	for _, j := range jobs {
		q.jobs[j.ID] = j
	}
	q.mu.Unlock()

	results := make([]any, len(jobs))
	var me errs.MultiError
	for i, j := range jobs {
		reply, err := q.conn.Request(q.cfg.Subject, []byte(j.ID), q.cfg.PollInterval)
		if err != nil {
			me.Append(fmt.Errorf("%w: job %s: %v", errs.ErrWorkerFailure, j.ID, err))
			continue
		}
		var wr wireReply
		if err := json.Unmarshal(reply.Data, &wr); err != nil {
			me.Append(fmt.Errorf("%w: job %s: decoding reply: %v", errs.ErrWorkerFailure, j.ID, err))
			continue
		}
		if wr.Err != "" {
			me.Append(fmt.Errorf("%w: job %s: %s", errs.ErrWorkerFailure, j.ID, wr.Err))
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(wr.Payload, &payload); err != nil {
			me.Append(fmt.Errorf("%w: job %s: decoding payload: %v", errs.ErrWorkerFailure, j.ID, err))
			continue
		}
		results[i] = payload
	}

	q.mu.Lock()
	for _, j := range jobs {
		delete(q.jobs, j.ID)
	}
	q.mu.Unlock()

	return results, me.AsError()
}

// Close drains the connection and, for an embedded server, shuts it down.
func (q *NATSQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	if q.conn != nil {
		q.conn.Close()
	}
	if q.embed != nil {
		q.embed.Shutdown()
	}
}
