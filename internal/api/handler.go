// Package api exposes the quoting wizard and the back-office catalog tooling
// as a JSON API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/orders"
	"github.com/NeuralStories/cortinas-presupuesto/internal/quote"
)

// MaterialStore is the catalog read/write contract.
type MaterialStore interface {
	Create(ctx context.Context, m *materials.Material) (*materials.Material, error)
	Update(ctx context.Context, id string, m *materials.Material) (*materials.Material, error)
	SetActive(ctx context.Context, id string, active bool) error
	GetByID(ctx context.Context, id string) (*materials.Material, error)
	List(ctx context.Context, onlyActive bool) ([]materials.Material, error)
}

// OrderStore receives finalized orders as opaque append-style writes.
type OrderStore interface {
	Create(ctx context.Context, o *orders.Order) (*orders.Order, error)
	List(ctx context.Context) ([]orders.Order, error)
}

// Notifier pings the back office about a submitted order.
type Notifier interface {
	OrderSubmitted(o *orders.Order)
}

type Handler struct {
	log       *slog.Logger
	engine    *quote.Engine
	materials MaterialStore
	orders    OrderStore
	notifier  Notifier
	sessions  *SessionStore
}

func NewHandler(log *slog.Logger, engine *quote.Engine, mats MaterialStore, ords OrderStore, notifier Notifier) *Handler {
	return &Handler{
		log:       log,
		engine:    engine,
		materials: mats,
		orders:    ords,
		notifier:  notifier,
		sessions:  NewSessionStore(),
	}
}

// SweepSessions runs the idle-session sweeper until ctx is done.
func (h *Handler) SweepSessions(ctx context.Context) {
	h.sessions.Sweep(ctx)
}

func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError surfaces a recoverable message string for user retry.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// FlexFloat accepts locale-formatted decimals from the admin forms: numbers,
// or strings with a comma or dot separator. Unparsable input normalizes to 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}
