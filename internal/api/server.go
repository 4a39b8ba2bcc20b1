package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmstead/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const playerContextKey contextKey = "player"

type Server struct {
	log  *slog.Logger
	game *game.Service
	mux  *chi.Mux
}

func New(logger *slog.Logger, gameSvc *game.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:  logger,
		game: gameSvc,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.playerMiddleware)

		r.Post("/register", s.handleRegister)
		r.Get("/profile", s.handleProfile)
		r.Get("/inventory", s.handleInventory)
		r.Get("/upgrades", s.handleUpgrades)
		r.Get("/streak", s.handleStreak)

		r.Post("/farm", s.handleFarm)
		r.Post("/sell", s.handleSell)
		r.Post("/sell/milk", s.handleSellMilk)
		r.Post("/sell/treasure", s.handleSellTreasure)

		r.Post("/shop/upgrade", s.handleBuyUpgrade)
		r.Post("/shop/cow", s.handleBuyCow)

		r.Get("/cow", s.handleCowStatus)
		r.Post("/cow/production/toggle", s.handleToggleProduction)
		r.Post("/cow/collect", s.handleCollectMilk)

		r.Post("/rebirth", s.handlePrepareRebirth)
		r.Post("/rebirth/confirm", s.handleRebirth)

		r.Post("/daily", s.handleDaily)
		r.Post("/gamble", s.handleGamble)
		r.Post("/coinflip", s.handleCoinflip)

		r.Get("/leaderboard/{category}", s.handleLeaderboard)
	})
}

// playerMiddleware reads the caller's identity from X-Player-ID. The header
// is trusted as-is; authenticating it is the front door's job.
func (s *Server) playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID := strings.TrimSpace(r.Header.Get("X-Player-ID"))
		if playerID == "" {
			writeError(w, http.StatusUnauthorized, "missing X-Player-ID header")
			return
		}
		ctx := context.WithValue(r.Context(), playerContextKey, playerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(playerContextKey).(string)
	return id
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.game.Register(r.Context(), playerFromContext(r.Context()), in.DisplayName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"created": created})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.Profile(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.GetInventory(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpgrades(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.Catalog(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"upgrades": out})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.Streak(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFarm(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.Farm(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Items []game.SellOrder `json:"items"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.Sell(r.Context(), playerFromContext(r.Context()), in.Items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSellMilk(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.SellMilk(r.Context(), playerFromContext(r.Context()), in.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSellTreasure(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Treasure string `json:"treasure"`
		Amount   int64  `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.SellTreasure(r.Context(), playerFromContext(r.Context()), game.Treasure(in.Treasure), in.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Kind string `json:"kind"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.BuyUpgrade(r.Context(), playerFromContext(r.Context()), game.UpgradeKind(in.Kind))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBuyCow(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.BuyCow(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCowStatus(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.CowStatus(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleToggleProduction(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.ToggleProduction(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCollectMilk(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.CollectMilk(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePrepareRebirth(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.PrepareRebirth(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRebirth(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.Rebirth(r.Context(), playerFromContext(r.Context()), strings.TrimSpace(in.Token))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.ClaimDaily(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGamble(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Stake int64 `json:"stake"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.Gamble(r.Context(), playerFromContext(r.Context()), in.Stake)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCoinflip(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Call  string `json:"call"`
		Stake int64  `json:"stake"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.Coinflip(r.Context(), playerFromContext(r.Context()), game.CoinCall(strings.ToLower(in.Call)), in.Stake)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	out, err := s.game.Leaderboard(r.Context(), category, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "entries": out})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var cooldown *game.CooldownError
	var betTooLarge *game.BetTooLargeError
	var locked *game.RebirthLockedError
	switch {
	case errors.As(err, &cooldown):
		w.Header().Set("Retry-After", strconv.Itoa(int(cooldown.Remaining.Seconds())+1))
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.As(err, &betTooLarge), errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrMaxLevelReached),
		errors.Is(err, game.ErrUnknownUpgrade), errors.Is(err, game.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &locked), errors.Is(err, game.ErrBanned):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrNotRegistered):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrAlreadyClaimed), errors.Is(err, game.ErrCowAlreadyOwned),
		errors.Is(err, game.ErrStaleRebirth):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrNoCow), errors.Is(err, game.ErrNothingToSell):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
