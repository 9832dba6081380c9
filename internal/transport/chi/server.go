// Package chi is the HTTP transport: a hand-written chi router over the
// item, matching, notification, and health services.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/refind-app/refind/internal/domain"
	healthuc "github.com/refind-app/refind/internal/usecase/health"
	itemuc "github.com/refind-app/refind/internal/usecase/item"
	"github.com/refind-app/refind/internal/usecase/notify"
)

// matchReader lists persisted matches for display.
type matchReader interface {
	MatchesForLostItem(ctx context.Context, lostItemID string) ([]domain.Match, error)
	MatchesForFoundItem(ctx context.Context, foundItemID string) ([]domain.Match, error)
	RecentMatches(ctx context.Context, limit, offset int) ([]domain.Match, error)
}

// Server holds the HTTP handlers.
type Server struct {
	items   *itemuc.Service
	matches matchReader
	inbox   *notify.Inbox
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	items *itemuc.Service,
	matches matchReader,
	inbox *notify.Inbox,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		items:   items,
		matches: matches,
		inbox:   inbox,
		health:  health,
		logger:  logger,
	}
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/items", func(r chi.Router) {
		r.Post("/", s.handleCreateItem)
		r.Get("/", s.handleListItems)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetItem)
			r.Put("/", s.handleUpdateItem)
			r.Delete("/", s.handleDeleteItem)
			r.Get("/matches", s.handleItemMatches)
		})
	})

	r.Get("/owners/{ownerID}/items", s.handleOwnerItems)
	r.Get("/matches", s.handleRecentMatches)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", s.handleListNotifications)
		r.Get("/unread-count", s.handleUnreadCount)
		r.Get("/{id}", s.handleGetNotification)
		r.Post("/{id}/read", s.handleMarkNotificationRead)
	})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	item, err := s.items.Create(r.Context(), itemuc.NewItem{
		OwnerID:     req.OwnerID,
		Kind:        domain.ItemKind(req.Kind),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, itemToResponse(item))
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	kind := domain.ItemKind(r.URL.Query().Get("kind"))
	limit := queryInt(r, "limit", 200)

	items, err := s.items.List(r.Context(), kind, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsToResponse(items))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	patch := itemuc.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	}
	if req.Status != nil {
		status := domain.ItemStatus(*req.Status)
		patch.Status = &status
	}

	item, err := s.items.Update(r.Context(), chi.URLParam(r, "id"), req.OwnerID, patch)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if err := s.items.Delete(r.Context(), chi.URLParam(r, "id"), ownerID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

func (s *Server) handleOwnerItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.ListByOwner(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsToResponse(items))
}

// handleItemMatches lists persisted matches an item participates in, on
// the side implied by its kind.
func (s *Server) handleItemMatches(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := s.items.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var matches []domain.Match
	if item.Kind == domain.KindLost {
		matches, err = s.matches.MatchesForLostItem(r.Context(), id)
	} else {
		matches, err = s.matches.MatchesForFoundItem(r.Context(), id)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matchesToResponse(matches))
}

// handleRecentMatches lists the newest matches across all items.
func (s *Server) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	matches, err := s.matches.RecentMatches(r.Context(), limit, offset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesToResponse(matches))
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	notifications, err := s.inbox.List(r.Context(), userID, page, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notificationsToResponse(notifications),
		"page":          page,
		"limit":         limit,
	})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.inbox.UnreadCount(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid notification id")
		return
	}

	n, err := s.inbox.Get(r.Context(), id, r.URL.Query().Get("user_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationToResponse(n))
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid notification id")
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if err := s.inbox.MarkRead(r.Context(), id, req.UserID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleDomainError maps sentinel errors to HTTP statuses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, domain.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, "embedding_provider_error", err.Error())
	default:
		s.logger.Error("Unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
