package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"mailroom/internal/api/dto"
	"mailroom/internal/auth"
	"mailroom/internal/ipgate"
)

func (s *Server) listWhitelist(w http.ResponseWriter, r *http.Request) {
	entries, err := s.cache.List(r.Context())
	if err != nil {
		log.Error("Failed to list whitelist", "error", err)
		writeError(w, "Server error", http.StatusInternalServerError)
		return
	}

	clientIP := ipgate.ClientIPFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.WhitelistListResponse{
		Entries:         entries,
		TotalCount:      len(entries),
		CurrentIP:       clientIP,
		CurrentMatchIDs: ipgate.MatchingEntryIDs(clientIP, entries),
	})
}

func (s *Server) createWhitelistEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.WhitelistEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	actorID, err := auth.GetUserIDFromRequest(r)
	if err != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entry, err := s.guard.Create(r.Context(), req.IPCidr, req.Description, actorID, ipgate.ClientIPFromContext(r.Context()))
	if err != nil {
		writeGateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WhitelistEntryResponse{Entry: *entry})
}

func (s *Server) updateWhitelistEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeError(w, "Whitelist entry not found.", http.StatusNotFound)
		return
	}

	var req dto.WhitelistEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	actorID, err := auth.GetUserIDFromRequest(r)
	if err != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entry, err := s.guard.Update(r.Context(), id, req.IPCidr, req.Description, actorID, ipgate.ClientIPFromContext(r.Context()))
	if err != nil {
		writeGateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WhitelistEntryResponse{Entry: *entry})
}

func (s *Server) deleteWhitelistEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeError(w, "Whitelist entry not found.", http.StatusNotFound)
		return
	}

	actorID, err := auth.GetUserIDFromRequest(r)
	if err != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.guard.Delete(r.Context(), id, actorID, ipgate.ClientIPFromContext(r.Context())); err != nil {
		writeGateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// listWhitelistAudit returns the mutation history of one entry, newest first.
func (s *Server) listWhitelistAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeError(w, "Whitelist entry not found.", http.StatusNotFound)
		return
	}

	logs, err := s.audits.ListByEntity(r.Context(), ipgate.EntityWhitelistEntry, id)
	if err != nil {
		log.Error("Failed to list audit trail", "entry_id", id, "error", err)
		writeError(w, "Server error", http.StatusInternalServerError)
		return
	}

	views := make([]dto.AuditLogView, 0, len(logs))
	for i := range logs {
		fields, err := logs[i].Details.Fields()
		if err != nil {
			log.Warn("Unreadable audit details", "audit_id", logs[i].ID, "error", err)
		}
		views = append(views, dto.AuditLogView{
			ID:        logs[i].ID,
			ActorID:   logs[i].ActorID,
			Action:    logs[i].Action,
			Details:   fields,
			CreatedAt: logs[i].CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, dto.AuditTrailResponse{Entries: views, TotalCount: len(views)})
}

func entryID(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// writeGateError maps the gate's error kinds onto HTTP statuses. Unclassified
// failures are logged with full detail and answered with a generic message.
func writeGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ipgate.ErrInvalidInput):
		writeError(w, "IP or CIDR must not be empty.", http.StatusBadRequest)
	case errors.Is(err, ipgate.ErrInvalidAddress):
		writeError(w, "Not a valid IP address or CIDR.", http.StatusBadRequest)
	case errors.Is(err, ipgate.ErrSelfLockout):
		writeError(w, "Change would remove your current IP from the whitelist. Add another entry first.", http.StatusBadRequest)
	case errors.Is(err, ipgate.ErrLastEntry):
		writeError(w, "Delete would remove the last whitelist entry. Add another entry first.", http.StatusBadRequest)
	case errors.Is(err, ipgate.ErrNotFound):
		writeError(w, "Whitelist entry not found.", http.StatusNotFound)
	case errors.Is(err, ipgate.ErrDuplicate):
		writeError(w, "IP or CIDR already exists in the whitelist.", http.StatusConflict)
	default:
		log.Error("Whitelist mutation failed", "error", err)
		writeError(w, "Server error", http.StatusInternalServerError)
	}
}
