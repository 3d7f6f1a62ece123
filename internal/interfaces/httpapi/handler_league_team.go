package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	page, err := h.parsePage(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.teamService.ListTeams(ctx, page.Offset, page.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "offset", page.Offset, "limit", page.Limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeamDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamDetails")
	defer span.End()

	title := strings.TrimSpace(r.PathValue("teamTitle"))
	details, err := h.teamService.GetTeamDetails(ctx, title)
	if err != nil {
		h.logger.WarnContext(ctx, "get team details failed", "team", title, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamDetailsToDTO(details))
}

func (h *Handler) ListTeamMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamMatches")
	defer span.End()

	page, err := h.parsePage(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	title := strings.TrimSpace(r.PathValue("teamTitle"))
	matches, err := h.teamService.ListTeamMatches(ctx, title, page.Offset, page.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list team matches failed", "team", title, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamMatchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, teamMatchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
