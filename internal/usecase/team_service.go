package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/team"
)

const MaxPageLimit = 500

type TeamDetails struct {
	Team    team.Team
	Players []team.Player
}

type TeamService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
}

func NewTeamService(teamRepo team.Repository, matchRepo match.Repository) *TeamService {
	return &TeamService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

func (s *TeamService) ListTeams(ctx context.Context, offset, limit int) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		return []team.Team{}, nil
	}

	teams, err := s.teamRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *TeamService) GetTeamDetails(ctx context.Context, title string) (TeamDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamDetails")
	defer span.End()

	item, err := s.getTeam(ctx, title)
	if err != nil {
		return TeamDetails{}, err
	}

	players, err := s.teamRepo.ListPlayers(ctx, item.ID)
	if err != nil {
		return TeamDetails{}, fmt.Errorf("list team players: %w", err)
	}

	return TeamDetails{
		Team:    item,
		Players: players,
	}, nil
}

// ListTeamMatches returns the team's finished matches, newest first.
func (s *TeamService) ListTeamMatches(ctx context.Context, title string, offset, limit int) ([]match.TeamMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeamMatches")
	defer span.End()

	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}

	item, err := s.getTeam(ctx, title)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return []match.TeamMatch{}, nil
	}

	items, err := s.matchRepo.ListFinishedByTeam(ctx, item.ID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list team matches: %w", err)
	}

	return items, nil
}

func (s *TeamService) getTeam(ctx context.Context, title string) (team.Team, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return team.Team{}, fmt.Errorf("%w: team title is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByTitle(ctx, title)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, title)
	}

	return item, nil
}

func validatePage(offset, limit int) error {
	if offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0", ErrInvalidInput)
	}
	if limit < 0 || limit > MaxPageLimit {
		return fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidInput, MaxPageLimit)
	}
	return nil
}
