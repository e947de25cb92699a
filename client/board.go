package client

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectAPI interface {
	ListProjects(ctx context.Context) (ProjectList, error)
	ReorderProjects(ctx context.Context, moves []models.OrderUpdate) error
}

// Board is a local copy of the project list that is edited optimistically.
type Board struct {
	api    projectAPI
	logger zerolog.Logger

	mu       sync.Mutex
	projects []models.Project
	fallback bool
}

func NewBoard(api projectAPI) *Board {
	return &Board{
		api:    api,
		logger: log.With().Str("component", "board").Logger(),
	}
}

// Refresh replaces the local list with the server's.
func (b *Board) Refresh(ctx context.Context) error {
	list, err := b.api.ListProjects(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects = copyProjects(list.Projects)
	b.fallback = list.Fallback
	return nil
}

// Projects returns a copy of the local list in display order.
func (b *Board) Projects() []models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Project(nil), b.projects...)
}

// Fallback reports whether the list came from the server's built-in data.
func (b *Board) Fallback() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fallback
}

// Reorder puts the projects in the order of ids, numbering them from 1, and
// sends the change. If the server rejects it the previous list is restored,
// then replaced by a fresh copy from the server when one can be fetched.
func (b *Board) Reorder(ctx context.Context, ids []string) error {
	b.mu.Lock()
	snapshot := append([]models.Project(nil), b.projects...)
	next, moves, err := applyOrder(snapshot, ids)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.projects = next
	b.mu.Unlock()

	if err := b.api.ReorderProjects(ctx, moves); err != nil {
		b.mu.Lock()
		b.projects = snapshot
		b.mu.Unlock()
		b.logger.Warn().Err(err).Msg("reorder rejected, restored previous order")

		if refreshErr := b.Refresh(ctx); refreshErr != nil {
			b.logger.Warn().Err(refreshErr).Msg("could not refresh projects after failed reorder")
		}
		return err
	}
	return nil
}

func applyOrder(current []models.Project, ids []string) ([]models.Project, []models.OrderUpdate, error) {
	if len(ids) != len(current) {
		return nil, nil, fmt.Errorf("reorder needs all %d projects, got %d", len(current), len(ids))
	}
	position := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := position[id]; dup {
			return nil, nil, fmt.Errorf("project %s listed twice", id)
		}
		position[id] = i + 1
	}

	next := make([]models.Project, len(current))
	moves := make([]models.OrderUpdate, 0, len(current))
	for i, p := range current {
		order, ok := position[p.ID]
		if !ok {
			return nil, nil, fmt.Errorf("project %s is missing from the new order", p.ID)
		}
		p.Order = order
		next[i] = p
		moves = append(moves, models.OrderUpdate{ID: p.ID, Order: order})
	}
	sort.SliceStable(next, func(i, j int) bool { return next[i].Order < next[j].Order })
	sort.Slice(moves, func(i, j int) bool { return moves[i].Order < moves[j].Order })
	return next, moves, nil
}

func copyProjects(projects []*models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
