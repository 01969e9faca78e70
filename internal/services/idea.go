package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cookideas/server/internal/models"
)

// IdeaService handles idea lifecycle operations
type IdeaService struct {
	db *sql.DB
}

// NewIdeaService creates a new IdeaService
func NewIdeaService(db *sql.DB) *IdeaService {
	return &IdeaService{db: db}
}

// CreateIdeaParams holds the fields for a new idea.
type CreateIdeaParams struct {
	Name            string
	Description     string
	ProblemCategory string
	Solution        string
	Visibility      bool
}

// CreateIdea inserts the idea and bootstraps the creator as an owner holding
// 100% equity. Both rows are written in one transaction so an idea can never
// exist without its initial membership.
func (s *IdeaService) CreateIdea(ctx context.Context, creatorID string, p CreateIdeaParams) (*models.Idea, error) {
	if creatorID == "" {
		return nil, newError(ErrCodeUnauthorized, "you must be logged in to create an idea")
	}
	if p.Name == "" {
		return nil, newError(ErrCodeInvalidInput, "name is required")
	}

	ideaID := uuid.New().String()
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO ideas (id, creator_id, name, description, problem_category, solution, visibility, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		ideaID, creatorID, p.Name, p.Description, p.ProblemCategory, p.Solution, p.Visibility, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO idea_members (id, idea_id, user_id, role, equity_percentage, access_expires_at, created_at) VALUES (?, ?, ?, ?, ?, NULL, ?)",
		uuid.New().String(), ideaID, creatorID, models.RoleOwner, 100.0, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add creator as member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit idea: %w", err)
	}

	return s.GetIdeaByID(ctx, ideaID)
}

// GetIdeaByID retrieves an idea by ID
func (s *IdeaService) GetIdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, creator_id, name, description, problem_category, solution, visibility, created_at, updated_at FROM ideas WHERE id = ?",
		id,
	).Scan(&idea.ID, &idea.CreatorID, &idea.Name, &idea.Description, &idea.ProblemCategory, &idea.Solution, &idea.Visibility, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, newError(ErrCodeNotFound, "idea not found")
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	idea.CreatedAt = time.Unix(createdAt, 0)
	idea.UpdatedAt = time.Unix(updatedAt, 0)
	return &idea, nil
}

// ListIdeasByUser lists all ideas the user created or is a member of
func (s *IdeaService) ListIdeasByUser(ctx context.Context, userID string) ([]*models.Idea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT i.id, i.creator_id, i.name, i.description, i.problem_category, i.solution, i.visibility, i.created_at, i.updated_at
		 FROM ideas i
		 LEFT JOIN idea_members m ON i.id = m.idea_id
		 WHERE i.creator_id = ? OR m.user_id = ?
		 ORDER BY i.created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

// ListPublicIdeas lists ideas with public visibility
func (s *IdeaService) ListPublicIdeas(ctx context.Context) ([]*models.Idea, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, creator_id, name, description, problem_category, solution, visibility, created_at, updated_at FROM ideas WHERE visibility = 1 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list public ideas: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

func scanIdeas(rows *sql.Rows) ([]*models.Idea, error) {
	var ideas []*models.Idea
	for rows.Next() {
		var idea models.Idea
		var createdAt, updatedAt int64
		if err := rows.Scan(&idea.ID, &idea.CreatorID, &idea.Name, &idea.Description, &idea.ProblemCategory, &idea.Solution, &idea.Visibility, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		idea.CreatedAt = time.Unix(createdAt, 0)
		idea.UpdatedAt = time.Unix(updatedAt, 0)
		ideas = append(ideas, &idea)
	}
	return ideas, rows.Err()
}

// UpdateIdeaParams holds the mutable idea fields. Nil fields are left
// unchanged.
type UpdateIdeaParams struct {
	Name            *string
	Description     *string
	ProblemCategory *string
	Solution        *string
	Visibility      *bool
}

// UpdateIdea applies a partial update. Permission is checked by the caller.
func (s *IdeaService) UpdateIdea(ctx context.Context, id string, p UpdateIdeaParams) (*models.Idea, error) {
	idea, err := s.GetIdeaByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		if *p.Name == "" {
			return nil, newError(ErrCodeInvalidInput, "name is required")
		}
		idea.Name = *p.Name
	}
	if p.Description != nil {
		idea.Description = *p.Description
	}
	if p.ProblemCategory != nil {
		idea.ProblemCategory = *p.ProblemCategory
	}
	if p.Solution != nil {
		idea.Solution = *p.Solution
	}
	if p.Visibility != nil {
		idea.Visibility = *p.Visibility
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE ideas SET name = ?, description = ?, problem_category = ?, solution = ?, visibility = ?, updated_at = ? WHERE id = ?",
		idea.Name, idea.Description, idea.ProblemCategory, idea.Solution, idea.Visibility, time.Now().Unix(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}

	return s.GetIdeaByID(ctx, id)
}
