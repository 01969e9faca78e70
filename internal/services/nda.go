package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cookideas/server/internal/models"
)

// GateState is the NDA gate state for one (idea, user) pair.
type GateState string

const (
	// GateNotApplicable means the user is not a contractor on the idea; the
	// gate never applies.
	GateNotApplicable GateState = "not_applicable"

	// GatePending means the user is a contractor with no acceptance on
	// record; idea content must not be served.
	GatePending GateState = "pending_acceptance"

	// GateAccepted means an acceptance row exists. Terminal; there is no
	// revocation.
	GateAccepted GateState = "accepted"
)

// defaultNDATemplate is presented when an idea has no custom NDA text. The
// idea's name is interpolated into the %q slot.
const defaultNDATemplate = `NON-DISCLOSURE AGREEMENT

This Non-Disclosure Agreement ("Agreement") is entered into between the idea owner and the contractor accessing confidential information related to %q.

1. CONFIDENTIAL INFORMATION
All information, documents, data, and materials related to this idea, including but not limited to business plans, financial information, technical specifications, and strategic plans.

2. OBLIGATIONS
The contractor agrees to:
- Keep all confidential information strictly confidential
- Not disclose any information to third parties
- Use information solely for the purpose of this engagement
- Return or destroy all confidential materials upon request

3. TERM
This agreement remains in effect indefinitely unless terminated by mutual consent.

4. REMEDIES
Breach of this agreement may result in immediate termination and legal action.

By accepting this NDA, you acknowledge that you have read, understood, and agree to be bound by its terms.`

// NDAService implements the per-(idea, user) NDA acceptance state machine
// that gates contractor access to idea content.
type NDAService struct {
	db          *sql.DB
	memberships *MembershipService
}

// NewNDAService creates a new NDAService
func NewNDAService(db *sql.DB, memberships *MembershipService) *NDAService {
	return &NDAService{db: db, memberships: memberships}
}

// State resolves the gate state for (idea, user). Only contractors are
// gated; the creator, equity holders, financiers, and viewers bypass it.
func (s *NDAService) State(ctx context.Context, ideaID, userID string) (GateState, error) {
	m, err := s.memberships.GetMembership(ctx, ideaID, userID)
	if err != nil {
		return "", err
	}
	if m == nil || m.Role != models.RoleContractor {
		return GateNotApplicable, nil
	}

	accepted, err := s.HasAccepted(ctx, ideaID, userID)
	if err != nil {
		return "", err
	}
	if accepted {
		return GateAccepted, nil
	}
	return GatePending, nil
}

// HasAccepted reports whether an acceptance row exists for (idea, user).
// Existence is the sole signal; duplicate rows are harmless.
func (s *NDAService) HasAccepted(ctx context.Context, ideaID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM nda_acceptances WHERE idea_id = ? AND user_id = ?",
		ideaID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check NDA acceptance: %w", err)
	}
	return n > 0, nil
}

// Accept records the user's agreement to the idea's NDA. Append-only.
func (s *NDAService) Accept(ctx context.Context, ideaID, userID string) error {
	if userID == "" {
		return newError(ErrCodeUnauthorized, "you must be logged in to accept an NDA")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO nda_acceptances (id, idea_id, user_id, accepted_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), ideaID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to accept NDA: %w", err)
	}
	return nil
}

// GetNDA returns the idea's custom NDA record, or nil when none exists.
func (s *NDAService) GetNDA(ctx context.Context, ideaID string) (*models.NDA, error) {
	var nda models.NDA
	var updatedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, idea_id, content, updated_at FROM idea_ndas WHERE idea_id = ?",
		ideaID,
	).Scan(&nda.ID, &nda.IdeaID, &nda.Content, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get NDA: %w", err)
	}
	nda.UpdatedAt = time.Unix(updatedAt, 0)
	return &nda, nil
}

// Content returns the NDA text to present for the idea: the custom record
// when one exists, otherwise the default template with the idea's name
// interpolated. The second result reports whether the text is custom.
func (s *NDAService) Content(ctx context.Context, idea *models.Idea) (string, bool, error) {
	nda, err := s.GetNDA(ctx, idea.ID)
	if err != nil {
		return "", false, err
	}
	if nda != nil {
		return nda.Content, true, nil
	}
	return fmt.Sprintf(defaultNDATemplate, idea.Name), false, nil
}

// Update upserts the idea's custom NDA text. Requires edit permission.
func (s *NDAService) Update(ctx context.Context, actorID, ideaID, content string) (*models.NDA, error) {
	if actorID == "" {
		return nil, newError(ErrCodeUnauthorized, "you must be logged in to edit an NDA")
	}
	canEdit, err := s.memberships.CanEdit(ctx, ideaID, actorID)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, newError(ErrCodeInsufficientPermission, "you do not have permission to edit this NDA")
	}
	if content == "" {
		return nil, newError(ErrCodeInvalidInput, "content is required")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO idea_ndas (id, idea_id, content, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (idea_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		uuid.New().String(), ideaID, content, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update NDA: %w", err)
	}
	return s.GetNDA(ctx, ideaID)
}
