package controller

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/domain"
	"github.com/trippal/admin-console/internal/session"
	"github.com/trippal/admin-console/pkg/util"
)

// Avatar upload constraints, enforced before any bytes hit the
// network.
const maxAvatarBytes = 2 << 20

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// MutationDependencies bundles collaborators for the mutator.
type MutationDependencies struct {
	API     *api.Client
	Session *session.Store
	Tickets *ListController[domain.SupportTicket]
	Logger  *zap.Logger
}

// Mutator performs single-entity creates and updates and reconciles
// the list and session state with the authoritative server response,
// avoiding full re-fetches where the sort position cannot change.
type Mutator struct {
	api     *api.Client
	session *session.Store
	tickets *ListController[domain.SupportTicket]
	logger  *zap.Logger
}

// NewMutator constructs the mutation controller.
func NewMutator(deps MutationDependencies) *Mutator {
	return &Mutator{
		api:     deps.API,
		session: deps.Session,
		tickets: deps.Tickets,
		logger:  deps.Logger,
	}
}

// AnswerTicket patches answer content onto a ticket and, on success,
// replaces the matching list entry with the full server-returned
// representation. The client never merges its own patch fields
// locally, so optimistic and authoritative state cannot drift. On
// failure the list is untouched and the caller keeps the draft.
func (m *Mutator) AnswerTicket(ctx context.Context, id int64, answerContent string) (*domain.SupportTicket, error) {
	content := strings.TrimSpace(answerContent)
	if content == "" {
		return nil, util.NewValidationError("answer content must not be empty")
	}

	updated, err := m.api.AnswerTicket(ctx, id, content)
	if err != nil {
		return nil, util.ToClientError(err)
	}

	if m.tickets != nil {
		m.tickets.Replace(func(t domain.SupportTicket) bool { return t.ID == updated.ID }, *updated)
	}
	m.logger.Info("ticket answered", zap.Int64("ticket_id", updated.ID))
	return updated, nil
}

// CreateTicket submits a new question. On success the ticket list is
// re-fetched from page 1 under the current filters: the new item's
// sort position relative to the filtered, paginated results is
// server-determined, so no local insertion is attempted. On failure
// nothing changes and the caller keeps the form input.
func (m *Mutator) CreateTicket(ctx context.Context, category domain.TicketCategory, questionText string) error {
	text := strings.TrimSpace(questionText)
	if text == "" {
		return util.NewValidationError("question text must not be empty")
	}

	_, err := m.api.CreateTicket(ctx, dto.CreateTicketRequest{
		Category:     string(category),
		QuestionText: text,
	})
	if err != nil {
		return util.ToClientError(err)
	}

	m.logger.Info("ticket created", zap.String("category", string(category)))
	if m.tickets != nil {
		if err := m.tickets.Reload(ctx); err != nil {
			m.logger.Warn("post-create reload failed", zap.Error(err))
		}
	}
	return nil
}

// UpdateProfile applies a partial profile edit. The server response
// replaces the session user wholesale. A 401 here clears the stored
// access token so the UI can route back to login after its short
// delay.
func (m *Mutator) UpdateProfile(ctx context.Context, patch dto.ProfilePatch) (*domain.User, error) {
	if patch.Email != nil && !validEmail(*patch.Email) {
		return nil, util.NewValidationError("email address is not valid")
	}

	gen := m.session.Generation()
	user, err := m.api.UpdateProfile(ctx, patch)
	if err != nil {
		clientErr := util.ToClientError(err)
		if clientErr.Kind == util.KindAuth {
			m.session.ClearAccessToken()
		}
		return nil, clientErr
	}

	if !m.session.CommitUser(gen, user) {
		m.logger.Debug("profile update discarded, session changed while in flight")
	}
	return user, nil
}

// UploadAvatar validates the file locally, then uploads it. A
// disallowed MIME type or an oversized file is rejected with a
// validation error before any network round-trip. On success the
// avatar reference in the session is replaced with the
// server-returned value.
func (m *Mutator) UploadAvatar(ctx context.Context, upload dto.AvatarUpload) (*domain.User, error) {
	if !allowedAvatarTypes[upload.ContentType] {
		return nil, util.NewValidationError("only JPEG, PNG and GIF images are supported")
	}
	if len(upload.Data) > maxAvatarBytes {
		return nil, util.NewValidationError(fmt.Sprintf("avatar must not exceed %d MB", maxAvatarBytes>>20))
	}

	gen := m.session.Generation()
	user, err := m.api.UploadAvatar(ctx, upload)
	if err != nil {
		return nil, util.ToClientError(err)
	}

	if !m.session.CommitUser(gen, user) {
		m.logger.Debug("avatar update discarded, session changed while in flight")
	}
	m.logger.Info("avatar uploaded", zap.String("file", upload.FileName))
	return user, nil
}

// validEmail applies the same minimal shape check the form performs:
// one @ with characters on both sides and a dot in the domain.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
