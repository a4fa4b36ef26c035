package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/domain"
)

// IssueToken exchanges credentials for an access/refresh token pair.
func (c *Client) IssueToken(ctx context.Context, username, password string) (dto.TokenPair, error) {
	var pair dto.TokenPair
	err := c.do(ctx, http.MethodPost, "auth/token/", nil, dto.LoginRequest{Username: username, Password: password}, &pair)
	return pair, err
}

// CurrentUser fetches the authenticated profile.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "me/", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update and returns the
// authoritative server representation.
func (c *Client) UpdateProfile(ctx context.Context, patch dto.ProfilePatch) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPatch, "me/", nil, patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadAvatar sends the avatar file as multipart form data under the
// field name the backend expects and returns the updated user.
func (c *Client) UploadAvatar(ctx context.Context, upload dto.AvatarUpload) (*domain.User, error) {
	var user domain.User
	err := c.doMultipart(ctx, http.MethodPatch, "me/avatar/", "avatars",
		upload.FileName, upload.ContentType, upload.Data, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListMaterials fetches one page of the material library.
func (c *Client) ListMaterials(ctx context.Context, query dto.MaterialQuery) (dto.ListPage[domain.Material], error) {
	var page dto.ListPage[domain.Material]
	err := c.do(ctx, http.MethodGet, "materials/", query.Values(), nil, &page)
	return page, err
}

// ListDestinations fetches the destination filter options. The
// backend serves either a paginated envelope or a bare array here, so
// both shapes are accepted.
func (c *Client) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "destinations/", nil, nil, &raw); err != nil {
		return nil, err
	}
	var page dto.ListPage[domain.Destination]
	if err := json.Unmarshal(raw, &page); err == nil && page.Results != nil {
		return page.Results, nil
	}
	var plain []domain.Destination
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, fmt.Errorf("decode destinations: %w", err)
	}
	return plain, nil
}

// ListTickets fetches one page of support tickets.
func (c *Client) ListTickets(ctx context.Context, query dto.TicketQuery) (dto.ListPage[domain.SupportTicket], error) {
	var page dto.ListPage[domain.SupportTicket]
	err := c.do(ctx, http.MethodGet, "supportticket/", query.Values(), nil, &page)
	return page, err
}

// CreateTicket submits a new question.
func (c *Client) CreateTicket(ctx context.Context, req dto.CreateTicketRequest) (*domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	if err := c.do(ctx, http.MethodPost, "supportticket/", nil, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// AnswerTicket patches answer content onto a ticket. The server flips
// the ticket to answered and stamps the answering staff member; the
// returned representation is authoritative.
func (c *Client) AnswerTicket(ctx context.Context, id int64, answerContent string) (*domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	path := fmt.Sprintf("supportticket/%d/", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, dto.AnswerTicketRequest{AnswerContent: answerContent}, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// LarkStatus reports whether the SSO login path is enabled.
func (c *Client) LarkStatus(ctx context.Context) (dto.LarkStatusResponse, error) {
	var status dto.LarkStatusResponse
	err := c.do(ctx, http.MethodGet, "auth/lark/status/", nil, nil, &status)
	return status, err
}

// LarkStart fetches the identity-provider URL for the redirect flow.
func (c *Client) LarkStart(ctx context.Context) (dto.LarkStartResponse, error) {
	var start dto.LarkStartResponse
	err := c.do(ctx, http.MethodGet, "auth/lark/", nil, nil, &start)
	return start, err
}

// MaterialPDFURL returns the direct download URL for a material's
// PDF. Opened by the user's browser, not fetched through the JSON
// client.
func (c *Client) MaterialPDFURL(id int64) string {
	return fmt.Sprintf("%s/materials/%d/download-pdf/", c.baseURL, id)
}
