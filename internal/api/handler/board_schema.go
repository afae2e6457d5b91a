package handler

import (
	"time"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// --- Request types ---

type boardItemRequest struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// saveBoardRequest is the create payload. The 21-item invariant is asserted
// here at the validation boundary, not only by editor construction.
type saveBoardRequest struct {
	Title                string             `json:"title"                  validate:"required"`
	Items                []boardItemRequest `json:"items"                  validate:"len=21,dive"`
	StyleBackgroundColor string             `json:"style_background_color" validate:"omitempty,hexcolor"`
	StyleTextColor       string             `json:"style_text_color"       validate:"omitempty,hexcolor"`
	BackgroundImageURL   string             `json:"background_image_url"   validate:"omitempty,url"`
}

// updateBoardRequest is the partial update payload: absent fields are left
// untouched.
type updateBoardRequest struct {
	Title                *string             `json:"title"                  validate:"omitempty,min=1"`
	Items                *[]boardItemRequest `json:"items"                  validate:"omitempty,len=21,dive"`
	StyleBackgroundColor *string             `json:"style_background_color" validate:"omitempty,hexcolor"`
	StyleTextColor       *string             `json:"style_text_color"       validate:"omitempty,hexcolor"`
	BackgroundImageURL   *string             `json:"background_image_url"   validate:"omitempty,url"`
}

// --- Response types ---
// Response-only types owned by the transport layer, intentionally separate
// from domain types so the JSON contract is not coupled to internal changes.

type boardItemResponse struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	ImageURL string `json:"image_url,omitempty"`
}

type ownerResponse struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

type boardResponse struct {
	ID                   string              `json:"id"`
	Title                string              `json:"title"`
	Items                []boardItemResponse `json:"items"`
	StyleBackgroundColor string              `json:"style_background_color"`
	StyleTextColor       string              `json:"style_text_color"`
	BackgroundImageURL   string              `json:"background_image_url,omitempty"`
	UserID               string              `json:"user_id"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// boardDetailResponse is the public detail view. Owner is null when the
// profile could not be resolved; consumers tolerate the partial view.
type boardDetailResponse struct {
	boardResponse
	Owner *ownerResponse `json:"owner"`
}

type shareResponse struct {
	URL       string `json:"url"`
	Text      string `json:"text"`
	IntentURL string `json:"intent_url"`
	ImageURL  string `json:"image_url"`
}

// --- Mapping helpers ---

func toItems(reqs []boardItemRequest) []domain.BoardItem {
	items := make([]domain.BoardItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.BoardItem{Label: r.Label, Value: r.Value, ImageURL: r.ImageURL}
	}
	return items
}

func toBoardResponse(b *domain.Board) boardResponse {
	items := make([]boardItemResponse, len(b.Items))
	for i, it := range b.Items {
		items[i] = boardItemResponse{Label: it.Label, Value: it.Value, ImageURL: it.ImageURL}
	}
	return boardResponse{
		ID:                   b.ID,
		Title:                b.Title,
		Items:                items,
		StyleBackgroundColor: b.StyleBackgroundColor,
		StyleTextColor:       b.StyleTextColor,
		BackgroundImageURL:   b.BackgroundImageURL,
		UserID:               b.UserID,
		CreatedAt:            b.CreatedAt.UTC(),
		UpdatedAt:            b.UpdatedAt.UTC(),
	}
}

func toOwnerResponse(u *domain.User) *ownerResponse {
	if u == nil {
		return nil
	}
	return &ownerResponse{
		ID:              u.ID,
		DisplayName:     u.DisplayName,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}
}

func toBoardDetailResponse(d *ports.BoardDetail) boardDetailResponse {
	return boardDetailResponse{
		boardResponse: toBoardResponse(d.Board),
		Owner:         toOwnerResponse(d.Owner),
	}
}

func toBoardListResponse(boards []*domain.Board) []boardResponse {
	out := make([]boardResponse, len(boards))
	for i, b := range boards {
		out[i] = toBoardResponse(b)
	}
	return out
}
