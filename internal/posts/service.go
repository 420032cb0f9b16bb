package posts

import (
	"context"
	"errors"
	"strings"
	"time"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	goerrors "github.com/goliatone/go-errors"
	"postviewer/internal/gql"
)

const (
	codeIDRequired   = "POST_ID_REQUIRED"
	codeFetchFailed  = "POST_FETCH_FAILED"
	codeDeleteFailed = "POST_DELETE_FAILED"
)

var (
	ErrIDRequired = errors.New("post id is required")
	ErrNotDeleted = errors.New("post was not deleted")
)

type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
}

type Service struct {
	client genqlientgraphql.Client
}

func NewService(client genqlientgraphql.Client) *Service {
	return &Service{client: client}
}

// GetPostByID returns nil without an error when the API resolves the post to null.
func (s *Service) GetPostByID(ctx context.Context, id string) (*Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, requiredID()
	}

	response, err := gql.PostByID(ctx, s.client, id)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryCommand, "fetch post "+id).
			WithTextCode(codeFetchFailed)
	}
	if response == nil || response.Post == nil {
		return nil, nil
	}

	doc := response.Post
	post := Post{
		ID:        strOr(&doc.Id, id),
		Title:     pickTitle(doc.Title, doc.Id),
		AuthorID:  doc.AuthorId,
		CreatedAt: parseTimestamp(doc.CreatedAt),
	}
	if doc.Content != nil {
		post.Content = *doc.Content
	}

	return &post, nil
}

func (s *Service) DeletePost(ctx context.Context, id string, authorID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return requiredID()
	}

	response, err := gql.DeletePost(ctx, s.client, id, authorID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "delete post "+id).
			WithTextCode(codeDeleteFailed)
	}
	if response == nil || response.DeletePost == nil || !*response.DeletePost {
		return goerrors.Wrap(ErrNotDeleted, goerrors.CategoryCommand, "delete post "+id).
			WithTextCode(codeDeleteFailed)
	}

	return nil
}

func requiredID() error {
	return goerrors.Wrap(ErrIDRequired, goerrors.CategoryValidation, "post id is required").
		WithTextCode(codeIDRequired)
}

func pickTitle(title *string, fallback string) string {
	if v := strOr(title, ""); v != "" {
		return v
	}
	return fallback
}

func parseTimestamp(raw *string) time.Time {
	value := strOr(raw, "")
	if value == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339Nano, value)
		if err != nil {
			parsed, err = time.Parse(time.DateOnly, value)
			if err != nil {
				return time.Time{}
			}
		}
	}

	return parsed
}

// FormatDate renders the creation date for display; zero times render empty.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if strings.TrimSpace(layout) == "" {
		layout = time.DateOnly
	}

	return t.Format(layout)
}

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return fallback
	}

	return trimmed
}
