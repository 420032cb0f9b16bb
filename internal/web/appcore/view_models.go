package appcore

import (
	"net/url"
	"strings"

	"postviewer/internal/markdown"
	"postviewer/internal/posts"
	"postviewer/internal/postview"
)

const (
	siteName         = "blog"
	defaultPageTitle = "Post"
	descriptionChars = 160
	confirmQueryKey  = "confirm"
	confirmQueryVal  = "delete"
)

// PostSignalState mirrors the Datastar signals kept on the detail region.
type PostSignalState struct {
	Confirm string `json:"confirm"`
}

const confirmArmedSignal = "armed"

func (s PostSignalState) Armed() bool {
	return strings.TrimSpace(s.Confirm) == confirmArmedSignal
}

type PostPageView struct {
	PageTitle   string
	Description string

	PostID    string
	State     postview.State
	CSRFToken string

	DetailURL string
	LiveURL   string
	DeleteURL string
	EditURL   string
	BackURL   string

	DateLayout string
	Markdown   markdown.Options
}

func newPostPageView(page *postview.Page, settings Settings, csrfToken string) PostPageView {
	detailURL := page.ReloadURL()
	view := PostPageView{
		PageTitle:  defaultPageTitle,
		PostID:     page.ID(),
		State:      page.State(),
		CSRFToken:  csrfToken,
		DetailURL:  detailURL,
		LiveURL:    detailURL + "/live",
		DeleteURL:  detailURL + "/delete",
		EditURL:    page.EditURL(),
		BackURL:    page.BackURL(),
		DateLayout: settings.DateLayout,
		Markdown:   settings.Markdown,
	}

	if loaded, ok := view.State.(postview.Loaded); ok {
		if title := strings.TrimSpace(loaded.Post.Title); title != "" {
			view.PageTitle = title
		}
		view.Description = markdown.Excerpt(loaded.Post.Content, descriptionChars)
	}

	return view
}

func (v PostPageView) LayoutTitle() string {
	title := strings.TrimSpace(v.PageTitle)
	if title == "" {
		title = defaultPageTitle
	}
	return title + " :: " + siteName
}

func (v PostPageView) Signals() PostSignalState {
	if loaded, ok := v.State.(postview.Loaded); ok && loaded.Armed() {
		return PostSignalState{Confirm: confirmArmedSignal}
	}
	return PostSignalState{}
}

func (v PostPageView) CreatedAtText(post posts.Post) string {
	return posts.FormatDate(post.CreatedAt, v.DateLayout)
}

// ArmedURL renders the confirmation on a full page load, for clients without scripts.
func (v PostPageView) ArmedURL() string {
	q := make(url.Values)
	q.Set(confirmQueryKey, confirmQueryVal)
	return v.DetailURL + "?" + q.Encode()
}

func confirmRequested(query url.Values) bool {
	return strings.TrimSpace(query.Get(confirmQueryKey)) == confirmQueryVal
}
