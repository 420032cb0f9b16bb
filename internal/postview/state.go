package postview

import "postviewer/internal/posts"

const (
	MessageLoadFailed   = "Erro ao carregar post"
	MessageDeleteFailed = "Erro ao excluir post"
	MessageNotFound     = "Post não encontrado"
	MessageLoading      = "Carregando post..."
	ConfirmDeletePrompt = "Tem certeza que deseja excluir este post?"
)

// State is one of Loading, Failed, NotFound or Loaded.
type State interface {
	isState()
}

type Loading struct{}

type Failed struct {
	Message string
	// RetryURL is reloaded as a full page; retrying never re-fetches in place.
	RetryURL string
}

type NotFound struct {
	BackURL string
}

type Confirmation int

const (
	ConfirmIdle Confirmation = iota
	ConfirmArmed
)

type Loaded struct {
	Post    posts.Post
	Confirm Confirmation
}

func (Loading) isState()  {}
func (Failed) isState()   {}
func (NotFound) isState() {}
func (Loaded) isState()   {}

func (l Loaded) Armed() bool {
	return l.Confirm == ConfirmArmed
}

// Result is the outcome of an activation or delete. A non-empty Redirect means
// the page navigates away and State is no longer shown.
type Result struct {
	State    State
	Redirect string
}

func (r Result) Navigates() bool {
	return r.Redirect != ""
}
