package messages

import (
	"time"

	"github.com/fragmede/commentdesk/internal/overlay"
	"github.com/fragmede/commentdesk/internal/repo"
)

// Data messages.
type (
	// BaselineLoadedMsg carries the result of fetch number Seq. Results whose
	// Seq is no longer current are dropped.
	BaselineLoadedMsg struct {
		Seq    int
		Result repo.Result
		Err    error
	}
)

// Editing messages.
type (
	EditCommitMsg struct {
		ID    int
		Field overlay.Field
		Value string
	}

	EditCancelMsg struct{}
)

// Feedback messages.
type (
	// NotifyMsg asks for a transient toast.
	NotifyMsg struct {
		Text     string
		Duration time.Duration
		IsError  bool
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
