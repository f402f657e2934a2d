package storefront

import (
	stderrors "errors"
	"sync"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
)

// Level of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient message for the shopper
type Notice struct {
	Level   Level
	Message string
	Kind    errors.Kind
}

// Notifier shows notices to the shopper.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Recorder keeps every notice. Useful in tests and for batch output.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func errorNotice(err error) Notice {
	n := Notice{Level: LevelError, Message: err.Error(), Kind: errors.KindOf(err)}

	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		switch appErr.Kind {
		case errors.ErrNetwork:
			n.Message = "Something went wrong: " + appErr.Message + ". Please try again."
		case errors.ErrUnauthorized:
			n.Level = LevelInfo
		}
	}
	return n
}
