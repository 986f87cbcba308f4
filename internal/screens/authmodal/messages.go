package authmodal

import (
	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/auth"
)

// submitResultMsg carries the outcome of one submission. flow identifies
// the modal instance that started it.
type submitResultMsg struct {
	flow *auth.Flow
	User *api.User
	Err  error
}
