package dev

import (
	"github.com/nu7hatch/gouuid"
	"time"
)

// Error is a loggable report of a failure that did not abort the caller, such
// as one element of a batch.
type Error struct {
	ID        string                 `json:"id"`
	Time      time.Time              `json:"time"`
	Component string                 `json:"component"`
	Name      string                 `json:"name"`
	Error     string                 `json:"error"`
	Extra     map[string]interface{} `json:"extra"`
}

func (e Error) Slug() string {
	return e.ID
}

func NewError(component, name string, err error, extra map[string]interface{}) Error {
	id := ""
	if u, uErr := uuid.NewV4(); uErr == nil {
		id = u.String()
	}

	return Error{
		ID:        id,
		Time:      time.Now(),
		Component: component,
		Name:      name,
		Error:     err.Error(),
		Extra:     extra,
	}
}
