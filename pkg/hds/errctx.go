package hds

import (
	"errors"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// statusKinds maps engine status codes onto bridge error kinds. Anything
// not listed is a store error.
var statusKinds = map[types.Status]types.Kind{
	types.StatusFileNotFound:   types.KindIO,
	types.StatusObjectNotFound: types.KindNotFound,
	types.StatusSubscript:      types.KindRange,
	types.StatusBadLocator:     types.KindInvalidHandle,
}

func kindOf(st types.Status) types.Kind {
	if k, ok := statusKinds[st]; ok {
		return k
	}
	return types.KindStore
}

// call runs fn, which talks to the engine, inside a fresh error context.
// The context is opened before fn runs and always drained afterwards, even
// when fn panics, so no engine frame outlives the call. A failure comes
// back as one *types.Error whose detail is every drained message, oldest
// first.
func (s *Session) call(op string, fn func() error) (err error) {
	stack := s.engine.Errors()
	stack.Begin()
	defer func() {
		err = s.flush(op, stack, err)
	}()
	return fn()
}

// flush drains the current error context and folds it, together with the
// error fn returned, into a single categorized error.
func (s *Session) flush(op string, stack types.ErrorStack, callErr error) error {
	status := stack.Pending()
	var msgs []string
	for {
		f, ok := stack.Load()
		if !ok {
			break
		}
		if f.Message != "" {
			msgs = append(msgs, f.Message)
		}
	}
	stack.End()

	if status == types.StatusOK && callErr == nil {
		return nil
	}
	var be *types.Error
	if status == types.StatusOK && errors.As(callErr, &be) {
		return callErr
	}
	if status == types.StatusOK {
		var st types.Status
		if errors.As(callErr, &st) {
			status = st
		} else {
			status = types.StatusError
		}
	}
	if callErr == nil {
		callErr = status
	}
	if len(msgs) == 0 {
		msgs = append(msgs, callErr.Error())
	}
	return &types.Error{
		Op:     op,
		Kind:   kindOf(status),
		Detail: strings.Join(msgs, "\n"),
		Err:    callErr,
	}
}
