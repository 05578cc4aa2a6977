package hds

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Session drives one engine. It owns the scope stack and every Locator and
// MappedRegion handed out. A Session is not safe for concurrent use.
type Session struct {
	engine types.Engine
	scopes []*scope
	// base owns objects created while no scope is open. They are released
	// by Close.
	base *scope
}

// NewSession returns a session on engine with no scope open.
func NewSession(engine types.Engine) *Session {
	return &Session{engine: engine, base: &scope{}}
}

// Engine returns the engine the session drives.
func (s *Session) Engine() types.Engine {
	return s.engine
}

// Open opens or creates a container and returns a Locator on its root.
// mode is READ, UPDATE or WRITE; disp is OLD, NEW or UNKNOWN.
func (s *Session) Open(path string, mode types.AccessMode, disp types.Disposition) (*Locator, error) {
	const op = "Open"
	if !mode.Valid() {
		return nil, types.E(op, types.KindInvalidArgument, "access mode must be READ, UPDATE or WRITE, got "+string(mode))
	}
	if !disp.Valid() {
		return nil, types.E(op, types.KindInvalidArgument, "disposition must be OLD, NEW or UNKNOWN, got "+string(disp))
	}
	var raw types.RawHandle
	err := s.call(op, func() (err error) {
		raw, err = s.engine.Open(path, mode, disp)
		return err
	})
	if err != nil {
		return nil, err
	}
	Logger().Debug("container opened", zap.String("path", path), zap.String("mode", string(mode)))
	return s.Wrap(raw), nil
}

// Wrap takes ownership of a raw engine handle. The Locator is registered
// with the innermost open scope.
func (s *Session) Wrap(raw types.RawHandle) *Locator {
	sc := s.innermost()
	l := &Locator{s: s, raw: raw, valid: true, scope: sc}
	sc.locators = append(sc.locators, l)
	return l
}

func (s *Session) innermost() *scope {
	if len(s.scopes) == 0 {
		return s.base
	}
	return s.scopes[len(s.scopes)-1]
}

// Close ends every open scope, releases objects created outside any scope
// and closes the engine.
func (s *Session) Close() error {
	var errs []error
	for len(s.scopes) > 0 {
		if err := s.End(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.base.release(); err != nil {
		errs = append(errs, err)
	}
	s.base = &scope{}
	if err := s.engine.Close(); err != nil {
		errs = append(errs, types.Wrap("Close", types.KindStore, err))
	}
	return errors.Join(errs...)
}
