package hds

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// ErrNoScope is returned by End when no scope is open.
var ErrNoScope = types.E("End", types.KindInvalidOperation, "no open scope")

// scope owns the locators and regions created while it was innermost, in
// creation order.
type scope struct {
	locators []*Locator
	regions  []*MappedRegion
}

// Begin opens a new scope. Locators and regions created until the matching
// End belong to it.
func (s *Session) Begin() {
	s.scopes = append(s.scopes, &scope{})
	Logger().Debug("scope begin", zap.Int("depth", len(s.scopes)))
}

// Depth returns the number of open scopes.
func (s *Session) Depth() int {
	return len(s.scopes)
}

// End closes the innermost scope. Every region it owns is unmapped and then
// every locator it owns is annulled, newest first; objects the caller has
// already released are skipped. Everything is released even if some
// releases fail; the failures are joined into the returned error.
func (s *Session) End() error {
	if len(s.scopes) == 0 {
		return ErrNoScope
	}
	sc := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	Logger().Debug("scope end",
		zap.Int("depth", len(s.scopes)+1),
		zap.Int("locators", len(sc.locators)),
		zap.Int("regions", len(sc.regions)))
	return sc.release()
}

func (sc *scope) release() error {
	var errs []error
	for i := len(sc.regions) - 1; i >= 0; i-- {
		r := sc.regions[i]
		if !r.mapped {
			continue
		}
		if err := r.release(); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(sc.locators) - 1; i >= 0; i-- {
		l := sc.locators[i]
		if !l.valid {
			continue
		}
		if err := l.release(); err != nil {
			errs = append(errs, err)
		}
	}
	sc.regions = nil
	sc.locators = nil
	return errors.Join(errs...)
}
