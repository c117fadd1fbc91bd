package util

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

var errTestShowme = NewError("showme")

type testError struct {
	suite.Suite
}

func (t *testError) TestIs() {
	err := errTestShowme.Call()

	t.ErrorIs(err, errTestShowme)

	other := NewError("showme")
	t.False(errors.Is(err, other), "same message, different call site")
}

func (t *testError) TestErrorf() {
	err := errTestShowme.Errorf("findme, %d", 33)

	t.ErrorIs(err, errTestShowme)
	t.Equal("showme - findme, 33", err.Error())
}

func (t *testError) TestWrap() {
	inner := errors.Errorf("findme")
	err := errTestShowme.Wrap(inner)

	t.ErrorIs(err, errTestShowme)
	t.ErrorIs(err, inner)
	t.Equal("showme; findme", err.Error())
}

func (t *testError) TestWrapf() {
	inner := errors.Errorf("findme")
	err := errTestShowme.Wrapf(inner, "eatme, %q", "killme")

	t.ErrorIs(err, errTestShowme)
	t.ErrorIs(err, inner)
}

func (t *testError) TestFormat() {
	err := errTestShowme.Errorf("findme")

	t.Equal("showme - findme", fmt.Sprintf("%s", err))
	t.Equal(`"showme - findme"`, fmt.Sprintf("%q", err))
	t.Contains(fmt.Sprintf("%+v", err), "showme - findme")
}

func (t *testError) TestStackTrace() {
	err := errTestShowme.Call()
	t.NotNil(err.StackTrace())
}

func TestError(t *testing.T) {
	suite.Run(t, new(testError))
}
