package timer

import "github.com/ekisu/timerkit/util"

var (
	ErrInvalidParameter = util.NewError("invalid parameter")
	ErrTimerStopped     = util.NewError("operation on stopped timer")
	ErrCallbackFailed   = util.NewError("callback failed")
)
