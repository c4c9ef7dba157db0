package deliver

// Callback receives the outcome of one submission or extraction.
// Exactly one method is called per operation.
type Callback interface {
	OnSuccess(resp *Response)

	// OnError reports expected failures: transport errors, rejections,
	// missing configuration, cancellation.
	OnError(err error)

	// OnException reports unexpected failures such as parse errors.
	OnException(err error)
}

// CallbackFuncs adapts functions to the Callback interface. Nil fields are
// ignored.
type CallbackFuncs struct {
	Success   func(resp *Response)
	Error     func(err error)
	Exception func(err error)
}

func (f CallbackFuncs) OnSuccess(resp *Response) {
	if f.Success != nil {
		f.Success(resp)
	}
}

func (f CallbackFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

func (f CallbackFuncs) OnException(err error) {
	if f.Exception != nil {
		f.Exception(err)
	}
}

// IsException reports whether err is routed to OnException.
func IsException(err error) bool {
	switch ErrorCode(err) {
	case ETRANSPORT, EREJECTED, ECONFIG, ECANCELED, ENOMATCH, EINVALID, ENOTFOUND:
		return false
	}
	return true
}

// Notify delivers the outcome to cb. A nil error reports resp as success.
func Notify(cb Callback, resp *Response, err error) {
	if cb == nil {
		return
	}
	switch {
	case err == nil:
		cb.OnSuccess(resp)
	case IsException(err):
		cb.OnException(err)
	default:
		cb.OnError(err)
	}
}
