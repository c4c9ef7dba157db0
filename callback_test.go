package deliver_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/deliver"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	success   []*deliver.Response
	errs      []error
	exception []error
}

func (r *recorder) callback() deliver.CallbackFuncs {
	return deliver.CallbackFuncs{
		Success:   func(resp *deliver.Response) { r.success = append(r.success, resp) },
		Error:     func(err error) { r.errs = append(r.errs, err) },
		Exception: func(err error) { r.exception = append(r.exception, err) },
	}
}

func (r *recorder) calls() int {
	return len(r.success) + len(r.errs) + len(r.exception)
}

func TestNotify(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}
		resp := &deliver.Response{Destination: "tumblr", StatusCode: 201}

		deliver.Notify(r.callback(), resp, nil)

		assert.Equal(t, 1, r.calls())
		assert.Equal(t, []*deliver.Response{resp}, r.success)
	})

	for _, code := range []string{deliver.ETRANSPORT, deliver.EREJECTED, deliver.ECONFIG, deliver.ECANCELED, deliver.ENOMATCH} {
		t.Run("error "+code, func(t *testing.T) {
			t.Parallel()

			r := &recorder{}

			deliver.Notify(r.callback(), nil, deliver.Errorf(code, "failed"))

			assert.Equal(t, 1, r.calls())
			assert.Len(t, r.errs, 1)
		})
	}

	t.Run("parse failure is an exception", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}

		deliver.Notify(r.callback(), nil, deliver.Errorf(deliver.EPARSE, "tokens missing"))

		assert.Equal(t, 1, r.calls())
		assert.Len(t, r.exception, 1)
	})

	t.Run("uncoded error is an exception", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}

		deliver.Notify(r.callback(), nil, errors.New("panic"))

		assert.Len(t, r.exception, 1)
	})

	t.Run("nil callback", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() { deliver.Notify(nil, nil, errors.New("x")) })
	})
}
