package errs

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "gone")))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("outer: %w", New(KindValidation, "bad"))))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("untyped")))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindStorageClient, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindStorageServer, http.StatusBadGateway},
		{KindDelivery, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(New(tc.kind, "x")))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("untyped")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(KindDelivery, cause, "send failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "send failed")
	assert.Contains(t, err.Error(), "refused")
}
