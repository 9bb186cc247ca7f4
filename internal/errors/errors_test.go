package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"stataid/domain/core"
)

func TestGetCodeFromSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"column not found", core.NewColumnNotFoundError("age"), CodeMalformedInput},
		{"empty dataset", core.ErrEmptyDataset, CodeMalformedInput},
		{"engine", core.NewTestUnavailableError("levene", nil), CodeTestUnavailable},
		{"app error", NotFound("dataset"), CodeNotFound},
		{"plain", stderrors.New("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
		})
	}
}

func TestWrapKeepsCodeAndChain(t *testing.T) {
	err := Wrap(core.ErrEmptyDataset, "validate request")
	assert.Equal(t, CodeMalformedInput, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrMalformedInput))
	assert.Contains(t, err.Error(), "validate request")

	assert.Nil(t, Wrap(nil, "noop"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(core.ErrEmptyDataset))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad json")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("answers")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(DatabaseError("insert", stderrors.New("locked"))))
}
