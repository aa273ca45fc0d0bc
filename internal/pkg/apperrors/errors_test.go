package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrConfigLoad, "не удалось прочитать файл", nil)
	assert.Equal(t, "CONFIG.LOAD_FAILED: не удалось прочитать файл", err.Error())

	cause := errors.New("permission denied")
	err = NewAppError(ErrConfigLoad, "не удалось прочитать файл", cause)
	assert.Equal(t, "CONFIG.LOAD_FAILED: не удалось прочитать файл (permission denied)", err.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewAppError(ErrStorageWrite, "запись не удалась", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIs_NestedCodes(t *testing.T) {
	inner := NewAppError(ErrConnectionProbe, "probe", errors.New("timeout"))
	outer := NewAppError(ErrUnresolvedDependency, "провайдер", inner)
	wrapped := fmt.Errorf("старт: %w", outer)

	assert.True(t, Is(wrapped, ErrUnresolvedDependency))
	assert.True(t, Is(wrapped, ErrConnectionProbe))
	assert.False(t, Is(wrapped, ErrStorageRead))
	assert.False(t, Is(errors.New("plain"), ErrStorageRead))
	assert.False(t, Is(nil, ErrStorageRead))
}

func TestCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewAppError(ErrMessageEmpty, "пусто", nil))
	assert.Equal(t, ErrMessageEmpty, Code(err))
	assert.Equal(t, "", Code(errors.New("plain")))
}
