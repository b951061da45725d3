package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"lapor-warga/internal/domain"
)

func TestErrorKinds(t *testing.T) {
	err := domain.NewForbiddenError("tidak boleh")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
	assert.False(t, domain.IsKind(err, domain.KindNotFound))
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := domain.NewDependencyError("upload failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "upload failed")
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, domain.IsKind(wrapped, domain.KindDependency))
	assert.Equal(t, domain.KindDependency, domain.KindOf(wrapped))
}

func TestKindOfUntyped(t *testing.T) {
	assert.Equal(t, domain.KindInternal, domain.KindOf(errors.New("boom")))
}
