package chainq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Success(t *testing.T) {
	r := Success(42)

	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsFailure())
	assert.Equal(t, 42, r.Value())
	assert.NoError(t, r.Err())
}

func TestResult_Fail(t *testing.T) {
	boom := errors.New("boom")
	r := Fail[int](boom)

	assert.True(t, r.IsFailure())
	assert.False(t, r.IsSuccess())
	assert.Equal(t, boom, r.Err())
	assert.Zero(t, r.Value())
}

func TestResult_Unwrap(t *testing.T) {
	v, err := Success("x").Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	_, err = Fail[string](errors.New("boom")).Unwrap()
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	assert.True(t, Discard(Success(1)).IsSuccess())

	boom := errors.New("boom")
	d := Discard(Fail[int](boom))
	assert.True(t, d.IsFailure())
	assert.Equal(t, boom, d.Err())
}

func TestOptional(t *testing.T) {
	some := Some(7)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.True(t, some.IsPresent())
	assert.Equal(t, 7, some.OrElse(0))

	none := None[int]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.False(t, none.IsPresent())
	assert.Equal(t, 9, none.OrElse(9))
}

func TestPaged_Pages(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		size  int
		want  int64
	}{
		{"exact multiple", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero size", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paged[int]{Total: tt.total, Size: tt.size}
			assert.Equal(t, tt.want, p.Pages())
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsConflict(NewError(KindConflict, "dup")))
	assert.True(t, IsReference(NewError(KindReference, "fk")))
	assert.True(t, IsNotFound(NotFoundError("missing", 5)))
	assert.True(t, IsValidation(NewError(KindValidation, "bad")))
	assert.True(t, IsCanceled(NewError(KindCanceled, "ctx")))
	assert.False(t, IsConflict(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestError_WrapPreservesCause(t *testing.T) {
	cause := errors.New("driver says no")
	err := WrapError(KindConflict, "record already exists", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "conflict")
	assert.Contains(t, err.Error(), "driver says no")
}

func TestNotFoundError_CarriesKey(t *testing.T) {
	err := NotFoundError("record not found", "user-17")
	assert.Contains(t, err.Error(), "user-17")
	assert.Equal(t, "user-17", err.Key)
}
