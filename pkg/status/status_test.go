package status_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/status"
	"github.com/dmitrymomot/authzkit/pkg/validate"
)

func TestStatus_Accumulation(t *testing.T) {
	t.Run("new status is valid", func(t *testing.T) {
		st := status.New()
		assert.True(t, st.IsValid())
		assert.False(t, st.HasErrors())
		assert.NoError(t, st.Err())
		assert.Equal(t, status.DefaultSuccessMessage, st.Message())
	})

	t.Run("errors accumulate in order", func(t *testing.T) {
		first := errors.New("first problem")
		second := errors.New("second problem")

		st := status.New().AddError(first).AddError(second)
		require.True(t, st.HasErrors())
		require.Len(t, st.Errors(), 2)
		assert.Equal(t, first, st.Errors()[0])
		assert.Equal(t, second, st.Errors()[1])
		assert.ErrorIs(t, st.Err(), first)
		assert.ErrorIs(t, st.Err(), second)
		assert.Contains(t, st.Message(), "failed with 2 errors")
	})

	t.Run("nil errors ignored", func(t *testing.T) {
		st := status.New().AddError(nil)
		assert.True(t, st.IsValid())
	})

	t.Run("single error message is the error text", func(t *testing.T) {
		st := status.New().Addf("tenant %q not found", "Acme")
		assert.Equal(t, `tenant "Acme" not found`, st.Message())
	})
}

func TestStatus_Message(t *testing.T) {
	st := status.New().SetMessage("added user %q", "a@example.com")
	assert.Equal(t, `added user "a@example.com"`, st.Message())

	// Message switches to error reporting once errors exist.
	st.AddError(errors.New("boom"))
	assert.Equal(t, "boom", st.Message())
}

func TestStatus_AddValidationErrs(t *testing.T) {
	verr := validate.Apply(
		validate.Required("userId", ""),
		validate.ValidEmail("email", "bad"),
	)
	require.Error(t, verr)

	st := status.New().AddValidationErrs(verr)
	require.Len(t, st.Errors(), 2)
	assert.Contains(t, st.Errors()[0].Error(), "userId")
	assert.Contains(t, st.Errors()[1].Error(), "email")

	// Plain errors pass through unchanged.
	st2 := status.New().AddValidationErrs(assert.AnError)
	require.Len(t, st2.Errors(), 1)
	assert.ErrorIs(t, st2.Err(), assert.AnError)

	assert.True(t, status.New().AddValidationErrs(nil).IsValid())
}

func TestStatus_Combine(t *testing.T) {
	a := status.New().Addf("a failed")
	b := status.New().Addf("b failed")

	a.Combine(b).Combine(nil)
	assert.Len(t, a.Errors(), 2)

	ok := status.New().SetMessage("done")
	ok.Combine(status.New())
	assert.True(t, ok.IsValid())
	assert.Equal(t, "done", ok.Message())
}

func TestResult(t *testing.T) {
	t.Run("payload returned while valid", func(t *testing.T) {
		res := status.NewResult[string]().SetResult("value")
		assert.Equal(t, "value", res.Result())
	})

	t.Run("zero value after errors", func(t *testing.T) {
		res := status.NewResult[string]().SetResult("value")
		res.AddError(errors.New("boom"))
		assert.Empty(t, res.Result())
	})
}
