package limits

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dverbeek/reportpool/pkg/core"
)

func TestValidateWorkers(t *testing.T) {
	assert.NoError(t, ValidateWorkers(0), "zero means runtime default")
	assert.NoError(t, ValidateWorkers(1))
	assert.NoError(t, ValidateWorkers(5000), "large values are clamped, not rejected")
	assert.ErrorIs(t, ValidateWorkers(-1), core.ErrInvalidWorkerCount)
}

func TestClampWorkers(t *testing.T) {
	assert.Equal(t, 1, ClampWorkers(0))
	assert.Equal(t, 1, ClampWorkers(-10))
	assert.Equal(t, 4, ClampWorkers(4))
	assert.Equal(t, MaxWorkers, ClampWorkers(MaxWorkers+1))
}

func TestValidateReportRate(t *testing.T) {
	assert.NoError(t, ValidateReportRate(60))
	assert.NoError(t, ValidateReportRate(0.5))

	assert.ErrorIs(t, ValidateReportRate(0), core.ErrInvalidReportRate)
	assert.ErrorIs(t, ValidateReportRate(-20), core.ErrInvalidReportRate)
	assert.ErrorIs(t, ValidateReportRate(math.NaN()), core.ErrInvalidReportRate)
	assert.ErrorIs(t, ValidateReportRate(math.Inf(1)), core.ErrInvalidReportRate)
}

func TestSanitizeErrorMessage_StripsControlCharacters(t *testing.T) {
	msg := "line1\nline2\x00\x01end"
	out := SanitizeErrorMessage(msg)

	assert.Equal(t, "line1\nline2end", out)
}

func TestSanitizeErrorMessage_Truncates(t *testing.T) {
	msg := strings.Repeat("a", MaxErrorMessageLength+100)
	out := SanitizeErrorMessage(msg)

	assert.Len(t, out, MaxErrorMessageLength)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestSanitizeErrorMessage_Empty(t *testing.T) {
	assert.Equal(t, "", SanitizeErrorMessage(""))
}
