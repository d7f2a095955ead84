package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateHelpers(t *testing.T) {
	MustInit("UTC")

	t.Run("DateOf truncates to midnight UTC", func(t *testing.T) {
		got := DateOf(time.Date(2019, 10, 29, 17, 45, 3, 0, time.UTC))
		assert.Equal(t, Date(2019, 10, 29), got)
	})

	t.Run("FirstOfMonth", func(t *testing.T) {
		assert.Equal(t, Date(2019, 10, 1), FirstOfMonth(Date(2019, 10, 29)))
	})

	t.Run("DayBoundsUTC", func(t *testing.T) {
		start, end := DayBoundsUTC(Date(2020, 2, 28))
		assert.Equal(t, time.Date(2020, 2, 28, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("MonthToDateBoundsUTC", func(t *testing.T) {
		start, end := MonthToDateBoundsUTC(Date(2020, 2, 10))
		assert.Equal(t, Date(2020, 2, 1), start)
		assert.Equal(t, Date(2020, 2, 11), end)
	})

	t.Run("DaysBetween", func(t *testing.T) {
		assert.Equal(t, 31, DaysBetween(Date(2018, 1, 1), Date(2018, 2, 1)))
		assert.Equal(t, 0, DaysBetween(Date(2018, 1, 1), time.Date(2018, 1, 1, 23, 0, 0, 0, time.UTC)))
	})
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2018-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2018-02-01", FormatDate(d))

	_, err = ParseDate("2018/02/01")
	assert.Error(t, err)

	assert.Equal(t, "2018-02-02T10:00:00Z", FormatDateTime(time.Date(2018, 2, 2, 12, 0, 0, 0, time.FixedZone("EET", 2*3600))))
}
