package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05", value)
	require.NoError(t, err)
	return ts
}

func TestEmployeeToggle(t *testing.T) {
	t.Run("check in then check out on the same day", func(t *testing.T) {
		e := Employee{ID: 1}

		assert.True(t, e.Toggle(at(t, "2024-01-10T09:00:00")))
		require.Len(t, e.Attendance, 1)
		assert.Equal(t, "2024-01-10", e.Attendance[0].Date)
		assert.Equal(t, "09:00:00", e.Attendance[0].LoginTime)
		assert.Nil(t, e.Attendance[0].LogoutTime)

		assert.False(t, e.Toggle(at(t, "2024-01-10T17:00:00")))
		require.Len(t, e.Attendance, 1)
		require.NotNil(t, e.Attendance[0].LogoutTime)
		assert.Equal(t, "17:00:00", *e.Attendance[0].LogoutTime)
		assert.False(t, e.Working)
	})

	t.Run("second check in on the same day overwrites login and clears logout", func(t *testing.T) {
		e := Employee{ID: 1}
		e.Toggle(at(t, "2024-01-10T09:00:00"))
		e.Toggle(at(t, "2024-01-10T12:00:00"))
		e.Toggle(at(t, "2024-01-10T13:00:00"))

		require.Len(t, e.Attendance, 1)
		assert.Equal(t, "13:00:00", e.Attendance[0].LoginTime)
		assert.Nil(t, e.Attendance[0].LogoutTime)
		assert.True(t, e.Working)
	})

	t.Run("toggle is a strict negation", func(t *testing.T) {
		e := Employee{ID: 7}
		now := at(t, "2024-03-01T08:00:00")
		for i := 0; i < 6; i++ {
			before := e.Working
			got := e.Toggle(now.Add(time.Duration(i) * time.Hour))
			assert.Equal(t, !before, got)
			assert.Equal(t, got, e.Working)
		}
	})

	t.Run("closed record keeps its logout time", func(t *testing.T) {
		logout := "11:00:00"
		e := Employee{
			ID:      2,
			Working: true,
			Attendance: []AttendanceRecord{
				{Date: "2024-01-10", LoginTime: "08:00:00", LogoutTime: &logout},
			},
		}

		assert.False(t, e.Toggle(at(t, "2024-01-10T15:00:00")))
		assert.Equal(t, "11:00:00", *e.Attendance[0].LogoutTime)
	})

	t.Run("check out after midnight closes the open shift", func(t *testing.T) {
		e := Employee{ID: 3}
		e.Toggle(at(t, "2024-01-10T22:00:00"))
		e.Toggle(at(t, "2024-01-11T06:00:00"))

		require.Len(t, e.Attendance, 1)
		require.NotNil(t, e.Attendance[0].LogoutTime)
		assert.Equal(t, "06:00:00", *e.Attendance[0].LogoutTime)
		assert.False(t, e.Working)
	})

	t.Run("new day appends a new record", func(t *testing.T) {
		e := Employee{ID: 4}
		e.Toggle(at(t, "2024-01-10T09:00:00"))
		e.Toggle(at(t, "2024-01-10T17:00:00"))
		e.Toggle(at(t, "2024-01-11T09:30:00"))

		require.Len(t, e.Attendance, 2)
		assert.Equal(t, "2024-01-11", e.Attendance[1].Date)
		assert.True(t, e.PresentOn("2024-01-10"))
		assert.True(t, e.PresentOn("2024-01-11"))
		assert.False(t, e.PresentOn("2024-01-12"))
	})
}

func TestEmployeeStatus(t *testing.T) {
	logout := "17:00:00"
	e := Employee{Attendance: []AttendanceRecord{
		{Date: "2024-01-09", LoginTime: "09:00:00", LogoutTime: &logout},
		{Date: "2024-01-10", LoginTime: "09:00:00"},
		{Date: "2024-01-11"},
	}}

	assert.Equal(t, StatusCheckedOut, e.Status("2024-01-09"))
	assert.Equal(t, StatusPresent, e.Status("2024-01-10"))
	assert.Equal(t, StatusAbsent, e.Status("2024-01-11"))
	assert.Equal(t, StatusAbsent, e.Status("2024-01-12"))
}

func TestCloneIsDeep(t *testing.T) {
	logout := "17:00:00"
	orig := []Employee{{ID: 1, Attendance: []AttendanceRecord{{Date: "2024-01-10", LoginTime: "09:00:00", LogoutTime: &logout}}}}

	cp := CloneEmployees(orig)
	*cp[0].Attendance[0].LogoutTime = "18:00:00"
	cp[0].Attendance[0].LoginTime = "10:00:00"

	assert.Equal(t, "17:00:00", *orig[0].Attendance[0].LogoutTime)
	assert.Equal(t, "09:00:00", orig[0].Attendance[0].LoginTime)
}

func TestNextEmployeeID(t *testing.T) {
	assert.Equal(t, 1, NextEmployeeID(nil))
	assert.Equal(t, 8, NextEmployeeID([]Employee{{ID: 3}, {ID: 7}, {ID: 2}}))
}

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, NewNotFound(9), ErrNotFound)
	assert.ErrorIs(t, NewValidation("id", "empty"), ErrValidation)

	err := WrapPersistence("save registry", assert.AnError)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Same(t, err, WrapPersistence("again", err))
	assert.NoError(t, WrapPersistence("noop", nil))
}
