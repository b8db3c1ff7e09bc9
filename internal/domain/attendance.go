package domain

import "time"

// RecordFor returns a pointer to the attendance record for date, or nil.
func (e *Employee) RecordFor(date string) *AttendanceRecord {
	for i := range e.Attendance {
		if e.Attendance[i].Date == date {
			return &e.Attendance[i]
		}
	}
	return nil
}

// PresentOn reports whether the employee has any attendance activity on date.
func (e *Employee) PresentOn(date string) bool {
	return e.RecordFor(date) != nil
}

// Toggle flips the shift state at now and reconciles the record for now's date.
// It returns the new working state.
//
// Check-in creates or reopens the day's record with the latest login time.
// Check-out closes the open record; a record that is already closed keeps its logout time.
func (e *Employee) Toggle(now time.Time) bool {
	date := now.Format(DateLayout)
	clock := now.Format(TimeLayout)

	if !e.Working {
		rec := e.RecordFor(date)
		if rec == nil {
			e.Attendance = append(e.Attendance, AttendanceRecord{Date: date})
			rec = &e.Attendance[len(e.Attendance)-1]
		}
		rec.LoginTime = clock
		rec.LogoutTime = nil
		e.Working = true
		return true
	}

	rec := e.RecordFor(date)
	if rec == nil {
		// shift started on an earlier day
		rec = e.lastOpenRecord()
	}
	if rec != nil && rec.LoginTime != "" && rec.LogoutTime == nil {
		rec.LogoutTime = &clock
	}
	e.Working = false
	return false
}

func (e *Employee) lastOpenRecord() *AttendanceRecord {
	for i := len(e.Attendance) - 1; i >= 0; i-- {
		if e.Attendance[i].Open() {
			return &e.Attendance[i]
		}
	}
	return nil
}

// Status classifies the employee's activity on date for the roster.
func (e *Employee) Status(date string) string {
	rec := e.RecordFor(date)
	switch {
	case rec == nil || rec.LoginTime == "":
		return StatusAbsent
	case rec.LogoutTime != nil:
		return StatusCheckedOut
	default:
		return StatusPresent
	}
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (e Employee) Clone() Employee {
	out := e
	if e.Attendance != nil {
		out.Attendance = make([]AttendanceRecord, len(e.Attendance))
		for i, rec := range e.Attendance {
			if rec.LogoutTime != nil {
				v := *rec.LogoutTime
				rec.LogoutTime = &v
			}
			out.Attendance[i] = rec
		}
	}
	return out
}

// CloneEmployees deep-copies a registry snapshot.
func CloneEmployees(in []Employee) []Employee {
	if in == nil {
		return nil
	}
	out := make([]Employee, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// NextEmployeeID returns max(existing id) + 1.
func NextEmployeeID(employees []Employee) int {
	highest := 0
	for _, e := range employees {
		if e.ID > highest {
			highest = e.ID
		}
	}
	return highest + 1
}
