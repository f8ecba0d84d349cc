package schedule

import "time"

type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// View is the calendar state: which month is shown, which day (if any) is
// selected and which filters apply to both.
type View struct {
	Cursor   Month          `json:"cursor"`
	Selected *DateKey       `json:"selected,omitempty"`
	Filters  Filters        `json:"filters"`
	Location *time.Location `json:"-"`
}

func NewView(now time.Time, loc *time.Location) *View {
	return &View{
		Cursor:   MonthOf(now, loc),
		Location: loc,
	}
}

// NavigateMonth moves the cursor one month in dir. The selection is kept.
func (v *View) NavigateMonth(dir Direction) {
	switch {
	case dir < 0:
		v.Cursor = v.Cursor.Prev()
	case dir > 0:
		v.Cursor = v.Cursor.Next()
	}
}

// SelectDay selects the local day of t. Days outside the cursor's month are
// ignored and false is returned.
func (v *View) SelectDay(t time.Time) bool {
	return v.SelectKey(KeyOf(t, v.Location))
}

func (v *View) SelectKey(k DateKey) bool {
	if !v.Cursor.Contains(k, v.Location) {
		return false
	}
	v.Selected = &k
	return true
}

func (v *View) ClearSelection() {
	v.Selected = nil
}

func (v *View) SelectedKey() (DateKey, bool) {
	if v.Selected == nil {
		return "", false
	}
	return *v.Selected, true
}
