package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/egandro/thermomap/pkg/buildings"
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects between the per-building mean and a single acquisition.
type Mode string

const (
	ModeMean Mode = "mean"
	ModeTime Mode = "time"
)

// ParseMode parses "mean" or "time". Empty means ModeMean.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMean:
		return ModeMean, nil
	case ModeTime:
		return ModeTime, nil
	}
	return ModeMean, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// State is the selector state of the dashboard. Transitions return a new
// State and leave the receiver untouched.
type State struct {
	Mode           Mode                `json:"mode"`
	CurrentTime    string              `json:"currentTime"`
	AvailableTimes []string            `json:"availableTimes"`
	Statistic      buildings.Statistic `json:"statistic"`
	Selected       string              `json:"selected,omitempty"`
}

// NewState starts in mean mode on the first available time.
func NewState(times []string) State {
	s := State{
		Mode:           ModeMean,
		AvailableTimes: append([]string(nil), times...),
		Statistic:      buildings.Temp,
	}
	if len(times) > 0 {
		s.CurrentTime = times[0]
	}
	return s
}

func (s State) index() int {
	for i, t := range s.AvailableTimes {
		if t == s.CurrentTime {
			return i
		}
	}
	return -1
}

func (s State) ActivateMean() State {
	s.Mode = ModeMean
	return s
}

func (s State) ActivateTime() State {
	s.Mode = ModeTime
	return s
}

func (s State) UseStatistic(stat buildings.Statistic) State {
	s.Statistic = stat
	return s
}

// At moves to the available time t, given in full or as its day. Unknown
// times leave s unchanged.
func (s State) At(t string) State {
	for _, a := range s.AvailableTimes {
		if a == t {
			s.CurrentTime = a
			return s
		}
	}
	for _, a := range s.AvailableTimes {
		if buildings.DayLabel(a) == t {
			s.CurrentTime = a
			break
		}
	}
	return s
}

// CanGoBack reports whether TimeBack would move.
func (s State) CanGoBack() bool {
	return s.Mode == ModeTime && s.index() > 0
}

// CanGoForward reports whether TimeForward would move.
func (s State) CanGoForward() bool {
	i := s.index()
	return s.Mode == ModeTime && i >= 0 && i < len(s.AvailableTimes)-1
}

// TimeBack steps to the previous acquisition. No-op in mean mode or on the
// first time.
func (s State) TimeBack() State {
	if !s.CanGoBack() {
		return s
	}
	s.CurrentTime = s.AvailableTimes[s.index()-1]
	return s
}

// TimeForward steps to the next acquisition. No-op in mean mode or on the
// last time.
func (s State) TimeForward() State {
	if !s.CanGoForward() {
		return s
	}
	s.CurrentTime = s.AvailableTimes[s.index()+1]
	return s
}

func (s State) Select(id string) State {
	s.Selected = id
	return s
}

func (s State) ClearSelection() State {
	s.Selected = ""
	return s
}

// TimeLabel is the caption of the time control.
func (s State) TimeLabel() string {
	if s.Mode == ModeMean {
		return "time"
	}
	return buildings.DayLabel(s.CurrentTime)
}
