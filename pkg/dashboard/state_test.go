package dashboard

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egandro/thermomap/pkg/buildings"
)

var testTimes = []string{
	"2020-11-17 10:04:26.7534760Z",
	"2020-12-19 10:04:29.0548320Z",
	"2021-01-04 10:04:24.4138260Z",
}

func TestParseMode(t *testing.T) {
	for input, expected := range map[string]Mode{"": ModeMean, "mean": ModeMean, "TIME": ModeTime, " time ": ModeTime} {
		got, err := ParseMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}
	_, err := ParseMode("weekly")
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestNewState(t *testing.T) {
	s := NewState(testTimes)
	assert.Equal(t, ModeMean, s.Mode)
	assert.Equal(t, testTimes[0], s.CurrentTime)
	assert.Equal(t, buildings.Temp, s.Statistic)
	assert.Empty(t, s.Selected)

	empty := NewState(nil)
	assert.Empty(t, empty.CurrentTime)
	assert.False(t, empty.ActivateTime().CanGoForward())
	assert.False(t, empty.ActivateTime().CanGoBack())
}

func TestState_TimeNavigation(t *testing.T) {
	s := NewState(testTimes)

	// Navigation is disabled in mean mode.
	assert.Equal(t, s, s.TimeForward())
	assert.Equal(t, s, s.TimeBack())
	assert.False(t, s.CanGoForward())

	s = s.ActivateTime()
	assert.False(t, s.CanGoBack())
	assert.True(t, s.CanGoForward())
	assert.Equal(t, s, s.TimeBack(), "no-op on the first time")

	s = s.TimeForward().TimeForward()
	assert.Equal(t, testTimes[2], s.CurrentTime)
	assert.False(t, s.CanGoForward())
	assert.Equal(t, s, s.TimeForward(), "no-op on the last time")

	s = s.TimeBack()
	assert.Equal(t, testTimes[1], s.CurrentTime)
	assert.True(t, s.CanGoBack())
	assert.True(t, s.CanGoForward())

	// The time survives a round trip through mean mode.
	assert.Equal(t, testTimes[1], s.ActivateMean().ActivateTime().CurrentTime)
}

func TestState_TransitionsDoNotMutate(t *testing.T) {
	s := NewState(testTimes)
	s.Select("a").UseStatistic(buildings.InMinusOut).ActivateTime().TimeForward()

	if diff := cmp.Diff(NewState(testTimes), s); diff != "" {
		t.Errorf("state mutated (-want +got):\n%s", diff)
	}
}

func TestState_Selection(t *testing.T) {
	s := NewState(testTimes).Select("town-hall")
	assert.Equal(t, "town-hall", s.Selected)
	assert.Empty(t, s.ClearSelection().Selected)
}

func TestState_At(t *testing.T) {
	s := NewState(testTimes)
	assert.Equal(t, testTimes[2], s.At(testTimes[2]).CurrentTime)
	assert.Equal(t, testTimes[1], s.At("2020-12-19").CurrentTime)
	assert.Equal(t, testTimes[0], s.At("1999-01-01").CurrentTime)
}

func TestState_TimeLabel(t *testing.T) {
	s := NewState(testTimes)
	assert.Equal(t, "time", s.TimeLabel())
	assert.Equal(t, "2020-11-17", s.ActivateTime().TimeLabel())
}

func TestStateFromQuery(t *testing.T) {
	want := NewState(testTimes).
		ActivateTime().
		UseStatistic(buildings.InMinusOutNature).
		At(testTimes[1]).
		Select("4711")

	got, err := StateFromQuery(want.Query(), testTimes)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StateFromQuery(Query()) mismatch (-want +got):\n%s", diff)
	}

	def, err := StateFromQuery(url.Values{}, testTimes)
	require.NoError(t, err)
	assert.Equal(t, NewState(testTimes), def)

	_, err = StateFromQuery(url.Values{"mode": {"bogus"}}, testTimes)
	assert.True(t, errors.Is(err, ErrUnknownMode))
	_, err = StateFromQuery(url.Values{"statistic": {"bogus"}}, testTimes)
	assert.True(t, errors.Is(err, buildings.ErrUnknownStatistic))
}
