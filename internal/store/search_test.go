package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/rash/internal/iterutil"
	"github.com/harrison/rash/internal/model"
)

// S2: environment AND-match.
func TestSearchMatchEnvironPatternRequiresAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ImportCommand(ctx, model.ImportCommandInput{
		Command: "first", Start: int64p(1),
		Environ: map[string]string{"E1": "abc", "E2": "bcd"},
	}, false)
	require.NoError(t, err)

	_, err = s.ImportCommand(ctx, model.ImportCommandInput{
		Command: "second", Start: int64p(2),
		Environ: map[string]string{"E1": "abc", "E2": "xxx"},
	}, false)
	require.NoError(t, err)

	opts := model.DefaultSearchOptions()
	opts.Unique = false
	opts.MatchEnvironPattern = []model.EnvironPattern{
		{Name: "E1", Value: "*b*"},
		{Name: "E2", Value: "*c*"},
	}

	cur, err := s.SearchCommandRecord(ctx, opts)
	require.NoError(t, err)
	rows, err := iterutil.Drain[Row](cur)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0]["command"])
}

// S4: cwd distance ordering.
func TestSearchSortByCwdDistance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cwds := []string{"/A/B/C", "/A/B", "/A/B/C/D", "/A/B/X", "/A"}
	for i, cwd := range cwds {
		_, err := s.ImportCommand(ctx, model.ImportCommandInput{
			Command: cwd, Cwd: cwd, Start: int64p(int64(i)),
		}, false)
		require.NoError(t, err)
	}

	opts := model.DefaultSearchOptions()
	opts.Unique = false
	opts.SortBy = []string{"start_time"}
	opts.SortByCwdDistance = "/A/B/C"

	cur, err := s.SearchCommandRecord(ctx, opts)
	require.NoError(t, err)
	rows, err := iterutil.Drain[Row](cur)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	wantDistances := []int64{0, 1, 1, 1, 2}
	for i, row := range rows {
		got, ok := row["cwd_distance"].(int64)
		require.Truef(t, ok, "row %d: cwd_distance not int64: %#v", i, row["cwd_distance"])
		assert.Equalf(t, wantDistances[i], got, "row %d (cwd=%v)", i, row["cwd"])
	}
}

func TestSearchIncludeExcludeExitCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, code := range []int{0, 1, 2} {
		_, err := s.ImportCommand(ctx, model.ImportCommandInput{
			Command: "c", Start: int64p(int64(i)), ExitCode: intp(code),
		}, false)
		require.NoError(t, err)
	}

	opts := model.DefaultSearchOptions()
	opts.Unique = false
	opts.IncludeExitCode = []int{0, 1}
	opts.ExcludeExitCode = []int{1}

	cur, err := s.SearchCommandRecord(ctx, opts)
	require.NoError(t, err)
	rows, err := iterutil.Drain[Row](cur)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0]["exit_code"])
}
