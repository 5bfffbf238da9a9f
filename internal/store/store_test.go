package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdir/internal/engine"
	"staffdir/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "staffdir_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleEmployee() engine.Employee {
	return engine.Employee{
		EmpNo:     "1001",
		Name:      "Alice Zimmerman",
		JobTitle:  "Support Tech",
		WorkPhone: "(208) 555-1212",
		Unit:      "IT",
		Crew:      "Helpdesk",
		Email:     "alice@example.gov",
		BirthDate: time.Date(1995, 8, 16, 0, 0, 0, 0, time.UTC),
		HireDate:  time.Date(2015, 8, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore_UpsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, sampleEmployee()))

	got, err := s.Get(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Alice Zimmerman", got.Name)
	assert.Equal(t, "IT", got.Unit)
	assert.True(t, got.BirthDate.Equal(time.Date(1995, 8, 16, 0, 0, 0, 0, time.UTC)))
	assert.True(t, got.HireDate.Equal(time.Date(2015, 8, 11, 0, 0, 0, 0, time.UTC)))
}

func TestStore_UpsertReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := sampleEmployee()
	require.NoError(t, s.Upsert(ctx, e))

	e.JobTitle = "Senior Support Tech"
	e.Crew = "Network"
	require.NoError(t, s.Upsert(ctx, e))

	got, err := s.Get(ctx, e.EmpNo)
	require.NoError(t, err)
	assert.Equal(t, "Senior Support Tech", got.JobTitle)
	assert.Equal(t, "Network", got.Crew)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_GetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_NilDatesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := sampleEmployee()
	e.EmpNo = "2001"
	e.BirthDate = time.Time{}
	e.HireDate = time.Time{}
	require.NoError(t, s.Upsert(ctx, e))

	got, err := s.Get(ctx, "2001")
	require.NoError(t, err)
	assert.True(t, got.BirthDate.IsZero())
	assert.True(t, got.HireDate.IsZero())
}

func TestStore_ListOrderAndExclusions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []engine.Employee{
		{EmpNo: "1", Name: "Walt Young", Unit: "Water", Crew: "Day"},
		{EmpNo: "2", Name: "Amy Adams", Unit: "IT", Crew: "Helpdesk"},
		{EmpNo: "3", Name: "Test Account", Unit: "IT", Crew: "Helpdesk"},
		{EmpNo: "4", Name: "Shop Wireless Phone", Unit: "Water", Crew: "Day"},
		{EmpNo: "5", Name: "Bea Baker", Unit: "IT", Crew: "Network"},
	}
	for _, e := range seed {
		require.NoError(t, s.Upsert(ctx, e))
	}

	employees, err := s.List(ctx)
	require.NoError(t, err)

	// Service accounts are filtered out of every listing.
	require.Len(t, employees, 3)
	assert.Equal(t, "Amy Adams", employees[0].Name)
	assert.Equal(t, "Bea Baker", employees[1].Name)
	assert.Equal(t, "Walt Young", employees[2].Name)

	// Count sees the raw table, exclusions included.
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
