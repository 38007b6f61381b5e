package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

func openSQLite(t *testing.T) Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "frc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, openSQLite)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("FRC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FRC_TEST_POSTGRES_DSN not set")
	}
	runStoreTests(t, func(t *testing.T) Store {
		s, err := Open(context.Background(), DriverPostgres, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.Error(t, err)
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "frc.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	p, err := s.CreateProject(ctx, info("Persist"))
	require.NoError(t, err)
	_, err = s.ReplaceEntries(ctx, p.ID, sample())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.ListEntries(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func info(name string) model.ProjectInfo {
	return model.ProjectInfo{
		Name:        name,
		CompanyName: "Acme Ltd",
		PeriodEnd:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func classified(code, amount string, adj *string, c model.Classification) model.ClassifiedEntry {
	var nd decimal.NullDecimal
	if adj != nil {
		nd = decimal.NewNullDecimal(decimal.RequireFromString(*adj))
	}
	e := model.ClassifiedEntry{Entry: model.NewEntry(code, code+" name", decimal.RequireFromString(amount), nd)}
	return e.WithClassification(c)
}

func sample() []model.ClassifiedEntry {
	adj := "-0.75"
	return []model.ClassifiedEntry{
		classified("700.100", "-1000.10", nil, model.Revenue),
		classified("300.100", "1234567.891", &adj, model.NonCurrentAsset),
		classified("BDO-1", "5", nil, model.NonCurrentAsset),
	}
}

func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("CreateGetProject", func(t *testing.T) {
		s := open(t)
		p, err := s.CreateProject(ctx, info("FY24"))
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)

		got, err := s.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "FY24", got.Name)
		assert.Equal(t, "Acme Ltd", got.CompanyName)
		assert.Equal(t, "2024-12-31", got.PeriodEnd.Format(model.DateLayout))
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("CreateProjectValidates", func(t *testing.T) {
		s := open(t)
		_, err := s.CreateProject(ctx, model.ProjectInfo{})
		assert.ErrorIs(t, err, model.ErrInvalid)
	})

	t.Run("GetProjectNotFound", func(t *testing.T) {
		s := open(t)
		_, err := s.GetProject(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetProject(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ReplaceAndListEntries", func(t *testing.T) {
		s := open(t)
		p, err := s.CreateProject(ctx, info("Replace"))
		require.NoError(t, err)

		n, err := s.ReplaceEntries(ctx, p.ID, sample())
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		entries, err := s.ListEntries(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		// Ordered by account code.
		assert.Equal(t, "300.100", entries[0].AccountCode)
		assert.Equal(t, "700.100", entries[1].AccountCode)
		assert.Equal(t, "BDO-1", entries[2].AccountCode)

		// Positions keep the import order.
		assert.Equal(t, []int{1, 0, 2}, []int{entries[0].Position, entries[1].Position, entries[2].Position})
		imported := append([]model.ClassifiedEntry(nil), entries...)
		model.SortByPosition(imported)
		assert.Equal(t, "700.100", imported[0].AccountCode)

		assert.NotEmpty(t, entries[0].ID)
		assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("1234567.891")))
		require.True(t, entries[0].Adjustments.Valid)
		assert.True(t, entries[0].Adjustments.Decimal.Equal(decimal.RequireFromString("-0.75")))
		assert.True(t, entries[0].FinalAmount.Equal(decimal.RequireFromString("1234567.141")))
		assert.False(t, entries[1].Adjustments.Valid)
		assert.Equal(t, model.Revenue, entries[1].Classification)
		assert.Equal(t, model.SectionPnL, entries[1].Section)
		assert.False(t, entries[1].Manual)

		// A second replacement drops the first set.
		n, err = s.ReplaceEntries(ctx, p.ID, sample()[:1])
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		entries, err = s.ListEntries(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("ReplaceEntriesUnknownProject", func(t *testing.T) {
		s := open(t)
		_, err := s.ReplaceEntries(ctx, "00000000-0000-0000-0000-000000000000", sample())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ReplaceEntriesRejectsBadClassification", func(t *testing.T) {
		s := open(t)
		p, err := s.CreateProject(ctx, info("Bad"))
		require.NoError(t, err)
		bad := sample()
		bad[0].Classification = "bogus"
		_, err = s.ReplaceEntries(ctx, p.ID, bad)
		assert.ErrorIs(t, err, model.ErrInvalidClassification)
	})

	t.Run("ListEntriesUnknownProject", func(t *testing.T) {
		s := open(t)
		_, err := s.ListEntries(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListProjects", func(t *testing.T) {
		s := open(t)
		a, err := s.CreateProject(ctx, info("A"))
		require.NoError(t, err)
		b, err := s.CreateProject(ctx, info("B"))
		require.NoError(t, err)
		_, err = s.ReplaceEntries(ctx, a.ID, sample())
		require.NoError(t, err)

		list, err := s.ListProjects(ctx)
		require.NoError(t, err)
		idx := map[string]int{}
		for i, p := range list {
			idx[p.ID] = i
		}
		require.Contains(t, idx, a.ID)
		require.Contains(t, idx, b.ID)
		assert.Less(t, idx[a.ID], idx[b.ID], "recently updated first")
		assert.Equal(t, 3, list[idx[a.ID]].EntryCount)
		assert.Equal(t, 0, list[idx[b.ID]].EntryCount)
	})

	t.Run("UpdateClassification", func(t *testing.T) {
		s := open(t)
		p, err := s.CreateProject(ctx, info("Update"))
		require.NoError(t, err)
		_, err = s.ReplaceEntries(ctx, p.ID, sample())
		require.NoError(t, err)
		entries, err := s.ListEntries(ctx, p.ID)
		require.NoError(t, err)

		require.NoError(t, s.UpdateClassification(ctx, entries[2].ID, model.Tax))
		entries, err = s.ListEntries(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Tax, entries[2].Classification)
		assert.Equal(t, model.SectionPnL, entries[2].Section)

		err = s.UpdateClassification(ctx, entries[2].ID, "bogus")
		assert.ErrorIs(t, err, model.ErrInvalidClassification)

		err = s.UpdateClassification(ctx, "00000000-0000-0000-0000-000000000000", model.Tax)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateClassificationsAllOrNothing", func(t *testing.T) {
		s := open(t)
		p, err := s.CreateProject(ctx, info("Batch"))
		require.NoError(t, err)
		_, err = s.ReplaceEntries(ctx, p.ID, sample())
		require.NoError(t, err)
		entries, err := s.ListEntries(ctx, p.ID)
		require.NoError(t, err)

		err = s.UpdateClassifications(ctx, []ClassificationUpdate{
			{ID: entries[0].ID, Classification: model.CurrentAsset},
			{ID: "00000000-0000-0000-0000-000000000000", Classification: model.Equity},
		})
		assert.ErrorIs(t, err, ErrNotFound)

		after, err := s.ListEntries(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.NonCurrentAsset, after[0].Classification, "rolled back")

		err = s.UpdateClassifications(ctx, []ClassificationUpdate{
			{ID: entries[0].ID, Classification: model.CurrentAsset},
			{ID: entries[1].ID, Classification: model.OperatingExpense},
		})
		require.NoError(t, err)
		after, err = s.ListEntries(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.CurrentAsset, after[0].Classification)
		assert.Equal(t, model.OperatingExpense, after[1].Classification)
	})

	t.Run("AddAndDeleteEntry", func(t *testing.T) {
		s := open(t)
		p, err := s.CreateProject(ctx, info("Manual"))
		require.NoError(t, err)

		adj := "0"
		e, err := s.AddEntry(ctx, p.ID, classified("900.100", "42", &adj, ""))
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
		assert.True(t, e.Manual)
		assert.Equal(t, model.Unclassified, e.Classification)
		assert.Equal(t, model.SectionBalanceSheet, e.Section)
		assert.False(t, e.Adjustments.Valid)

		entries, err := s.ListEntries(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, e.ID, entries[0].ID)
		assert.Equal(t, e.Position, entries[0].Position)
		assert.True(t, entries[0].Manual)

		require.NoError(t, s.DeleteEntry(ctx, e.ID))
		assert.ErrorIs(t, s.DeleteEntry(ctx, e.ID), ErrNotFound)

		entries, err = s.ListEntries(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("AddEntryValidates", func(t *testing.T) {
		s := open(t)
		p, err := s.CreateProject(ctx, info("Manual"))
		require.NoError(t, err)

		bad := classified("900.100", "1", nil, model.Equity)
		bad.AccountName = ""
		_, err = s.AddEntry(ctx, p.ID, bad)
		assert.ErrorIs(t, err, model.ErrInvalid)

		_, err = s.AddEntry(ctx, "00000000-0000-0000-0000-000000000000", classified("1", "1", nil, model.Equity))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
