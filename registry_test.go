/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package csvstore_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/csvstore"
	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/logging"
	"github.com/suparena/csvstore/scheduler"
	"github.com/suparena/csvstore/storagemodels"
)

type silentTicker struct{ c chan time.Time }

func (t silentTicker) Channel() <-chan time.Time { return t.c }
func (t silentTicker) Stop()                     {}

// manual keeps the background scheduler from firing so tests flush explicitly
func manual(time.Duration) scheduler.Ticker { return silentTicker{c: make(chan time.Time)} }

func open(t *testing.T, dir string, opts ...csvstore.Option) *csvstore.Registry {
	t.Helper()
	opts = append([]csvstore.Option{
		csvstore.WithTickerFactory(manual),
		csvstore.WithLogger(logging.NewTestLogger()),
	}, opts...)
	r, err := csvstore.New(dir, opts...)
	require.NoError(t, err)
	return r
}

func ptr[T any](v T) *T { return &v }

type seed struct {
	moex  *storagemodels.Exchange
	tqbr  *storagemodels.Board
	sber  *storagemodels.Instrument
	gazp  *storagemodels.Instrument
	main  *storagemodels.Portfolio
	spare *storagemodels.Portfolio
}

func populate(t *testing.T, r *csvstore.Registry) seed {
	t.Helper()
	var s seed
	var err error

	s.moex, err = r.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX", CountryCode: ptr(storagemodels.CountryRU)})
	require.NoError(t, err)
	s.tqbr, err = r.Boards().Add(&storagemodels.Board{Code: "TQBR", Exchange: s.moex, TimeZone: "Europe/Moscow"})
	require.NoError(t, err)
	s.sber, err = r.Instruments().Add(&storagemodels.Instrument{
		ID: "SBER@TQBR", Code: "SBER", Board: s.tqbr,
		Type: ptr(storagemodels.InstrumentStock), Currency: ptr(storagemodels.CurrencyRUB),
		PriceStep: decimal.NewNullDecimal(decimal.RequireFromString("0.01")),
	})
	require.NoError(t, err)
	s.gazp, err = r.Instruments().Add(&storagemodels.Instrument{
		ID: "GAZP@TQBR", Code: "GAZP", Board: s.tqbr,
		Type: ptr(storagemodels.InstrumentStock), Currency: ptr(storagemodels.CurrencyRUB),
	})
	require.NoError(t, err)
	s.main, err = r.Portfolios().Add(&storagemodels.Portfolio{Name: "main", Board: s.tqbr})
	require.NoError(t, err)
	s.spare, err = r.Portfolios().Add(&storagemodels.Portfolio{Name: "spare"})
	require.NoError(t, err)
	return s
}

func TestNewRequiresPath(t *testing.T) {
	_, err := csvstore.New("")
	assert.True(t, errors.IsValidationError(err))

	_, err = csvstore.New(t.TempDir(), csvstore.WithEncoding("no-such-charset"))
	assert.Error(t, err)
}

func TestInitCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	r := open(t, dir)
	require.NoError(t, r.Init(context.Background()))
	assert.DirExists(t, dir)
	assert.Zero(t, r.Exchanges().Count())
}

func TestExchangeAndBoardSurviveReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := open(t, dir)
	require.NoError(t, r.Init(ctx))
	moex, err := r.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX"})
	require.NoError(t, err)
	_, err = r.Boards().Add(&storagemodels.Board{Code: "TQBR", Exchange: moex})
	require.NoError(t, err)
	r.Flush()

	reloaded := open(t, dir)
	require.NoError(t, reloaded.Init(ctx))
	board, ok := reloaded.Boards().ReadByID("TQBR")
	require.True(t, ok)
	require.NotNil(t, board.Exchange)
	assert.Equal(t, "MOEX", board.Exchange.Name)

	// The reference points at the record held by the exchange list
	exchange, _ := reloaded.Exchanges().ReadByID("MOEX")
	assert.Same(t, exchange, board.Exchange)
}

func TestUnknownInstrumentReportedOnReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := open(t, dir)
	require.NoError(t, r.Init(ctx))
	s := populate(t, r)

	ghost := &storagemodels.Instrument{ID: "UNKNOWN", Board: s.tqbr}
	for _, p := range []*storagemodels.Position{
		{Portfolio: s.main, Instrument: s.sber},
		{Portfolio: s.main, Instrument: ghost},
		{Portfolio: s.spare, Instrument: s.gazp},
	} {
		_, err := r.Positions().Add(p)
		require.NoError(t, err)
	}
	require.NoError(t, r.Close(ctx))

	reloaded := open(t, dir)
	err := reloaded.Init(ctx)
	require.Error(t, err)

	var agg *errors.AggregateInitError
	require.True(t, stderrors.As(err, &agg))
	require.Len(t, agg.Errors(), 1)

	var nf *errors.NotFoundError
	require.True(t, stderrors.As(agg.Errors()[0], &nf))
	assert.Equal(t, "Instrument", nf.Type)
	assert.Equal(t, "UNKNOWN", nf.Key)

	var rowErr *errors.DecodeRowError
	require.True(t, stderrors.As(agg.Errors()[0], &rowErr))
	assert.Equal(t, csvstore.PositionFile, rowErr.File)
	assert.Equal(t, 2, rowErr.Line)

	assert.Equal(t, 2, reloaded.Positions().Count())
	_, ok := reloaded.Positions().ReadByInstrumentAndPortfolio(s.gazp, s.spare)
	assert.True(t, ok)
}

func TestAddThenRemoveLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := open(t, dir)
	require.NoError(t, r.Init(ctx))
	s := populate(t, r)
	r.Flush()

	temp, err := r.Instruments().Add(&storagemodels.Instrument{ID: "TEMP@TQBR", Code: "TEMPX", Board: s.tqbr})
	require.NoError(t, err)
	require.NoError(t, r.Instruments().Remove(temp))
	r.Flush()

	raw, err := os.ReadFile(filepath.Join(dir, csvstore.InstrumentFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "TEMP")

	_, ok := r.Instruments().ReadByID("TEMP@TQBR")
	assert.False(t, ok)
}

func TestUnknownExchangeRejectsOnlyThatRow(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvstore.ExchangeFile), []byte("MOEX;RU;;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvstore.BoardFile),
		[]byte("TQBR;MOEX;;;;;\nXNYS;NYSE;;;;;\nSPBFUT;MOEX;18:45:00;Europe/Moscow;;;\n"), 0o644))

	r := open(t, dir)
	err := r.Init(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsInit(err))
	assert.True(t, errors.IsNotFound(err))

	var agg *errors.AggregateInitError
	require.True(t, stderrors.As(err, &agg))
	require.Len(t, agg.Errors(), 1)
	assert.Contains(t, agg.Errors()[0].Error(), "NYSE")

	assert.Equal(t, 2, r.Boards().Count())
	_, ok := r.Boards().ReadByID("SPBFUT")
	assert.True(t, ok)
}

func TestInitCollectsAcrossLists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvstore.ExchangeFile), []byte("MOEX;XX;;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvstore.PortfolioFile), []byte("main;TQBR;;;;;;;;;;;\n"), 0o644))

	r := open(t, dir)
	err := r.Init(context.Background())

	var agg *errors.AggregateInitError
	require.True(t, stderrors.As(err, &agg))
	require.Len(t, agg.Errors(), 2, "bad enum in exchanges, unknown board in portfolios")
	assert.True(t, strings.HasPrefix(agg.Errors()[0].Error(), csvstore.ExchangeFile))
	assert.True(t, strings.HasPrefix(agg.Errors()[1].Error(), csvstore.PortfolioFile))
}

func TestDuplicateKeysRejected(t *testing.T) {
	r := open(t, t.TempDir())
	require.NoError(t, r.Init(context.Background()))
	s := populate(t, r)

	_, err := r.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX"})
	assert.True(t, errors.IsDuplicateKey(err))

	_, err = r.Positions().Add(&storagemodels.Position{Portfolio: s.main, Instrument: s.sber})
	require.NoError(t, err)
	_, err = r.Positions().Add(&storagemodels.Position{Portfolio: s.main, Instrument: s.sber})
	assert.True(t, errors.IsDuplicateKey(err))
}

func TestInstrumentLookup(t *testing.T) {
	r := open(t, t.TempDir())
	require.NoError(t, r.Init(context.Background()))
	s := populate(t, r)

	future := &storagemodels.Instrument{
		ID: "SiZ6@SPBFUT", Code: "SiZ6", Board: s.tqbr, UnderlyingID: s.sber.ID,
		Type: ptr(storagemodels.InstrumentFuture),
	}
	_, err := r.Instruments().Add(future)
	require.NoError(t, err)

	list := r.Instruments()
	assert.Equal(t, []string{"SBER@TQBR", "GAZP@TQBR", "SiZ6@SPBFUT"}, list.IDs())
	assert.Len(t, list.Lookup(csvstore.InstrumentCriteria{}), 3)
	assert.Len(t, list.Lookup(csvstore.InstrumentCriteria{Type: ptr(storagemodels.InstrumentStock)}), 2)
	assert.Len(t, list.Lookup(csvstore.InstrumentCriteria{ID: "GAZP@TQBR"}), 1)
	assert.Empty(t, list.Lookup(csvstore.InstrumentCriteria{ID: "GAZP@TQBR", Code: "SBER"}))
	assert.Empty(t, list.Lookup(csvstore.InstrumentCriteria{ID: "NOPE"}))

	underlying, ok := list.Underlying(future)
	require.True(t, ok)
	assert.Same(t, s.sber, underlying)

	removed, err := list.DeleteBy(csvstore.InstrumentCriteria{Type: ptr(storagemodels.InstrumentStock)})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"SiZ6@SPBFUT"}, list.IDs())
}

func TestPositionsByPortfolio(t *testing.T) {
	r := open(t, t.TempDir())
	require.NoError(t, r.Init(context.Background()))
	s := populate(t, r)

	for _, p := range []*storagemodels.Position{
		{Portfolio: s.main, Instrument: s.sber},
		{Portfolio: s.main, Instrument: s.gazp},
		{Portfolio: s.spare, Instrument: s.sber},
	} {
		_, err := r.Positions().Add(p)
		require.NoError(t, err)
	}

	assert.Len(t, r.Positions().ByPortfolio("main"), 2)
	pos, ok := r.Positions().ReadByInstrumentAndPortfolio(s.sber, s.spare)
	require.True(t, ok)
	assert.Equal(t, "spare", pos.Portfolio.Name)

	_, ok = r.Positions().ReadByInstrumentAndPortfolio(nil, s.spare)
	assert.False(t, ok)
}

func TestSetFlushPolicyPropagates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r := open(t, dir)
	require.NoError(t, r.Init(ctx))

	policy := datastore.FlushPolicy{Interval: 250 * time.Millisecond, MinAge: time.Hour}
	r.SetFlushPolicy(policy)
	assert.Equal(t, policy, r.FlushPolicy())

	_, err := r.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX"})
	require.NoError(t, err)
	r.Flush()
	assert.NoFileExists(t, filepath.Join(dir, csvstore.ExchangeFile), "held back by the flush delay")
	assert.Equal(t, 1, r.Exchanges().Pending())

	// Close ignores the delay
	require.NoError(t, r.Close(ctx))
	assert.FileExists(t, filepath.Join(dir, csvstore.ExchangeFile))
	assert.Zero(t, r.Exchanges().Pending())
}

func TestCloseGivesUpWhenContextEnds(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "store")
	r := open(t, dir)
	require.NoError(t, r.Init(context.Background()))
	_, err := r.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX"})
	require.NoError(t, err)

	// Make the directory unusable
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, nil, 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	err = r.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, r.Exchanges().Pending(), "pending writes are not dropped")
}

func TestMutationsAfterCloseAreRejected(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r := open(t, dir)
	require.NoError(t, r.Init(ctx))
	s := populate(t, r)
	require.NoError(t, r.Close(ctx))

	_, err := r.Exchanges().Add(&storagemodels.Exchange{Name: "NYSE"})
	assert.True(t, errors.IsClosed(err))
	_, err = r.Portfolios().Update(s.main)
	assert.True(t, errors.IsClosed(err))
	assert.True(t, errors.IsClosed(r.Instruments().Remove(s.gazp)))
	_, err = r.Instruments().DeleteBy(csvstore.InstrumentCriteria{Code: "SBER"})
	assert.True(t, errors.IsClosed(err))

	assert.Zero(t, r.Exchanges().Pending())
	assert.Equal(t, 2, r.Instruments().Count())
	_, ok := r.Instruments().ReadByID(s.sber.ID)
	assert.True(t, ok, "reads still work")
}

func TestBackgroundSchedulerPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r, err := csvstore.New(dir, csvstore.WithFlushPolicy(datastore.FlushPolicy{Interval: 10 * time.Millisecond}))
	require.NoError(t, err)
	require.NoError(t, r.Init(ctx))
	defer r.Close(ctx)

	_, err = r.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return r.Exchanges().Pending() == 0 }, 2*time.Second, 10*time.Millisecond)
	raw, err := os.ReadFile(filepath.Join(dir, csvstore.ExchangeFile))
	require.NoError(t, err)
	assert.Equal(t, "MOEX;;;\n", string(raw))
}

func TestLegacyEncodingAndDelimiter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	opts := []csvstore.Option{csvstore.WithEncoding("windows-1251"), csvstore.WithDelimiter(',')}

	r := open(t, dir, opts...)
	require.NoError(t, r.Init(ctx))
	_, err := r.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX", RusName: "Московская биржа, ПАО"})
	require.NoError(t, err)
	require.NoError(t, r.Close(ctx))

	reloaded := open(t, dir, opts...)
	require.NoError(t, reloaded.Init(ctx))
	moex, ok := reloaded.Exchanges().ReadByID("MOEX")
	require.True(t, ok)
	assert.Equal(t, "Московская биржа, ПАО", moex.RusName)
}
