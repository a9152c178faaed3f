/*
Package csvstore keeps a small set of related trading records (exchanges,
boards, instruments, portfolios and positions) in per-type delimited text
files, with in-memory indexed access and batched, eventual durability.

Every record type lives in its own list. Mutations update the in-memory index
at once and queue a write; a shared scheduler wakes on the first mutation,
rewrites the files of lists with pending writes, and goes idle again once
every list is flushed. Loading resolves references against lists loaded
earlier, so a board row naming an unknown exchange is skipped and reported
instead of aborting startup.

Basic Usage:

	reg, err := csvstore.New("/var/lib/csvstore", csvstore.WithEncoding("windows-1251"))
	if err != nil {
		return err
	}

	// Row failures are collected, the rest of the data is usable
	if err := reg.Init(ctx); err != nil {
		var agg *errors.AggregateInitError
		if !stderrors.As(err, &agg) {
			return err
		}
		for _, rowErr := range agg.Errors() {
			logger.Error(rowErr, "Skipped row")
		}
	}
	defer reg.Close(ctx)

	moex, _ := reg.Exchanges().Add(&storagemodels.Exchange{Name: "MOEX"})
	reg.Boards().Add(&storagemodels.Board{Code: "TQBR", Exchange: moex})

	board, ok := reg.Boards().ReadByID("TQBR")

Files are named exchange.csv, exchangeboard.csv, security.csv, portfolio.csv
and position.csv. They have no header row and use ';' unless configured
otherwise.
*/
package csvstore
