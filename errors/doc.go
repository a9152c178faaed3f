/*
Package errors provides semantic error types for csvstore.

The package defines the failure scenarios of the entity lists and the registry
with specific types that can be checked using the standard errors.Is() function
or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound     = errors.New("entity not found")
	    ErrDuplicateKey = errors.New("duplicate key")
	    ErrInvalidInput = errors.New("invalid input")
	    ErrDecodeRow    = errors.New("cannot decode row")
	    ErrInit         = errors.New("registry initialization failed")
	)

Usage:

	// Structural failures are returned immediately
	_, err := reg.Boards().Add(board)
	if errors.IsDuplicateKey(err) {
	    // the board code is taken
	}

	// Row failures are collected and reported once by Registry.Init
	if err := reg.Init(ctx); err != nil {
	    var agg *errors.AggregateInitError
	    if stderrors.As(err, &agg) {
	        for _, rowErr := range agg.Errors() {
	            log.Println(rowErr)
	        }
	    }
	}

DecodeRowError wraps the cause of a row failure, so a missing foreign key stays
visible to IsNotFound through both the row error and the aggregate.
*/
package errors
