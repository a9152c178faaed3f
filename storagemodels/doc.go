/*
Package storagemodels defines the records persisted by csvstore.

Key Types:

Records, one file per type:

	Exchange   keyed by Name
	Board      keyed by Code, references Exchange
	Instrument keyed by ID, references Board
	Portfolio  keyed by Name, optionally references Board
	Position   keyed by PositionKey{Portfolio, Instrument}

References are plain pointers to the records held by the sibling lists, so a
loaded Board shares its *Exchange with the exchange list.

Nullable attributes use pointers for enums and integers, decimal.NullDecimal
for decimals and *strfmt.DateTime for dates:

	inst := &Instrument{
	    ID:        "SBER@TQBR",
	    Board:     board,
	    PriceStep: decimal.NewNullDecimal(decimal.RequireFromString("0.01")),
	    Type:      ptr(InstrumentStock),
	}

Change:
Notifications delivered to list watchers after Add, Update and Remove:

	type Change[T any] struct {
	    Kind ChangeKind
	    Item T
	    List string
	    Time time.Time
	}
*/
package storagemodels
