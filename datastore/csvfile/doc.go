/*
Package csvfile implements datastore.EntityList on delimited text files.

Each List owns one file, an in-memory index keyed by the codec key extractor,
and a queue of pending mutations:

	list := csvfile.New[string, *storagemodels.Exchange]("Exchange",
	    filepath.Join(dir, "exchange.csv"), codec.NewExchangeCodec(),
	    csvfile.WithLogger(logger),
	    csvfile.WithTrigger(sched),
	)

	if err := list.ReadItems(&collector); err != nil {
	    return err
	}

	_, err := list.Add(&storagemodels.Exchange{Name: "MOEX"})

Add, Update and Remove return as soon as the index and queue are updated.
Flush writes the whole index to a temporary file and renames it over the
backing file, so after a successful flush the file holds exactly the indexed
records in insertion order. A failed flush leaves the queue untouched and the
next flush retries.

ReadItems never aborts on a bad row. Each undecodable row, unresolved
reference or repeated key is reported as an errors.DecodeRowError naming the
file and line, and loading continues with the next row.
*/
package csvfile
