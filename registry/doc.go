/*
Package registry manages the codecs of nested values embedded in csvstore rows.

Some record attributes are collections (a board's working-time periods, its
special working days and holidays). They are stored as one row field holding a
compact XML document.

Value Codecs:
A ValueCodec maps a Go value to an XML document shape and back:

	codec := registry.NewValueCodec[[]time.Time, datesDoc]("dates", toDatesDoc, fromDatesDoc)

Registry:
Codecs are registered once under a static tag and looked up when the row codecs
are built, never per row:

	reg := registry.New()
	_ = registry.Register(reg, codec)
	dates, err := registry.Lookup[[]time.Time](reg, "dates")

Field Escaping:
Encode applies Escape after marshalling, Decode applies Unescape before
parsing. Line breaks are dropped and double quotes become single quotes so the
document never breaks the delimited row around it.

The registry is thread-safe and should be populated during initialization.
*/
package registry
