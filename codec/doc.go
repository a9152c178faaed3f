/*
Package codec maps csvstore records to ordered rows of text fields.

Each record type has a codec implementing datastore.Codec: a key extractor, a
row decoder and a row encoder. Decoders resolve references through the
ReadByID method of the sibling lists loaded before them, so a board row loads
only once its exchange is indexed.

Field encodings shared by every codec:
  - timestamps: yyyyMMddHHmmss in UTC (DateTimeLayout)
  - time of day: HH:mm:ss
  - decimals, integers and enumerations: plain text, no locale formatting
  - absent values: an empty field
  - collections: an XML document from the nested registry, escaped into one field
*/
package codec
