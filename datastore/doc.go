/*
Package datastore defines the core interfaces for csvstore's persistence layer.

The main interface is EntityList[K, V], an indexed collection of records of
type V keyed by K:

	type EntityList[K comparable, V any] interface {
	    Add(v V) (V, error)
	    Update(v V) (V, error)
	    Remove(v V) error
	    ReadByID(key K) (V, bool)
	    Items() []V
	    Count() int
	    Watch(fn func(storagemodels.Change[V])) (cancel func())
	}

A Codec[K, V] supplies the key extractor and the row mapping of one record
type. Lists of different record types are driven together through the Loadable
and Flushable capabilities, so a registry can bulk-load and flush them without
naming their concrete types.

Implementations:
  - csvfile: one delimited text file per list, write-back on flush
  - mock: in-memory implementation with injectable failures for testing
*/
package datastore
