/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"encoding/xml"
	"fmt"
	"sync"
)

// Tag identifies a nested value type in a Registry.
type Tag string

// ValueCodec converts a nested value T to a compact XML document and back.
// D is the document shape handed to encoding/xml.
type ValueCodec[T any] struct {
	tag    Tag
	encode func(T) (any, error)
	decode func([]byte) (T, error)
}

// NewValueCodec builds a codec from the conversions between T and its document D.
func NewValueCodec[T, D any](tag Tag, toDoc func(T) (D, error), fromDoc func(D) (T, error)) *ValueCodec[T] {
	return &ValueCodec[T]{
		tag: tag,
		encode: func(v T) (any, error) {
			return toDoc(v)
		},
		decode: func(data []byte) (T, error) {
			var doc D
			if err := xml.Unmarshal(data, &doc); err != nil {
				var zero T
				return zero, err
			}
			return fromDoc(doc)
		},
	}
}

// Tag returns the registration tag.
func (c *ValueCodec[T]) Tag() Tag {
	return c.tag
}

// Marshal renders v as an XML document.
func (c *ValueCodec[T]) Marshal(v T) (string, error) {
	doc, err := c.encode(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.tag, err)
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.tag, err)
	}
	return string(out), nil
}

// Unmarshal parses an XML document produced by Marshal.
func (c *ValueCodec[T]) Unmarshal(s string) (T, error) {
	v, err := c.decode([]byte(s))
	if err != nil {
		return v, fmt.Errorf("%s: %w", c.tag, err)
	}
	return v, nil
}

// Encode marshals v and escapes it for embedding in a single row field.
func (c *ValueCodec[T]) Encode(v T) (string, error) {
	s, err := c.Marshal(v)
	if err != nil {
		return "", err
	}
	return Escape(s), nil
}

// Decode reverses Encode.
func (c *ValueCodec[T]) Decode(field string) (T, error) {
	return c.Unmarshal(Unescape(field))
}

// Registry holds one codec per nested value type. It is filled once at
// construction and read afterwards.
type Registry struct {
	mu     sync.RWMutex
	codecs map[Tag]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		codecs: make(map[Tag]any),
	}
}

// Register adds codec under its tag.
// If a codec is already registered for the tag, it returns an error to prevent accidental overrides.
func Register[T any](r *Registry, codec *ValueCodec[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codecs[codec.tag]; exists {
		return fmt.Errorf("codec registry: codec with tag %q already registered", codec.tag)
	}
	r.codecs[codec.tag] = codec
	return nil
}

// Lookup returns the codec registered under tag for value type T.
func Lookup[T any](r *Registry, tag Tag) (*ValueCodec[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[tag]
	if !ok {
		return nil, fmt.Errorf("codec registry: no codec registered for tag %q", tag)
	}
	typed, ok := c.(*ValueCodec[T])
	if !ok {
		return nil, fmt.Errorf("codec registry: codec %q has type %T", tag, c)
	}
	return typed, nil
}

// Tags lists the registered tags.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]Tag, 0, len(r.codecs))
	for t := range r.codecs {
		tags = append(tags, t)
	}
	return tags
}
