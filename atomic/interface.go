/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package atomic

import (
	"sync/atomic"
)

// Value is a generic, lock-free container for a single value of type T with
// configurable defaults for an empty load and an empty store.
type Value[T any] interface {
	// SetDefaultLoad sets the default load value for this Value.
	// The default value is returned when Load is called and the value is not present in the underlying store.
	//
	// Note: SetDefaultLoad should be called before first use of Load.
	SetDefaultLoad(def T)
	// SetDefaultStore sets the default store value for this Value.
	// The default value is used when Store is called with a value of zero.
	// Note: SetDefaultStore should be called before first use of Store.
	SetDefaultStore(def T)

	// Load returns the value stored in the underlying store for this Value.
	// If no value is present, the default load value (set by SetDefaultLoad) is returned.
	// Note: Load will return the default load value until the first successful call to Store.
	Load() (val T)
	// Store sets the value in the underlying store for this Value.
	// Note: Store will use the default store value (set by SetDefaultStore) if the value passed is zero.
	//
	// If the value is not zero, the underlying store will be updated with the new value.
	//
	// Example:
	//  v := NewValue[int]()
	//  v.SetDefaultStore(42)
	//  v.Store(0) // sets 42 as the value in the underlying store
	//  v.Store(99) // sets 99 as the value in the underlying store
	Store(val T)
	// Swap atomically swaps the value of the underlying store for this Value with the given new value.
	// It returns the previous value stored in the underlying store.
	// If the previous value is zero, the default load value (set by SetDefaultLoad) is returned.
	// If the new value is zero, the default store value (set by SetDefaultStore) is stored instead.
	//
	// Example:
	//  v := NewValue[int]()
	//  v.SetDefaultLoad(7)
	//  v.SetDefaultStore(42)
	//  old := v.Swap(0) // old is 7, and the value in the underlying store is 42
	Swap(new T) (old T)
	// CompareAndSwap atomically compares the value stored in the underlying store for this Value
	// with the given old value. If they are equal, it atomically swaps the value with the given new value.
	// It returns true if the swap was successful, or false otherwise.
	//
	// Note: If the old value is zero, the default store value (set by SetDefaultStore) is used for comparison.
	// If the new value is zero, the default store value (set by SetDefaultStore) is used for swapping.
	//
	// Example:
	//  v := NewValue[int]()
	//  v.SetDefaultStore(42)
	//  v.Store(0)                         // the underlying store now holds 42
	//  swapped := v.CompareAndSwap(0, 99) // swapped is true (0 compares as 42), and the value in the underlying store is 99
	CompareAndSwap(old, new T) (swapped bool)
}

// NewValue returns a new Value with the given type. The default load value is the zero value
// of the given type, and the default store value is the zero value of the given type.
//
// Example:
//
//	v := NewValue[int]()
//	// v is a Value with default load value 0 and default store value 0.
func NewValue[T any]() Value[T] {
	var (
		tmp1 T
		tmp2 T
	)

	return NewValueDefault[T](tmp1, tmp2)
}

// NewValueDefault returns a new Value with the given type, default load value, and default store value.
// The default load value is the value passed to the load parameter, and the default store value is the value
// passed to the store parameter.
//
// Example:
//
//	v := NewValueDefault[int](0, 42)
//	// v is a Value with default load value 0 and default store value 42.
func NewValueDefault[T any](load, store T) Value[T] {
	o := &val[T]{
		av: new(atomic.Value),
		dl: new(atomic.Value),
		ds: new(atomic.Value),
	}

	o.SetDefaultLoad(load)
	o.SetDefaultStore(store)

	return o
}
